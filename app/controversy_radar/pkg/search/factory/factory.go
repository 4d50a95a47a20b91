package factory

import (
	"fmt"
	"time"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/config"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/rss"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/search"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/searxng"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例，breaker 开启时外层包裹熔断。
// now 为本次运行的时钟，mock 样例数据的日期以它为准，为 nil 时使用 time.Now
func NewSearcher(cfg config.SearchConfig, now func() time.Time) (search.Searcher, error) {
	s, err := newProvider(cfg, now)
	if err != nil {
		return nil, err
	}
	if cfg.Breaker && cfg.Provider != "mock" {
		s = search.WithBreaker(s, "search-"+cfg.Provider)
	}
	return s, nil
}

func newProvider(cfg config.SearchConfig, now func() time.Time) (search.Searcher, error) {
	switch cfg.Provider {
	case "", "mock":
		m := search.NewMockSearcher()
		if now != nil {
			m.Now = now
		}
		return m, nil

	case "tavily":
		if cfg.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Tavily.APIKey), nil

	case "searxng":
		baseURL := cfg.SearXNG.BaseURL
		if baseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(baseURL, cfg.SearXNG.Timeout), nil

	case "rss":
		return rss.NewClient(cfg.RSS.URLTemplate, cfg.RSS.Language), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Provider)
	}
}
