// Package rss 通过新闻聚合的 RSS 搜索接口检索文章，无需 API Key
package rss

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/search"
)

// DefaultURLTemplate Google News RSS 搜索地址，%s 为查询，%s 为语言
const DefaultURLTemplate = "https://news.google.com/rss/search?q=%s&hl=%s"

// Client RSS 搜索客户端
type Client struct {
	urlTemplate string
	language    string
	parser      *gofeed.Parser
}

// NewClient 创建 RSS 客户端，template 为空时使用 Google News
func NewClient(template, language string) *Client {
	if template == "" {
		template = DefaultURLTemplate
	}
	if language == "" {
		language = "en"
	}
	return &Client{urlTemplate: template, language: language, parser: gofeed.NewParser()}
}

var _ search.Searcher = (*Client)(nil)

// Search 拉取 feed 并按 [StartDate, EndDate] 过滤
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	lang := req.Language
	if lang == "" {
		lang = c.language
	}
	feedURL := c.urlTemplate
	switch strings.Count(feedURL, "%s") {
	case 1:
		feedURL = fmt.Sprintf(feedURL, url.QueryEscape(req.Query))
	case 2:
		feedURL = fmt.Sprintf(feedURL, url.QueryEscape(req.Query), url.QueryEscape(lang))
	}

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rss feed failed: %w", err)
	}

	results := make([]search.Result, 0, len(feed.Items))
	for _, item := range feed.Items {
		published := ""
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC().Format(time.DateOnly)
		}
		if published != "" {
			if req.StartDate != "" && published < req.StartDate {
				continue
			}
			if req.EndDate != "" && published > req.EndDate {
				continue
			}
		}

		outlet := search.OutletFromURL(item.Link)
		// Google News 的标题形如 "Headline - Outlet"
		title := item.Title
		if i := strings.LastIndex(title, " - "); i > 0 {
			outlet = strings.TrimSpace(title[i+3:])
			title = strings.TrimSpace(title[:i])
		}

		results = append(results, search.Result{
			Title:         title,
			URL:           item.Link,
			Content:       item.Description,
			PublishedDate: published,
			Outlet:        outlet,
			Language:      lang,
		})
		if req.MaxResults > 0 && len(results) >= req.MaxResults {
			break
		}
	}
	return &search.Response{Results: results}, nil
}
