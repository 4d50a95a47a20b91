package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
)

// Fetcher 抓取文章正文
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// ReadabilityFetcher 下载页面并用 go-readability 提取正文
type ReadabilityFetcher struct {
	client *http.Client
}

// NewReadabilityFetcher 创建正文抓取器
func NewReadabilityFetcher(timeout time.Duration) *ReadabilityFetcher {
	return &ReadabilityFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *ReadabilityFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; controversy-radar)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}
