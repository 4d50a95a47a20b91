package search

import (
	"context"
	"strings"
	"time"
)

// MockSearcher 返回固定样例数据，用于本地演示和测试
type MockSearcher struct {
	Now func() time.Time
}

var _ Searcher = (*MockSearcher)(nil)

// NewMockSearcher 创建样例搜索
func NewMockSearcher() *MockSearcher {
	return &MockSearcher{Now: time.Now}
}

// Search 查询中包含 Palantir 时返回两条新闻，其余返回空结果
func (m *MockSearcher) Search(_ context.Context, req *Request) (*Response, error) {
	if !strings.Contains(req.Query, "Palantir") {
		return &Response{}, nil
	}
	now := m.Now()
	return &Response{Results: []Result{
		{
			Title:         "Palantir wins new US Army contract for battlefield AI",
			URL:           "https://www.reuters.com/technology/palantir-wins-new-us-army-contract-2025-11-01/",
			Content:       "Palantir Technologies Inc has been awarded a new contract by the U.S. Army to provide its AI-powered software for battlefield intelligence.",
			Outlet:        "Reuters",
			PublishedDate: now.AddDate(0, 0, -1).Format(time.DateOnly),
			Language:      "en",
		},
		{
			Title:         "EU Regulators Open Probe into Palantir Data Practices Over Misconduct Allegations",
			URL:           "https://www.bloomberg.com/news/articles/2025-11-02/eu-regulators-open-probe-into-palantir-data-practices",
			Content:       "The European Union has launched an investigation into Palantir's data handling practices following allegations of misconduct and potential GDPR violations.",
			Outlet:        "Bloomberg",
			PublishedDate: now.AddDate(0, 0, -2).Format(time.DateOnly),
			Language:      "en",
		},
	}}, nil
}
