package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

// MockAnalyzer 基于标题关键词的规则分析，不调用任何模型
type MockAnalyzer struct{}

var _ Analyzer = MockAnalyzer{}

// Analyze 标题含 probe 或 investigation 的文章生成一条 Governance/Legal 事件，
// 来源为高优先级媒体时严重度为 4，否则为 3
func (MockAnalyzer) Analyze(_ context.Context, company model.Company, articles []model.Article) ([]model.RawIncident, error) {
	prefix := namePrefix(company.Name)
	incidents := make([]model.RawIncident, 0)
	for i, a := range articles {
		title := strings.ToLower(a.Title)
		if !strings.Contains(title, "probe") && !strings.Contains(title, "investigation") {
			continue
		}
		severity := 3
		if IsHighPriority(a.Outlet) {
			severity = 4
		}
		incidents = append(incidents, model.RawIncident{
			ID:         fmt.Sprintf("%s-%s-%d", prefix, a.PublishedDate, i+1),
			Category:   string(model.CategoryGovernanceLegal),
			Severity:   json.Number(fmt.Sprint(severity)),
			Confidence: "high",
			SummaryEN: fmt.Sprintf("Mock summary: An investigation has been opened into %s regarding its data practices, as reported by %s.",
				company.Name, a.Outlet),
			KeyQuote: a.Snippet,
			Sources: []model.RawSource{{
				URL:      a.URL,
				Outlet:   a.Outlet,
				Date:     a.PublishedDate,
				Language: a.Language,
			}},
			FirstSeen: a.PublishedDate,
			Updated:   a.PublishedDate,
			Tags:      []string{"investigation", "data privacy"},
		})
	}
	return incidents, nil
}
