// Package analyzer 从新闻文章中抽取争议事件。
// 所有后端返回统一的 model.RawIncident，由调用方完成规范化。
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

// Analyzer 分析一家公司的文章并返回原始事件
type Analyzer interface {
	Analyze(ctx context.Context, company model.Company, articles []model.Article) ([]model.RawIncident, error)
}

// HighPrioritySources 一手或高可信度来源，命中时提升严重度
var HighPrioritySources = []string{
	"department of justice", "commission", "court",
	"reuters", "bloomberg", "financial times",
}

// IsHighPriority 判断媒体名称是否属于高优先级来源
func IsHighPriority(outlet string) bool {
	outlet = strings.ToLower(outlet)
	for _, s := range HighPrioritySources {
		if strings.Contains(outlet, s) {
			return true
		}
	}
	return false
}

// idPrefix 优先使用股票代码，否则取公司名前三个字符的大写
func idPrefix(c model.Company) string {
	if c.Ticker != "" {
		return strings.ToUpper(c.Ticker)
	}
	return namePrefix(c.Name)
}

func namePrefix(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}

// incidentDate 事件用于编号的日期
func incidentDate(r model.RawIncident) string {
	switch {
	case r.FirstSeen != "":
		return r.FirstSeen
	case r.PublishedDate != "":
		return r.PublishedDate
	}
	for _, s := range r.Sources {
		if s.Date != "" {
			return s.Date
		}
		if s.PublishedDate != "" {
			return s.PublishedDate
		}
	}
	return "undated"
}

// AssignIDs 为事件生成 {TICKER}-{date}-{n} 形式的编号，n 从 1 开始。
// 模型给出的编号不可靠，统一覆盖。
func AssignIDs(c model.Company, raws []model.RawIncident) {
	prefix := idPrefix(c)
	for i := range raws {
		raws[i].ID = fmt.Sprintf("%s-%s-%d", prefix, incidentDate(raws[i]), i+1)
	}
}
