package output

import (
	"fmt"
	"sort"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

// TopN 邮件中展示的重点事件数量
const TopN = 5

// RankedIncident 带公司信息的事件
type RankedIncident struct {
	model.Incident
	CompanyName string
	Ticker      string
}

// TopIncidents 按严重度降序、first_seen 降序取前 n 条，相同时保持组合顺序
func TopIncidents(r *model.Report, n int) []RankedIncident {
	all := make([]RankedIncident, 0)
	for _, c := range r.Companies {
		for _, inc := range c.Incidents {
			all = append(all, RankedIncident{Incident: inc, CompanyName: c.CompanyName, Ticker: c.Ticker})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Severity != all[j].Severity {
			return all[i].Severity > all[j].Severity
		}
		return all[i].FirstSeen > all[j].FirstSeen
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// TrendGroups 按趋势分组的公司名，组内保持组合顺序
type TrendGroups struct {
	Worsening []string
	Improving []string
	Stable    []string
}

// GroupByTrend 按公司趋势分组
func GroupByTrend(r *model.Report) TrendGroups {
	var g TrendGroups
	for _, c := range r.Companies {
		switch c.WeeklyMetrics.Trend {
		case model.TrendWorsening:
			g.Worsening = append(g.Worsening, c.CompanyName)
		case model.TrendImproving:
			g.Improving = append(g.Improving, c.CompanyName)
		default:
			g.Stable = append(g.Stable, c.CompanyName)
		}
	}
	return g
}

// FormatFloatDelta 两位小数并带符号，四舍五入为 0 时输出 0.00，没有上期时输出 n/a
func FormatFloatDelta(d *float64) string {
	if d == nil {
		return "n/a"
	}
	s := fmt.Sprintf("%+.2f", *d)
	if s == "+0.00" || s == "-0.00" {
		return "0.00"
	}
	return s
}

// FormatIntDelta 带符号的整数差值
func FormatIntDelta(d *int) string {
	if d == nil {
		return "n/a"
	}
	if *d == 0 {
		return "0"
	}
	return fmt.Sprintf("%+d", *d)
}

// CategoryCount 分类计数，按固定分类顺序展示
type CategoryCount struct {
	Category model.Category
	Count    int
}

// CategoryBreakdown 返回全部分类的计数，没有事件的分类计 0
func CategoryBreakdown(m model.Metrics) []CategoryCount {
	out := make([]CategoryCount, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, CategoryCount{Category: c, Count: m.ByCategory[c]})
	}
	return out
}
