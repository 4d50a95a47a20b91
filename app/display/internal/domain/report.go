package domain

import "github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"

// CompanyTrend 单个公司的趋势摘要
type CompanyTrend struct {
	CompanyName    string      `json:"company_name"`
	Ticker         string      `json:"ticker"`
	TotalIncidents int         `json:"total_incidents"`
	AvgSeverity    float64     `json:"avg_severity"`
	Trend          model.Trend `json:"trend"`
}

// ReportSummary 周报摘要：组合汇总加各公司趋势
type ReportSummary struct {
	Key              string                 `json:"key"`
	WeekEnding       string                 `json:"week_ending"`
	PortfolioSummary model.PortfolioSummary `json:"portfolio_summary"`
	Companies        []CompanyTrend         `json:"companies"`
}

// ReportList 周期键分页结果，按保存时间倒序
type ReportList struct {
	Keys  []string `json:"keys"`
	Total int      `json:"total"`
}

// Summarize 从完整周报生成摘要
func Summarize(key string, r *model.Report) *ReportSummary {
	s := &ReportSummary{
		Key:              key,
		WeekEnding:       r.WeekEnding,
		PortfolioSummary: r.PortfolioSummary,
		Companies:        make([]CompanyTrend, 0, len(r.Companies)),
	}
	for _, c := range r.Companies {
		s.Companies = append(s.Companies, CompanyTrend{
			CompanyName:    c.CompanyName,
			Ticker:         c.Ticker,
			TotalIncidents: c.WeeklyMetrics.TotalIncidents,
			AvgSeverity:    c.WeeklyMetrics.AvgSeverity,
			Trend:          c.WeeklyMetrics.Trend,
		})
	}
	return s
}
