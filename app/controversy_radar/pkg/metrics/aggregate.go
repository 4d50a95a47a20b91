// Package metrics 计算事件集合的周度指标、周环比差值与趋势。
// 公司维度和组合维度使用同一套计算，只是输入的事件集合与上期快照不同。
package metrics

import "github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"

const (
	// NotesInitialRun 没有上期组合汇总时的说明
	NotesInitialRun = "Initial run, no trend data available."
	// NotesComparative 有上期组合汇总时的说明
	NotesComparative = "Week-over-week comparison."
)

// Aggregate 聚合事件集合。prior 为 nil 表示没有上期数据，此时 wow_delta 为空、趋势为 Stable。
// severity 假定已经由上游校验在 [1,5] 内，这里不再校验。
func Aggregate(incidents []model.Incident, prior *model.Metrics) model.Metrics {
	m := model.Metrics{
		TotalIncidents: len(incidents),
		ByCategory:     make(map[model.Category]int),
	}

	sum := 0
	for _, inc := range incidents {
		sum += inc.Severity
		if inc.Severity >= 4 {
			m.CountSev45++
		}
		m.ByCategory[inc.Category]++
	}
	if m.TotalIncidents > 0 {
		m.AvgSeverity = float64(sum) / float64(m.TotalIncidents)
	}

	if prior != nil {
		dTotal := m.TotalIncidents - prior.TotalIncidents
		dAvg := m.AvgSeverity - prior.AvgSeverity
		m.WoWDelta = model.WoWDelta{TotalIncidents: &dTotal, AvgSeverity: &dAvg}
	}
	m.Trend = Trend(m.WoWDelta)
	return m
}

// Trend 只看事件数量差值：增加为 Worsening，减少为 Improving，其余为 Stable。
// 平均严重度的变化不参与判断。
func Trend(d model.WoWDelta) model.Trend {
	delta := 0
	if d.TotalIncidents != nil {
		delta = *d.TotalIncidents
	}
	switch {
	case delta > 0:
		return model.TrendWorsening
	case delta < 0:
		return model.TrendImproving
	default:
		return model.TrendStable
	}
}

// Company 计算公司维度指标，prior 是上期同名公司的报告
func Company(incidents []model.Incident, prior *model.CompanyReport) model.Metrics {
	if prior == nil {
		return Aggregate(incidents, nil)
	}
	pm := prior.WeeklyMetrics
	return Aggregate(incidents, &pm)
}

// Portfolio 计算组合维度汇总并填写 notes
func Portfolio(incidents []model.Incident, prior *model.PortfolioSummary) model.PortfolioSummary {
	if prior == nil {
		return model.PortfolioSummary{
			Metrics: Aggregate(incidents, nil),
			Notes:   NotesInitialRun,
		}
	}
	pm := prior.Metrics
	return model.PortfolioSummary{
		Metrics: Aggregate(incidents, &pm),
		Notes:   NotesComparative,
	}
}
