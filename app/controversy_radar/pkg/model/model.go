package model

import (
	"errors"
	"fmt"
	"strings"
)

// Category 争议事件分类
type Category string

const (
	CategoryGovernanceLegal    Category = "Governance/Legal"
	CategoryEnvironmental      Category = "Environmental"
	CategorySocialHumanCapital Category = "Social/Human Capital"
	CategoryProductCustomer    Category = "Product/Customer"
	CategoryFinancialIntegrity Category = "Financial Integrity"
)

// Categories 全部合法分类，顺序即展示顺序
var Categories = []Category{
	CategoryGovernanceLegal,
	CategoryEnvironmental,
	CategorySocialHumanCapital,
	CategoryProductCustomer,
	CategoryFinancialIntegrity,
}

// ParseCategory 忽略大小写与首尾空白解析分类
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Trend 周环比趋势
type Trend string

const (
	TrendWorsening Trend = "Worsening"
	TrendImproving Trend = "Improving"
	TrendStable    Trend = "Stable"
)

// Company 投资组合中的一家公司
type Company struct {
	Name    string   `json:"company_name" yaml:"name"`
	Ticker  string   `json:"ticker" yaml:"ticker"`
	Aliases []string `json:"aliases" yaml:"aliases"`
}

// Article 搜索得到的新闻文章
type Article struct {
	Title         string
	URL           string
	Outlet        string
	PublishedDate string
	Snippet       string
	Language      string
	Content       string // 临时存储用于分析，不落盘
}

// Source 事件来源
type Source struct {
	URL      string `json:"url"`
	Outlet   string `json:"outlet"`
	Date     string `json:"date"`
	Language string `json:"language"`
}

// Incident 一条争议事件，生成后不可变。
// Tags 为空时统一用 nil 表示，序列化时省略该字段，空切片经存储往返后同样变为 nil
type Incident struct {
	ID           string   `json:"id"`
	Category     Category `json:"category"`
	Severity     int      `json:"severity"`
	Confidence   string   `json:"confidence"`
	Summary      string   `json:"summary"`
	SummaryLocal string   `json:"summary_local,omitempty"`
	KeyQuote     string   `json:"key_quote"`
	Sources      []Source `json:"sources"`
	FirstSeen    string   `json:"first_seen"`
	Updated      string   `json:"updated"`
	Tags         []string `json:"tags,omitempty"`
}

// PrimarySource 返回第一条来源，没有来源时返回零值
func (i Incident) PrimarySource() Source {
	if len(i.Sources) == 0 {
		return Source{}
	}
	return i.Sources[0]
}

// WoWDelta 周环比差值。没有上期数据时两个字段都为 nil，序列化为 {}
type WoWDelta struct {
	TotalIncidents *int     `json:"total_incidents,omitempty"`
	AvgSeverity    *float64 `json:"avg_severity,omitempty"`
}

// HasPrior 是否基于上期数据计算
func (d WoWDelta) HasPrior() bool {
	return d.TotalIncidents != nil
}

// Metrics 单个事件集合上的聚合指标，公司和组合两个维度共用
type Metrics struct {
	TotalIncidents int              `json:"total_incidents"`
	AvgSeverity    float64          `json:"avg_severity"`
	CountSev45     int              `json:"count_sev_4_5"`
	ByCategory     map[Category]int `json:"by_category"`
	WoWDelta       WoWDelta         `json:"wow_delta"`
	Trend          Trend            `json:"trend"`
}

// PortfolioSummary 组合维度汇总
type PortfolioSummary struct {
	Metrics
	Notes string `json:"notes"`
}

// CompanyReport 单个公司的周报
type CompanyReport struct {
	CompanyName   string     `json:"company_name"`
	Ticker        string     `json:"ticker"`
	Incidents     []Incident `json:"incidents"`
	WeeklyMetrics Metrics    `json:"weekly_metrics"`
}

// Report 持久化与渲染的周报
type Report struct {
	WeekEnding       string           `json:"week_ending"`
	PortfolioSummary PortfolioSummary `json:"portfolio_summary"`
	Companies        []CompanyReport  `json:"companies"`
}

// ErrInconsistentReport 组合汇总与公司明细不一致
var ErrInconsistentReport = errors.New("inconsistent report")

// Company 按名称查找公司报告
func (r *Report) Company(name string) *CompanyReport {
	if r == nil {
		return nil
	}
	for i := range r.Companies {
		if r.Companies[i].CompanyName == name {
			return &r.Companies[i]
		}
	}
	return nil
}

// AllIncidents 按公司顺序展开全部事件
func (r *Report) AllIncidents() []Incident {
	all := make([]Incident, 0)
	for _, c := range r.Companies {
		all = append(all, c.Incidents...)
	}
	return all
}

// Validate 校验组合汇总等于各公司指标之和
func (r *Report) Validate() error {
	total := 0
	byCategory := make(map[Category]int)
	for _, c := range r.Companies {
		if c.WeeklyMetrics.TotalIncidents != len(c.Incidents) {
			return fmt.Errorf("%w: company %q has %d incidents but total_incidents=%d",
				ErrInconsistentReport, c.CompanyName, len(c.Incidents), c.WeeklyMetrics.TotalIncidents)
		}
		total += c.WeeklyMetrics.TotalIncidents
		for cat, n := range c.WeeklyMetrics.ByCategory {
			byCategory[cat] += n
		}
	}

	ps := r.PortfolioSummary
	if ps.TotalIncidents != total {
		return fmt.Errorf("%w: portfolio total_incidents=%d, sum of companies=%d",
			ErrInconsistentReport, ps.TotalIncidents, total)
	}
	if len(ps.ByCategory) != len(byCategory) {
		return fmt.Errorf("%w: portfolio has %d categories, companies have %d",
			ErrInconsistentReport, len(ps.ByCategory), len(byCategory))
	}
	for cat, n := range byCategory {
		if ps.ByCategory[cat] != n {
			return fmt.Errorf("%w: category %q portfolio=%d, sum of companies=%d",
				ErrInconsistentReport, cat, ps.ByCategory[cat], n)
		}
	}
	return nil
}
