// Package telemetry 记录单次运行的指标，运行结束时推送到 Prometheus Pushgateway
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

// Recorder 单次运行的指标集合，使用独立的 Registry
type Recorder struct {
	registry *prometheus.Registry
	url      string
	job      string

	CompanyIncidents   *prometheus.GaugeVec
	CompanyAvgSeverity *prometheus.GaugeVec
	PortfolioIncidents prometheus.Gauge
	PortfolioSev45     prometheus.Gauge
	PortfolioAvg       prometheus.Gauge
	Failures           *prometheus.CounterVec
	Rejected           *prometheus.CounterVec
	RunDuration        prometheus.Gauge
	LastSuccess        prometheus.Gauge
}

// New 创建指标集合，url 为空时 Push 不做任何事
func New(url, job string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		url:      url,
		job:      job,

		CompanyIncidents: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "controversy_radar_company_incidents",
				Help: "Incidents found for a company in the current week",
			},
			[]string{"company"},
		),
		CompanyAvgSeverity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "controversy_radar_company_avg_severity",
				Help: "Average incident severity for a company in the current week",
			},
			[]string{"company"},
		),
		PortfolioIncidents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "controversy_radar_portfolio_incidents",
			Help: "Incidents found across the portfolio in the current week",
		}),
		PortfolioSev45: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "controversy_radar_portfolio_major_incidents",
			Help: "Incidents with severity 4 or 5 across the portfolio",
		}),
		PortfolioAvg: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "controversy_radar_portfolio_avg_severity",
			Help: "Average incident severity across the portfolio",
		}),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "controversy_radar_failures_total",
				Help: "Upstream failures by stage",
			},
			[]string{"stage"},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "controversy_radar_rejected_incidents_total",
				Help: "Malformed incidents rejected during normalisation",
			},
			[]string{"company"},
		),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "controversy_radar_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "controversy_radar_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		}),
	}
	r.registry.MustRegister(
		r.CompanyIncidents, r.CompanyAvgSeverity,
		r.PortfolioIncidents, r.PortfolioSev45, r.PortfolioAvg,
		r.Failures, r.Rejected, r.RunDuration, r.LastSuccess,
	)
	return r
}

// Registry 供测试读取
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveCompany 记录公司维度指标
func (r *Recorder) ObserveCompany(name string, m model.Metrics) {
	r.CompanyIncidents.WithLabelValues(name).Set(float64(m.TotalIncidents))
	r.CompanyAvgSeverity.WithLabelValues(name).Set(m.AvgSeverity)
}

// ObservePortfolio 记录组合维度指标
func (r *Recorder) ObservePortfolio(ps model.PortfolioSummary) {
	r.PortfolioIncidents.Set(float64(ps.TotalIncidents))
	r.PortfolioSev45.Set(float64(ps.CountSev45))
	r.PortfolioAvg.Set(ps.AvgSeverity)
}

// Failure 记录上游失败，stage 为 search / fetch / analyze / email
func (r *Recorder) Failure(stage string) {
	r.Failures.WithLabelValues(stage).Inc()
}

// Reject 记录被拒绝的事件
func (r *Recorder) Reject(company string) {
	r.Rejected.WithLabelValues(company).Inc()
}

// Finish 记录运行耗时与完成时间
func (r *Recorder) Finish(start, end time.Time) {
	r.RunDuration.Set(end.Sub(start).Seconds())
	r.LastSuccess.Set(float64(end.Unix()))
}

// Push 推送到 Pushgateway
func (r *Recorder) Push(ctx context.Context) error {
	if r.url == "" {
		return nil
	}
	return push.New(r.url, r.job).Gatherer(r.registry).PushContext(ctx)
}
