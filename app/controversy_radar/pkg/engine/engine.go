package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/analyzer"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/logger"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/mailer"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/metrics"
	dm "github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/output"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/period"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/search"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/storage"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/telemetry"
)

// Renderer 输出渲染
type Renderer interface {
	Render(key string, report *dm.Report) (*output.Outputs, error)
}

// Options 引擎依赖，全部由调用方注入
type Options struct {
	Label     string
	Store     storage.Store
	Searcher  search.Searcher
	Analyzer  analyzer.Analyzer
	Renderer  Renderer
	Mailer    mailer.Mailer
	Telemetry *telemetry.Recorder
	Fetcher   Fetcher
	Log       logrus.FieldLogger
	Now       func() time.Time

	Workers     int
	MaxResults  int
	MaxArticles int
	FetchBody   bool
	Language    string
}

// Engine 核心处理引擎，一次 Run 生成一期周报
type Engine struct {
	opts Options
	log  logrus.FieldLogger
}

// Result 一次运行的结果
type Result struct {
	RunID    string
	Key      string
	PriorKey string
	Report   *dm.Report
	Outputs  *output.Outputs
}

// New 创建引擎实例
func New(opts Options) (*Engine, error) {
	switch {
	case opts.Store == nil:
		return nil, errors.New("engine: store is required")
	case opts.Searcher == nil:
		return nil, errors.New("engine: searcher is required")
	case opts.Analyzer == nil:
		return nil, errors.New("engine: analyzer is required")
	case opts.Renderer == nil:
		return nil, errors.New("engine: renderer is required")
	case opts.Label == "":
		return nil, errors.New("engine: portfolio label is required")
	case !period.ValidKey(opts.Label):
		return nil, fmt.Errorf("engine: invalid portfolio label %q", opts.Label)
	}
	if opts.Mailer == nil {
		opts.Mailer = mailer.Noop{}
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.New("", "")
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewReadabilityFetcher(30 * time.Second)
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = 20
	}
	if opts.MaxArticles == 0 {
		opts.MaxArticles = 10
	}
	return &Engine{opts: opts, log: opts.Log}, nil
}

// Run 执行一次周报任务：读取上期 → 逐公司检索分析聚合 → 组合汇总 → 渲染 → 邮件 → 保存
func (e *Engine) Run(ctx context.Context, companies []dm.Company) (*Result, error) {
	start := e.opts.Now()
	res := &Result{RunID: uuid.NewString()}
	log := e.log.WithField("run_id", res.RunID)

	res.Key, res.PriorKey = period.Keys(e.opts.Label, start)
	from, to := period.Window(start)
	log.Infof("开始生成周报 %s，共 %d 家公司，检索窗口 %s ~ %s", res.Key, len(companies), from, to)

	prior, err := e.opts.Store.Load(ctx, res.PriorKey)
	if err != nil {
		return nil, fmt.Errorf("load prior report %s: %w", res.PriorKey, err)
	}
	if prior == nil {
		log.Infof("未找到上期周报 %s，按首次运行处理", res.PriorKey)
	}

	reports := make([]dm.CompanyReport, len(companies))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] = e.processCompany(ctx, log, companies[i], prior.Company(companies[i].Name), from, to)
			}
		}()
	}
dispatch:
	for i := range companies {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 按组合顺序累积全部事件
	all := make([]dm.Incident, 0)
	for _, cr := range reports {
		all = append(all, cr.Incidents...)
	}
	var priorSummary *dm.PortfolioSummary
	if prior != nil {
		priorSummary = &prior.PortfolioSummary
	}
	report := &dm.Report{
		WeekEnding:       to,
		PortfolioSummary: metrics.Portfolio(all, priorSummary),
		Companies:        reports,
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	res.Report = report
	e.opts.Telemetry.ObservePortfolio(report.PortfolioSummary)
	log.Infof("组合汇总: %d 条事件，平均严重度 %.2f，趋势 %s",
		report.PortfolioSummary.TotalIncidents, report.PortfolioSummary.AvgSeverity, report.PortfolioSummary.Trend)

	res.Outputs, err = e.opts.Renderer.Render(res.Key, report)
	if err != nil {
		return nil, fmt.Errorf("render outputs: %w", err)
	}

	if err := e.opts.Mailer.Send(ctx, res.Outputs.Subject, res.Outputs.HTML); err != nil {
		log.Errorf("邮件发送失败: %v", err)
		e.opts.Telemetry.Failure("email")
	}

	if err := e.opts.Store.Save(ctx, res.Key, report); err != nil {
		return nil, err
	}
	log.Infof("周报 %s 已保存", res.Key)

	e.opts.Telemetry.Finish(start, e.opts.Now())
	if err := e.opts.Telemetry.Push(ctx); err != nil {
		log.Warnf("指标推送失败: %v", err)
	}
	return res, nil
}

// processCompany 检索、分析并聚合单个公司。上游失败按零事件处理，不中断整次运行。
func (e *Engine) processCompany(ctx context.Context, log logrus.FieldLogger, c dm.Company, prior *dm.CompanyReport, from, to string) dm.CompanyReport {
	log = log.WithField("company", c.Name)
	incidents := e.collectIncidents(ctx, log, c, from, to)
	m := metrics.Company(incidents, prior)
	e.opts.Telemetry.ObserveCompany(c.Name, m)
	log.Infof("完成: %d 条事件，趋势 %s", m.TotalIncidents, m.Trend)
	return dm.CompanyReport{
		CompanyName:   c.Name,
		Ticker:        c.Ticker,
		Incidents:     incidents,
		WeeklyMetrics: m,
	}
}

func (e *Engine) collectIncidents(ctx context.Context, log logrus.FieldLogger, c dm.Company, from, to string) []dm.Incident {
	incidents := make([]dm.Incident, 0)

	resp, err := e.opts.Searcher.Search(ctx, &search.Request{
		Query:      search.BuildQuery(c),
		Topic:      "news",
		MaxResults: e.opts.MaxResults,
		StartDate:  from,
		EndDate:    to,
		Language:   e.opts.Language,
	})
	if err != nil {
		log.Errorf("搜索失败: %v", err)
		e.opts.Telemetry.Failure("search")
		return incidents
	}

	articles := e.buildArticles(ctx, log, resp.Results)
	if len(articles) == 0 {
		log.Info("未找到相关文章")
		return incidents
	}

	raws, err := e.opts.Analyzer.Analyze(ctx, c, articles)
	if err != nil {
		log.Errorf("分析失败: %v", err)
		e.opts.Telemetry.Failure("analyze")
		return incidents
	}

	for _, raw := range raws {
		inc, err := dm.Normalize(raw)
		if err != nil {
			log.Warnf("丢弃事件: %v", err)
			e.opts.Telemetry.Reject(c.Name)
			continue
		}
		incidents = append(incidents, inc)
	}
	return incidents
}

// buildArticles 转换搜索结果，正文过短时尝试抓取全文
func (e *Engine) buildArticles(ctx context.Context, log logrus.FieldLogger, results []search.Result) []dm.Article {
	articles := make([]dm.Article, 0, len(results))
	for _, item := range results {
		content := item.RawContent
		if content == "" {
			content = item.Content
		}
		if e.opts.FetchBody && len(content) < 500 && item.URL != "" {
			fetched, err := e.opts.Fetcher.Fetch(ctx, item.URL)
			switch {
			case err != nil:
				log.Debugf("抓取正文失败 [%s]: %v", item.URL, err)
				e.opts.Telemetry.Failure("fetch")
			case len(fetched) > len(content):
				content = fetched
			}
		}
		articles = append(articles, dm.Article{
			Title:         item.Title,
			URL:           item.URL,
			Outlet:        item.Outlet,
			PublishedDate: item.PublishedDate,
			Snippet:       item.Content,
			Language:      item.Language,
			Content:       content,
		})
		if len(articles) >= e.opts.MaxArticles {
			break
		}
	}
	return articles
}
