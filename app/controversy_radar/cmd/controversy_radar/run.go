package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/analyzer"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/config"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/engine"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/logger"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/mailer"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/output"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/portfolio"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/search/factory"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/storage"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/telemetry"
)

type runFlags struct {
	config    string
	portfolio string
	date      string
	workers   int
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the portfolio for the current week and write the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, f)
		},
	}
	addConfigFlag(cmd.Flags(), &f.config)
	cmd.Flags().StringVarP(&f.portfolio, "portfolio", "p", "", "投资组合 CSV，覆盖配置中的 portfolio.file")
	cmd.Flags().StringVar(&f.date, "date", "", "运行日期 YYYY-MM-DD，默认今天")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "并发处理的公司数，覆盖配置中的 concurrency.workers")
	return cmd
}

func run(ctx context.Context, f runFlags) error {
	// 1. 加载配置
	cfg, err := config.LoadConfig(f.config)
	if err != nil {
		return fmt.Errorf("无法加载配置文件: %w", err)
	}
	if f.portfolio != "" {
		cfg.Portfolio.File = f.portfolio
	}
	if f.workers > 0 {
		cfg.Concurrency.Workers = f.workers
	}
	now, err := clock(f.date)
	if err != nil {
		return err
	}

	// 2. 初始化日志
	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}
	log.Info("启动争议雷达...")

	companies, err := portfolio.Resolve(cfg.Portfolio)
	if err != nil {
		return err
	}

	store, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := buildEngine(ctx, cfg, store, log, now)
	if err != nil {
		return err
	}

	res, err := e.Run(ctx, companies)
	if err != nil {
		log.Errorf("运行失败: %v", err)
		return err
	}
	log.Infof("完成 %s: %s", res.Key, res.Outputs.JSONPath)
	return nil
}

// buildEngine 按配置组装引擎依赖
func buildEngine(ctx context.Context, cfg *config.Config, store storage.Store, log *logrus.Logger, now func() time.Time) (*engine.Engine, error) {
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cfg.Concurrency.QPS)
	log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limit, cfg.Concurrency.QPS)

	searcher, err := factory.NewSearcher(cfg.Search, now)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}
	an, err := analyzer.New(ctx, cfg.LLM, limiter, log)
	if err != nil {
		return nil, fmt.Errorf("分析器初始化失败: %w", err)
	}
	renderer, err := output.NewRenderer(cfg.Output.Dir, log)
	if err != nil {
		return nil, err
	}

	return engine.New(engine.Options{
		Label:       cfg.Portfolio.Label,
		Store:       store,
		Searcher:    searcher,
		Analyzer:    an,
		Renderer:    renderer,
		Mailer:      mailer.New(cfg.Email, log),
		Telemetry:   telemetry.New(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job),
		Fetcher:     engine.NewReadabilityFetcher(30 * time.Second),
		Log:         log,
		Now:         now,
		Workers:     cfg.Concurrency.Workers,
		MaxResults:  cfg.Search.MaxResults,
		MaxArticles: cfg.Search.MaxArticles,
		FetchBody:   cfg.Search.FetchBody,
		Language:    cfg.Search.RSS.Language,
	})
}

// clock 指定 --date 时返回从该日期开始走动的时钟
func clock(date string) (func() time.Time, error) {
	if date == "" {
		return time.Now, nil
	}
	day, err := time.ParseInLocation(time.DateOnly, date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --date %q: %w", date, err)
	}
	started := time.Now()
	return func() time.Time { return day.Add(time.Since(started)) }, nil
}
