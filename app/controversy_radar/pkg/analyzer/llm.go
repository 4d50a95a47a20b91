package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/logger"
	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/model"
)

// Completer 单轮补全接口，各模型 SDK 各自实现
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// LLMAnalyzer 通过大模型抽取事件，负责限流、429 重试和 JSON 解析
type LLMAnalyzer struct {
	completer   Completer
	limiter     *rate.Limiter
	log         logrus.FieldLogger
	maxTokens   int
	temperature float64
	maxRetries  int
	baseDelay   time.Duration
}

var _ Analyzer = (*LLMAnalyzer)(nil)

// LLMOptions LLMAnalyzer 的可选参数
type LLMOptions struct {
	Limiter     *rate.Limiter
	Log         logrus.FieldLogger
	MaxTokens   int
	Temperature float64
	MaxRetries  int
	BaseDelay   time.Duration
}

// NewLLMAnalyzer 创建基于 Completer 的分析器
func NewLLMAnalyzer(c Completer, opts LLMOptions) *LLMAnalyzer {
	a := &LLMAnalyzer{
		completer:   c,
		limiter:     opts.Limiter,
		log:         opts.Log,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		maxRetries:  opts.MaxRetries,
		baseDelay:   opts.BaseDelay,
	}
	if a.log == nil {
		a.log = logger.Discard()
	}
	if a.maxTokens == 0 {
		a.maxTokens = 4096
	}
	if a.maxRetries < 0 {
		a.maxRetries = 0
	}
	if a.baseDelay == 0 {
		a.baseDelay = 2 * time.Second
	}
	return a
}

// Analyze 没有文章时直接返回空结果，不调用模型
func (a *LLMAnalyzer) Analyze(ctx context.Context, company model.Company, articles []model.Article) ([]model.RawIncident, error) {
	if len(articles) == 0 {
		return []model.RawIncident{}, nil
	}
	log := a.log.WithField("company", company.Name)
	userPrompt := buildUserPrompt(company, articles)

	var lastErr error
	for i := 0; i <= a.maxRetries; i++ {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		raw, err := a.completer.Complete(ctx, systemPrompt, userPrompt, a.maxTokens, a.temperature)
		if err != nil {
			if !isRateLimited(err) {
				return nil, err
			}
			lastErr = err
			if i < a.maxRetries {
				delay := a.baseDelay * time.Duration(1<<i)
				log.Warnf("模型限流，%v 后重试 (%d/%d)", delay, i+1, a.maxRetries)
				if err := sleep(ctx, delay); err != nil {
					return nil, err
				}
			}
			continue
		}

		incidents, err := parseIncidents(raw)
		if err != nil {
			lastErr = err
			log.Warnf("模型输出无法解析 (%d/%d): %v", i+1, a.maxRetries+1, err)
			continue
		}

		AssignIDs(company, incidents)
		log.Debugf("模型返回 %d 条事件", len(incidents))
		return incidents, nil
	}
	return []model.RawIncident{}, fmt.Errorf("failed after retries: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
