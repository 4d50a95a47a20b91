package analyzer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/config"
)

// New 根据 llm.provider 创建分析器，limiter 在所有模型调用间共享
func New(ctx context.Context, cfg config.LLMConfig, limiter *rate.Limiter, log logrus.FieldLogger) (Analyzer, error) {
	var (
		c   Completer
		err error
	)
	switch cfg.Provider {
	case "", "mock":
		return MockAnalyzer{}, nil
	case "eino":
		c, err = NewEinoCompleter(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model)
	case "openai":
		c, err = NewOpenAICompleter(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case "anthropic":
		c, err = NewAnthropicCompleter(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case "google":
		c, err = NewGoogleCompleter(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewLLMAnalyzer(c, LLMOptions{
		Limiter:     limiter,
		Log:         log,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		MaxRetries:  cfg.MaxRetries,
	}), nil
}
