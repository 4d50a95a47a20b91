package analyzer

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// einoCompleter 使用 eino ChatModel，兼容任意 OpenAI 协议的服务
type einoCompleter struct {
	chatModel einomodel.BaseChatModel
}

// NewEinoCompleter 创建 OpenAI 兼容的 eino ChatModel
func NewEinoCompleter(ctx context.Context, baseURL, apiKey, modelName string) (Completer, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return &einoCompleter{chatModel: chatModel}, nil
}

func (e *einoCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}
	resp, err := e.chatModel.Generate(ctx, messages,
		einomodel.WithMaxTokens(maxTokens),
		einomodel.WithTemperature(float32(temperature)),
	)
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Content == "" {
		return "", fmt.Errorf("eino: empty response")
	}
	return resp.Content, nil
}
