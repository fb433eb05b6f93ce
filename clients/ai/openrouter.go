package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"

	// DefaultOpenRouterModel модель OpenRouter по умолчанию
	DefaultOpenRouterModel = "deepseek/deepseek-chat"
)

// OpenRouterProvider клиент OpenRouter через OpenAI-совместимый API
type OpenRouterProvider struct {
	client openai.Client
	model  string
}

// NewOpenRouterProvider создаёт клиент OpenRouter
func NewOpenRouterProvider(apiKey, model string, timeout time.Duration) *OpenRouterProvider {
	if model == "" {
		model = DefaultOpenRouterModel
	}
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return &OpenRouterProvider{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(openRouterBaseURL),
			option.WithRequestTimeout(timeout),
		),
		model: model,
	}
}

// Name возвращает название провайдера
func (o *OpenRouterProvider) Name() string {
	return "openrouter"
}

// Complete выполняет chat completion
func (o *OpenRouterProvider) Complete(ctx context.Context, system, user string) (string, error) {
	chat, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(4096),
	})
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) && apierr.StatusCode == http.StatusTooManyRequests {
			return "", ErrQuotaExceeded
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("ошибка запроса: %w", err)
	}

	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("%w: пустой ответ", ErrMalformedResponse)
	}
	return chat.Choices[0].Message.Content, nil
}
