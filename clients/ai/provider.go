package ai

import (
	"context"
	"fmt"
	"time"
)

// Provider единая точка входа к LLM-провайдеру.
// Пайплайн генерации зависит только от этого интерфейса.
type Provider interface {
	// Complete отправляет системную инструкцию и сообщение
	// пользователя, возвращает сгенерированный текст
	Complete(ctx context.Context, system, user string) (string, error)
	// Name название провайдера для логов и ответов API
	Name() string
}

// ProviderKind тип AI-провайдера
type ProviderKind string

const (
	ProviderAuto       ProviderKind = "auto"
	ProviderGemini     ProviderKind = "gemini"
	ProviderOpenRouter ProviderKind = "openrouter"
)

// ProviderConfig конфигурация провайдера
type ProviderConfig struct {
	Kind             ProviderKind
	GeminiAPIKey     string
	GeminiModel      string
	OpenRouterAPIKey string
	OpenRouterModel  string
	Timeout          time.Duration
}

// NewProvider создаёт провайдера на основе конфигурации.
// В режиме auto берётся первый провайдер с заданным ключом:
// сначала Gemini, затем OpenRouter.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Kind {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY не задан")
		}
		return NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Timeout), nil
	case ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY не задан")
		}
		return NewOpenRouterProvider(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.Timeout), nil
	case ProviderAuto, "":
		if cfg.GeminiAPIKey != "" {
			return NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Timeout), nil
		}
		if cfg.OpenRouterAPIKey != "" {
			return NewOpenRouterProvider(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.Timeout), nil
		}
		return nil, fmt.Errorf("не задан ни один ключ AI-провайдера")
	default:
		return nil, fmt.Errorf("неизвестный провайдер: %s", cfg.Kind)
	}
}
