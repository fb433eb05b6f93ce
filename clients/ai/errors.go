package ai

import (
	"context"
	"errors"
)

// Классификация отказов AI-пути. Все эти ошибки деградируемые:
// пайплайн генерации перехватывает их и уходит в детерминированный
// fallback, наружу они не выбрасываются.
var (
	// ErrQuotaExceeded провайдер ответил отказом по квоте (HTTP 429)
	ErrQuotaExceeded = errors.New("квота провайдера исчерпана")
	// ErrTimeout провайдер не ответил за отведённое время
	ErrTimeout = errors.New("таймаут запроса к провайдеру")
	// ErrMalformedResponse ответ провайдера не удалось разобрать
	ErrMalformedResponse = errors.New("некорректный ответ провайдера")
	// ErrRateLimited локальный лимит AI-запросов клиента исчерпан
	ErrRateLimited = errors.New("превышен лимит AI-запросов")
	// ErrAIDisabled провайдер не сконфигурирован, работает только fallback
	ErrAIDisabled = errors.New("AI-провайдер не сконфигурирован")
)

// classifyErr приводит низкоуровневую ошибку к одной из деградируемых
func classifyErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, ErrQuotaExceeded),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrMalformedResponse),
		errors.Is(err, ErrRateLimited):
		return err
	default:
		return err
	}
}
