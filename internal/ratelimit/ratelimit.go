package ratelimit

import (
	"sync"
	"time"
)

// Умолчания двух независимых уровней лимита:
// общий трафик и отдельный уровень для AI-запросов
const (
	DefaultGeneralLimit  = 5
	DefaultGeneralWindow = time.Minute
	DefaultAILimit       = 10
	DefaultAIWindow      = time.Hour
)

// Config параметры лимитера
type Config struct {
	GeneralLimit  int
	GeneralWindow time.Duration
	AILimit       int
	AIWindow      time.Duration
}

// DefaultConfig конфигурация по умолчанию
func DefaultConfig() Config {
	return Config{
		GeneralLimit:  DefaultGeneralLimit,
		GeneralWindow: DefaultGeneralWindow,
		AILimit:       DefaultAILimit,
		AIWindow:      DefaultAIWindow,
	}
}

// entry счётчик одного клиента в фиксированном окне
type entry struct {
	count       int
	windowStart time.Time
}

// TierStatus остаток и время сброса одного уровня
type TierStatus struct {
	Remaining int       `json:"remaining"`
	ResetTime time.Time `json:"resetTime"`
}

// Status состояние лимитов клиента по обоим уровням
type Status struct {
	General TierStatus `json:"general"`
	AI      TierStatus `json:"ai"`
}

// ErrorResponse тело ответа при превышении лимита
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"` // секунды
	Limits     Status `json:"limits"`
}

// Limiter фиксированно-оконный лимитер per-client с двумя
// независимыми уровнями. Окно не скользит: по истечении окна
// счётчик начинается заново. Устаревшие записи вычищаются лениво
// при каждой проверке — фонового планировщика нет.
type Limiter struct {
	mu      sync.Mutex
	cfg     Config
	general map[string]*entry
	ai      map[string]*entry
	now     func() time.Time
}

// New создаёт лимитер; нулевые поля конфигурации заменяются умолчаниями
func New(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.GeneralLimit <= 0 {
		cfg.GeneralLimit = def.GeneralLimit
	}
	if cfg.GeneralWindow <= 0 {
		cfg.GeneralWindow = def.GeneralWindow
	}
	if cfg.AILimit <= 0 {
		cfg.AILimit = def.AILimit
	}
	if cfg.AIWindow <= 0 {
		cfg.AIWindow = def.AIWindow
	}
	return &Limiter{
		cfg:     cfg,
		general: make(map[string]*entry),
		ai:      make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow проверяет общий лимит клиента.
// Первый запрос нового клиента всегда проходит.
func (l *Limiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowLocked(l.general, clientID, l.cfg.GeneralLimit, l.cfg.GeneralWindow)
}

// AllowAI проверяет отдельный часовой лимит AI-запросов
func (l *Limiter) AllowAI(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowLocked(l.ai, clientID, l.cfg.AILimit, l.cfg.AIWindow)
}

func (l *Limiter) allowLocked(m map[string]*entry, clientID string, limit int, window time.Duration) bool {
	now := l.now()
	l.purgeLocked(m, window, now)

	e, ok := m[clientID]
	if !ok || now.Sub(e.windowStart) > window {
		m[clientID] = &entry{count: 1, windowStart: now}
		return true
	}
	if e.count < limit {
		e.count++
		return true
	}
	return false
}

// purgeLocked убирает записи с истёкшим окном, чтобы карта
// не росла бесконечно
func (l *Limiter) purgeLocked(m map[string]*entry, window time.Duration, now time.Time) {
	for id, e := range m {
		if now.Sub(e.windowStart) > window {
			delete(m, id)
		}
	}
}

// Status возвращает остатки и времена сброса по обоим уровням
func (l *Limiter) Status(clientID string) Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Status{
		General: l.tierStatusLocked(l.general, clientID, l.cfg.GeneralLimit, l.cfg.GeneralWindow),
		AI:      l.tierStatusLocked(l.ai, clientID, l.cfg.AILimit, l.cfg.AIWindow),
	}
}

func (l *Limiter) tierStatusLocked(m map[string]*entry, clientID string, limit int, window time.Duration) TierStatus {
	now := l.now()
	e, ok := m[clientID]
	if !ok || now.Sub(e.windowStart) > window {
		return TierStatus{Remaining: limit, ResetTime: now.Add(window)}
	}
	remaining := limit - e.count
	if remaining < 0 {
		remaining = 0
	}
	return TierStatus{Remaining: remaining, ResetTime: e.windowStart.Add(window)}
}

// ErrorResponse собирает тело ответа об отказе для клиента
func (l *Limiter) ErrorResponse(clientID string) ErrorResponse {
	status := l.Status(clientID)

	// Ближайший сброс того уровня, который исчерпан;
	// если исчерпаны оба — общий наступает раньше
	resetAt := status.AI.ResetTime
	if status.General.Remaining == 0 {
		resetAt = status.General.ResetTime
	}
	retryAfter := int(resetAt.Sub(l.now()).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	return ErrorResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: retryAfter,
		Limits:     status,
	}
}
