package quota

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultDailyLimit дневной лимит вызовов AI по умолчанию
const DefaultDailyLimit = 50

// warnThreshold остаток, при котором пишется предупреждение в лог
const warnThreshold = 5

// Status снимок состояния квоты после учёта вызова
type Status struct {
	Current    int       `json:"current"`
	Remaining  int       `json:"remaining"`
	Percentage float64   `json:"percentage"`
	ResetTime  time.Time `json:"resetTime"`
}

// Warning рекомендательное предупреждение о состоянии квоты.
// Само по себе вызовы не блокирует.
type Warning struct {
	Type    string `json:"type"` // error, warning, info
	Message string `json:"message"`
}

// state персистентное состояние счётчика
type state struct {
	DailyLimit   int       `json:"daily_limit"`
	CurrentUsage int       `json:"current_usage"`
	LastReset    time.Time `json:"last_reset"`
	ResetTime    time.Time `json:"reset_time"`
}

// Tracker дневной счётчик вызовов AI-провайдера с персистентностью
// в плоский JSON-файл. Сброс — в ближайшую полночь локального времени,
// выполняется лениво при обращении. Ошибки чтения/записи файла не
// фатальны: трекер продолжает работать в памяти.
//
// Файловая персистентность рассчитана на один экземпляр сервиса;
// при горизонтальном масштабировании состояние нужно выносить
// в общее хранилище.
type Tracker struct {
	mu       sync.Mutex
	st       state
	filePath string
	now      func() time.Time
}

// New создаёт трекер и поднимает состояние из файла.
// Если сохранённое время сброса уже прошло, счётчик обнуляется сразу.
func New(dailyLimit int, filePath string) *Tracker {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	t := &Tracker{
		filePath: filePath,
		now:      time.Now,
	}
	t.st = t.load()
	t.st.DailyLimit = dailyLimit
	t.mu.Lock()
	t.resetIfDueLocked()
	t.mu.Unlock()
	return t
}

// IsAvailable остались ли вызовы в дневной квоте
func (t *Tracker) IsAvailable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfDueLocked()
	return t.st.CurrentUsage < t.st.DailyLimit
}

// Remaining число оставшихся вызовов
func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfDueLocked()
	remaining := t.st.DailyLimit - t.st.CurrentUsage
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RecordUsage учитывает выполненный вызов AI, сохраняет состояние
// и возвращает снимок
func (t *Tracker) RecordUsage() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfDueLocked()

	t.st.CurrentUsage++
	t.persistLocked()

	status := t.statusLocked()
	if status.Remaining <= warnThreshold {
		log.Printf("квота AI почти исчерпана: осталось %d из %d", status.Remaining, t.st.DailyLimit)
	}
	return status
}

// Status снимок состояния без учёта нового вызова
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfDueLocked()
	return t.statusLocked()
}

// Warning возвращает предупреждение о состоянии квоты или nil
func (t *Tracker) Warning() *Warning {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfDueLocked()

	remaining := t.st.DailyLimit - t.st.CurrentUsage
	usedPct := float64(t.st.CurrentUsage) / float64(t.st.DailyLimit) * 100

	switch {
	case remaining <= 0:
		return &Warning{Type: "error", Message: "дневная квота AI исчерпана"}
	case remaining <= warnThreshold:
		return &Warning{Type: "warning", Message: "дневная квота AI почти исчерпана"}
	case usedPct >= 80:
		return &Warning{Type: "info", Message: "использовано более 80% дневной квоты AI"}
	default:
		return nil
	}
}

// ResetIfDue выполняет сброс, если наступила полночь.
// Идемпотентен, безопасен для вызова по расписанию.
func (t *Tracker) ResetIfDue() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfDueLocked()
}

func (t *Tracker) statusLocked() Status {
	remaining := t.st.DailyLimit - t.st.CurrentUsage
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Current:    t.st.CurrentUsage,
		Remaining:  remaining,
		Percentage: float64(t.st.CurrentUsage) / float64(t.st.DailyLimit) * 100,
		ResetTime:  t.st.ResetTime,
	}
}

func (t *Tracker) resetIfDueLocked() {
	now := t.now()
	if t.st.ResetTime.IsZero() || !now.Before(t.st.ResetTime) {
		t.st.CurrentUsage = 0
		t.st.LastReset = now
		t.st.ResetTime = nextMidnight(now)
		t.persistLocked()
	}
}

// load читает состояние из файла; любая ошибка — чистое состояние
func (t *Tracker) load() state {
	if t.filePath == "" {
		return state{}
	}
	data, err := os.ReadFile(t.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("не удалось прочитать состояние квоты: %v", err)
		}
		return state{}
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		log.Printf("не удалось разобрать состояние квоты: %v", err)
		return state{}
	}
	return st
}

func (t *Tracker) persistLocked() {
	if t.filePath == "" {
		return
	}
	data, err := json.MarshalIndent(t.st, "", "  ")
	if err != nil {
		log.Printf("не удалось сериализовать состояние квоты: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(t.filePath), 0o755); err != nil {
		log.Printf("не удалось создать каталог состояния квоты: %v", err)
		return
	}
	if err := os.WriteFile(t.filePath, data, 0o644); err != nil {
		log.Printf("не удалось записать состояние квоты: %v", err)
	}
}

// nextMidnight ближайшая полночь локального времени сервера
func nextMidnight(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return next.AddDate(0, 0, 1)
}
