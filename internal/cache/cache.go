package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

const (
	// DefaultTTL время жизни записи по умолчанию
	DefaultTTL = time.Hour
	// DefaultMaxEntries вместимость кэша по умолчанию
	DefaultMaxEntries = 100
)

// Entry запись кэша ответов
type Entry struct {
	Payload   json.RawMessage
	CreatedAt time.Time
	TTL       time.Duration
}

// Cache кэш ответов генерации по нормализованной сигнатуре запроса.
// Записи неизменяемы после записи: Set перезаписывает целиком.
// Просроченные записи вычищаются при чтении, при переполнении
// вытесняется самая старая по времени создания (не строгий LRU).
type Cache struct {
	mu         sync.Mutex
	entries    map[string]Entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New создаёт кэш с заданным TTL и вместимостью.
// Нулевые значения заменяются умолчаниями.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]Entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Signature детерминированная сигнатура запроса: тип + параметры.
// encoding/json сериализует ключи map в отсортированном порядке,
// поэтому семантически одинаковые запросы дают одинаковый ключ
// независимо от порядка полей у вызывающего.
func Signature(kind string, params map[string]any) string {
	data, err := json.Marshal(params)
	if err != nil {
		data = []byte(kind)
	}
	sum := sha256.Sum256(append([]byte(kind+"|"), data...))
	return hex.EncodeToString(sum[:])
}

// Get возвращает закэшированный ответ для сигнатуры запроса.
// Просроченная запись удаляется и считается промахом.
func (c *Cache) Get(kind string, params map[string]any) (json.RawMessage, bool) {
	key := Signature(kind, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.CreatedAt) >= entry.TTL {
		delete(c.entries, key)
		return nil, false
	}
	return entry.Payload, true
}

// Set сохраняет ответ для сигнатуры запроса.
// При переполнении перед вставкой вытесняется самая старая запись.
func (c *Cache) Set(kind string, params map[string]any, payload json.RawMessage) {
	key := Signature(kind, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = Entry{
		Payload:   payload,
		CreatedAt: c.now(),
		TTL:       c.ttl,
	}
}

// Clear удаляет все записи
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// Len текущее число записей
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep удаляет просроченные записи и возвращает их число.
// Вызывается по расписанию; ленивое удаление при чтении остаётся
// основным механизмом.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.now().Sub(entry.CreatedAt) >= entry.TTL {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.CreatedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.CreatedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
