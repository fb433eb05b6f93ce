package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию сервиса
type Config struct {
	Port string

	// База данных (опциональна: без неё сервис работает,
	// но не сохраняет планы)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// AI-провайдеры
	AIProvider       string // auto, gemini, openrouter
	GeminiAPIKey     string
	GeminiModel      string
	OpenRouterAPIKey string
	OpenRouterModel  string
	AITimeout        time.Duration

	// Квота и лимиты
	AIDailyLimit     int
	QuotaStatePath   string
	RateLimitGeneral int
	RateLimitAI      int

	// Кэш ответов
	CacheTTL        time.Duration
	CacheMaxEntries int
}

// Load загружает конфигурацию из переменных окружения.
// .env файл (если есть) подхватывается через godotenv.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "postgres"),

		AIProvider:       getEnv("AI_PROVIDER", "auto"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:  getEnv("OPENROUTER_MODEL", ""),
		AITimeout:        time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 45)) * time.Second,

		AIDailyLimit:     getEnvInt("AI_DAILY_LIMIT", 50),
		QuotaStatePath:   getEnv("QUOTA_STATE_PATH", "data/quota_state.json"),
		RateLimitGeneral: getEnvInt("RATE_LIMIT_GENERAL", 5),
		RateLimitAI:      getEnvInt("RATE_LIMIT_AI", 10),

		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 100),
	}

	return cfg, nil
}

// DBConfigured задан ли хост базы данных
func (c *Config) DBConfigured() bool {
	return c.DBHost != ""
}

// DSN возвращает строку подключения к базе данных
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
