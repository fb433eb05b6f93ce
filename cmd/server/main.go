package main

import (
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/robfig/cron"
	"github.com/rs/cors"

	"fitapi/clients/ai"
	"fitapi/internal/api"
	"fitapi/internal/cache"
	"fitapi/internal/config"
	"fitapi/internal/quota"
	"fitapi/internal/ratelimit"
	"fitapi/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("ошибка загрузки конфигурации: %v", err)
	}

	// База данных опциональна: без неё генерация работает,
	// но планы не сохраняются
	var repo *repository.Repository
	if cfg.DBConfigured() {
		db, err := sql.Open("postgres", cfg.DSN())
		if err != nil {
			log.Fatalf("ошибка открытия базы данных: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatalf("ошибка подключения к базе данных: %v", err)
		}
		repo = repository.New(db)
		log.Printf("подключена база данных %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	} else {
		log.Println("база данных не настроена, планы не сохраняются")
	}

	tracker := quota.New(cfg.AIDailyLimit, cfg.QuotaStatePath)
	limiter := ratelimit.New(ratelimit.Config{
		GeneralLimit:  cfg.RateLimitGeneral,
		GeneralWindow: ratelimit.DefaultGeneralWindow,
		AILimit:       cfg.RateLimitAI,
		AIWindow:      ratelimit.DefaultAIWindow,
	})
	responseCache := cache.New(cfg.CacheTTL, cfg.CacheMaxEntries)

	// Без AI-ключей сервис работает только на шаблонных планах
	provider, err := ai.NewProvider(ai.ProviderConfig{
		Kind:             ai.ProviderKind(cfg.AIProvider),
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GeminiModel:      cfg.GeminiModel,
		OpenRouterAPIKey: cfg.OpenRouterAPIKey,
		OpenRouterModel:  cfg.OpenRouterModel,
		Timeout:          cfg.AITimeout,
	})
	if err != nil {
		log.Printf("AI-провайдер не настроен: %v", err)
		provider = nil
	} else {
		log.Printf("используется AI-провайдер %s", provider.Name())
	}

	generator := ai.NewGenerator(provider, responseCache, tracker, limiter, cfg.AITimeout)

	// Ночной сброс квоты и периодическая чистка кэша
	c := cron.New()
	c.AddFunc("@midnight", tracker.ResetIfDue)
	c.AddFunc("@every 10m", func() {
		if n := responseCache.Sweep(); n > 0 {
			log.Printf("из кэша удалено %d просроченных записей", n)
		}
	})
	c.Start()

	server := api.NewServer(generator, tracker, limiter, repo)
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(server.Router())

	log.Printf("сервер запущен на порту %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal(err)
	}
}
