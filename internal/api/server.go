package api

import (
	"encoding/json"
	"log"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"fitapi/clients/ai"
	"fitapi/internal/quota"
	"fitapi/internal/ratelimit"
	"fitapi/internal/repository"
)

// Server HTTP-слой сервиса генерации
type Server struct {
	generator *ai.Generator
	quota     *quota.Tracker
	limits    *ratelimit.Limiter
	// repo может быть nil: сервис работает и без БД,
	// сохранение планов тогда пропускается
	repo *repository.Repository
}

// NewServer создаёт HTTP-слой
func NewServer(generator *ai.Generator, q *quota.Tracker, limits *ratelimit.Limiter, repo *repository.Repository) *Server {
	return &Server{
		generator: generator,
		quota:     q,
		limits:    limits,
		repo:      repo,
	}
}

// Router собирает маршруты с middleware
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/generate-workout-plan", s.handleGenerateWorkoutPlan).Methods("POST")
	r.HandleFunc("/api/generate-recipe", s.handleGenerateRecipe).Methods("POST")
	r.HandleFunc("/api/generate-daily-meal-plan", s.handleGenerateDailyMealPlan).Methods("POST")
	r.HandleFunc("/api/quota-status", s.handleQuotaStatus).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	return loggingMiddleware(s.rateLimitMiddleware(r))
}

// clientID идентификатор клиента для лимитера — сетевой адрес без порта
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ошибка записи ответа: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
