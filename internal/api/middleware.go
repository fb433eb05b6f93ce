package api

import (
	"fmt"
	"log"
	"net/http"
	"time"
)

// responseWrapper перехватывает код статуса для лога
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware пишет строку лога на каждый запрос
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		log.Printf("%s %s - %d - %v", r.Method, r.URL.Path, wrapper.statusCode, time.Since(start))
	})
}

// rateLimitMiddleware общий уровень лимитера: отказ — 429 с телом
// ErrorResponse и заголовком Retry-After. Отдельный AI-лимит
// применяется внутри пайплайна генерации и наружу ошибкой не выходит.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := clientID(r)
		if !s.limits.Allow(id) {
			resp := s.limits.ErrorResponse(id)
			w.Header().Set("Retry-After", fmt.Sprint(resp.RetryAfter))
			writeJSON(w, http.StatusTooManyRequests, resp)
			return
		}
		next.ServeHTTP(w, r)
	})
}
