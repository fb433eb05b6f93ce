package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"fitapi/internal/models"
)

// handleGenerateWorkoutPlan POST /api/generate-workout-plan
// Тело: {"profile": UserProfile}. Любой исход генерации — 200:
// fallback не является ошибкой. 5xx только при отказе сохранения.
func (s *Server) handleGenerateWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Profile models.UserProfile `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := s.generator.GeneratePlan(r.Context(), body.Profile, clientID(r))

	if s.repo != nil && body.Profile.UserID != "" {
		_, err := s.repo.WorkoutPlan.Save(body.Profile.UserID, result.Plan, result.Provider, result.UsedAI)
		if err != nil {
			log.Printf("ошибка сохранения плана: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save workout plan")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"workoutPlan": map[string]any{
			"weeklySchedule": result.Plan,
		},
		"provider": result.Provider,
		"used_ai":  result.UsedAI,
	})
}

// handleGenerateRecipe POST /api/generate-recipe
func (s *Server) handleGenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var req models.RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MealType == "" {
		writeError(w, http.StatusBadRequest, "mealType is required")
		return
	}

	result := s.generator.GenerateRecipe(r.Context(), req, clientID(r))

	writeJSON(w, http.StatusOK, map[string]any{
		"recipe":   result.Recipe,
		"provider": result.Provider,
		"used_ai":  result.UsedAI,
	})
}

// handleGenerateDailyMealPlan POST /api/generate-daily-meal-plan
// Тело: {"userId": string}. Анкета поднимается из БД, поэтому
// без работающей персистентности запрос не обслуживается.
func (s *Server) handleGenerateDailyMealPlan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if s.repo == nil {
		writeError(w, http.StatusInternalServerError, "persistence is not available")
		return
	}

	profile, err := s.repo.Profile.GetByUserID(body.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		log.Printf("ошибка чтения анкеты: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	result := s.generator.GenerateMealPlan(r.Context(), *profile, clientID(r))

	if _, err := s.repo.NutritionPlan.Save(body.UserID, result.Meals, result.Provider, result.UsedAI); err != nil {
		log.Printf("ошибка сохранения плана питания: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save meal plan")
		return
	}

	method := "ai"
	if !result.UsedAI {
		method = "fallback"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"mealPlan":   result.Meals,
		"method":     method,
		"aiProvider": result.Provider,
	})
}

// handleQuotaStatus GET /api/quota-status
func (s *Server) handleQuotaStatus(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"quota": s.quota.Status(),
	}
	if warning := s.quota.Warning(); warning != nil {
		body["warning"] = warning
	}
	writeJSON(w, http.StatusOK, body)
}

// handleHealth GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
