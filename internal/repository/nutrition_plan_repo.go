package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"fitapi/internal/models"
)

// SavedNutritionPlan сохранённый дневной план питания
type SavedNutritionPlan struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Meals     []models.Meal `json:"mealPlan"`
	Provider  string        `json:"provider"`
	UsedAI    bool          `json:"usedAI"`
	CreatedAt time.Time     `json:"createdAt"`
}

// NutritionPlanRepository работает с планами питания
type NutritionPlanRepository struct {
	db *sql.DB
}

// NewNutritionPlanRepository создаёт репозиторий планов питания
func NewNutritionPlanRepository(db *sql.DB) *NutritionPlanRepository {
	return &NutritionPlanRepository{db: db}
}

// Save сохраняет план питания и возвращает его id
func (r *NutritionPlanRepository) Save(userID string, meals []models.Meal, provider string, usedAI bool) (string, error) {
	payload, err := json.Marshal(meals)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = r.db.Exec(`
		INSERT INTO public.nutrition_plans (id, user_id, meals, provider, used_ai, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, userID, payload, provider, usedAI, time.Now(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetLatest возвращает последний план питания пользователя
func (r *NutritionPlanRepository) GetLatest(userID string) (*SavedNutritionPlan, error) {
	saved := &SavedNutritionPlan{}
	var payload []byte
	err := r.db.QueryRow(`
		SELECT id, user_id, meals, COALESCE(provider, ''), COALESCE(used_ai, false), created_at
		FROM public.nutrition_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID).Scan(
		&saved.ID, &saved.UserID, &payload, &saved.Provider, &saved.UsedAI, &saved.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &saved.Meals); err != nil {
		return nil, err
	}
	return saved, nil
}
