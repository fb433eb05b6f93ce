package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"fitapi/internal/models"
)

// SavedWorkoutPlan сохранённый недельный план
type SavedWorkoutPlan struct {
	ID        string                `json:"id"`
	UserID    string                `json:"userId"`
	Plan      models.WeeklySchedule `json:"weeklySchedule"`
	Provider  string                `json:"provider"`
	UsedAI    bool                  `json:"usedAI"`
	CreatedAt time.Time             `json:"createdAt"`
}

// WorkoutPlanRepository работает с недельными планами тренировок
type WorkoutPlanRepository struct {
	db *sql.DB
}

// NewWorkoutPlanRepository создаёт репозиторий планов
func NewWorkoutPlanRepository(db *sql.DB) *WorkoutPlanRepository {
	return &WorkoutPlanRepository{db: db}
}

// Save сохраняет сгенерированный план и возвращает его id
func (r *WorkoutPlanRepository) Save(userID string, plan models.WeeklySchedule, provider string, usedAI bool) (string, error) {
	payload, err := json.Marshal(plan)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = r.db.Exec(`
		INSERT INTO public.workout_plans (id, user_id, plan, provider, used_ai, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, userID, payload, provider, usedAI, time.Now(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetLatest возвращает последний план пользователя
func (r *WorkoutPlanRepository) GetLatest(userID string) (*SavedWorkoutPlan, error) {
	saved := &SavedWorkoutPlan{}
	var payload []byte
	err := r.db.QueryRow(`
		SELECT id, user_id, plan, COALESCE(provider, ''), COALESCE(used_ai, false), created_at
		FROM public.workout_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID).Scan(
		&saved.ID, &saved.UserID, &payload, &saved.Provider, &saved.UsedAI, &saved.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &saved.Plan); err != nil {
		return nil, err
	}
	return saved, nil
}

// ListByUser возвращает все планы пользователя, новые первыми
func (r *WorkoutPlanRepository) ListByUser(userID string) ([]SavedWorkoutPlan, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, plan, COALESCE(provider, ''), COALESCE(used_ai, false), created_at
		FROM public.workout_plans
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []SavedWorkoutPlan
	for rows.Next() {
		var saved SavedWorkoutPlan
		var payload []byte
		if err := rows.Scan(&saved.ID, &saved.UserID, &payload, &saved.Provider, &saved.UsedAI, &saved.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &saved.Plan); err != nil {
			return nil, err
		}
		plans = append(plans, saved)
	}
	return plans, rows.Err()
}

// Delete удаляет план пользователя по id
func (r *WorkoutPlanRepository) Delete(userID, planID string) error {
	_, err := r.db.Exec(`
		DELETE FROM public.workout_plans
		WHERE id = $1 AND user_id = $2`, planID, userID)
	return err
}
