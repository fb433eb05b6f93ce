package repository

import (
	"database/sql"
	"time"

	"fitapi/internal/models"
)

// ProfileRepository работает с анкетами пользователей
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository создаёт репозиторий анкет
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID возвращает анкету пользователя.
// sql.ErrNoRows — пользователь не найден.
func (r *ProfileRepository) GetByUserID(userID string) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	err := r.db.QueryRow(`
		SELECT user_id, age, COALESCE(gender, ''), height, weight,
		       COALESCE(training_level, ''), COALESCE(primary_goal, ''),
		       COALESCE(workout_frequency, ''), COALESCE(emulate_bodybuilder, '')
		FROM public.profiles
		WHERE user_id = $1`, userID).Scan(
		&profile.UserID, &profile.Age, &profile.Gender, &profile.Height, &profile.Weight,
		&profile.TrainingLevel, &profile.PrimaryGoal,
		&profile.WorkoutFrequency, &profile.EmulateBodybuilder,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Upsert создаёт или обновляет анкету пользователя
func (r *ProfileRepository) Upsert(profile *models.UserProfile) error {
	_, err := r.db.Exec(`
		INSERT INTO public.profiles
		(user_id, age, gender, height, weight, training_level, primary_goal,
		 workout_frequency, emulate_bodybuilder, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			height = EXCLUDED.height,
			weight = EXCLUDED.weight,
			training_level = EXCLUDED.training_level,
			primary_goal = EXCLUDED.primary_goal,
			workout_frequency = EXCLUDED.workout_frequency,
			emulate_bodybuilder = EXCLUDED.emulate_bodybuilder,
			updated_at = EXCLUDED.updated_at`,
		profile.UserID, profile.Age, profile.Gender, profile.Height, profile.Weight,
		profile.TrainingLevel, profile.PrimaryGoal,
		profile.WorkoutFrequency, profile.EmulateBodybuilder, time.Now(),
	)
	return err
}
