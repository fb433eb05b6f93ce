package repository

import "database/sql"

// Repository содержит все репозитории
type Repository struct {
	Profile       *ProfileRepository
	WorkoutPlan   *WorkoutPlanRepository
	NutritionPlan *NutritionPlanRepository
}

// New создаёт новый экземпляр Repository
func New(db *sql.DB) *Repository {
	return &Repository{
		Profile:       NewProfileRepository(db),
		WorkoutPlan:   NewWorkoutPlanRepository(db),
		NutritionPlan: NewNutritionPlanRepository(db),
	}
}
