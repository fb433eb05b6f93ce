package models

// TrainingLevel уровень подготовки клиента
type TrainingLevel string

const (
	LevelBeginner     TrainingLevel = "beginner"
	LevelIntermediate TrainingLevel = "intermediate"
	LevelAdvanced     TrainingLevel = "advanced"
)

// Goal основная цель тренировок
type Goal string

const (
	GoalFatLoss             Goal = "fat_loss"
	GoalMuscleGain          Goal = "muscle_gain"
	GoalAthleticPerformance Goal = "athletic_performance"
	GoalGeneralFitness      Goal = "general_fitness"
)

// UserProfile анкета клиента. Для ядра генерации — только чтение.
// Поля Frequency и TrainingDaysPerWeek — устаревшие алиасы WorkoutFrequency,
// оставлены для совместимости со старыми клиентами приложения.
type UserProfile struct {
	UserID           string        `json:"userId,omitempty"`
	Age              int           `json:"age"`
	Gender           string        `json:"gender"`
	Height           float64       `json:"height"`
	Weight           float64       `json:"weight"`
	TrainingLevel    TrainingLevel `json:"trainingLevel"`
	PrimaryGoal      Goal          `json:"primaryGoal"`
	WorkoutFrequency string        `json:"workoutFrequency"` // токен: 2_3, 3_4, 4_5, 5_6, 6_7

	Frequency           string `json:"frequency,omitempty"`
	TrainingDaysPerWeek string `json:"trainingDaysPerWeek,omitempty"`

	// EmulateBodybuilder id статического шаблона ("arnold" и т.п.)
	EmulateBodybuilder string `json:"emulateBodybuilder,omitempty"`
}

// FrequencyToken возвращает токен частоты тренировок с учётом
// устаревших алиасов: workoutFrequency -> frequency -> trainingDaysPerWeek.
// Пустая строка означает "не указано".
func (p UserProfile) FrequencyToken() string {
	if p.WorkoutFrequency != "" {
		return p.WorkoutFrequency
	}
	if p.Frequency != "" {
		return p.Frequency
	}
	return p.TrainingDaysPerWeek
}
