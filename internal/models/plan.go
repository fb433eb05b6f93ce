package models

import "fmt"

// DayNames канонический порядок дней недели в расписании
var DayNames = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// RestFocus метка дня отдыха (соглашение, а не отдельный тип)
const RestFocus = "Rest"

// Exercise упражнение в тренировочном дне
// После генерации не изменяется: адаптер переставляет целые дни
type Exercise struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps string `json:"reps"` // диапазон, например "8-12"
	Rest string `json:"rest"` // отдых между подходами, например "90 seconds"
}

// DayPlan план одного календарного дня
type DayPlan struct {
	Day       string     `json:"day"`
	Focus     string     `json:"focus"` // "Chest & Back", "Rest" и т.д.
	Exercises []Exercise `json:"exercises"`
}

// IsTrainingDay тренировочный день = непустой список упражнений
func (d DayPlan) IsTrainingDay() bool {
	return len(d.Exercises) > 0
}

// RestDay создаёт день отдыха для указанного дня недели
func RestDay(day string) DayPlan {
	return DayPlan{Day: day, Focus: RestFocus, Exercises: []Exercise{}}
}

// WeeklySchedule недельное расписание: всегда ровно 7 дней,
// в каноническом порядке Monday..Sunday. Дни без тренировок
// представлены как Rest, никогда не пропускаются.
type WeeklySchedule []DayPlan

// TrainingDayCount количество тренировочных дней в расписании
func (s WeeklySchedule) TrainingDayCount() int {
	count := 0
	for _, d := range s {
		if d.IsTrainingDay() {
			count++
		}
	}
	return count
}

// Validate проверяет инвариант расписания: 7 дней в каноническом порядке
func (s WeeklySchedule) Validate() error {
	if len(s) != len(DayNames) {
		return fmt.Errorf("расписание содержит %d дней вместо %d", len(s), len(DayNames))
	}
	for i, d := range s {
		if d.Day != DayNames[i] {
			return fmt.Errorf("день %d: ожидается %s, получен %q", i+1, DayNames[i], d.Day)
		}
		if d.Focus == "" {
			return fmt.Errorf("день %s: пустой фокус", d.Day)
		}
	}
	return nil
}
