package schedule

import (
	"reflect"
	"testing"

	"fitapi/internal/models"
)

// sixDaySplit классический шестидневный сплит для тестов сокращения
func sixDaySplit() models.WeeklySchedule {
	day := func(name, focus string) models.DayPlan {
		return models.DayPlan{
			Day:   name,
			Focus: focus,
			Exercises: []models.Exercise{
				{Name: focus + " exercise", Sets: 4, Reps: "8-12", Rest: "90 seconds"},
			},
		}
	}
	return models.WeeklySchedule{
		day("Monday", "Chest & Back"),
		day("Tuesday", "Shoulders & Arms"),
		day("Wednesday", "Legs"),
		day("Thursday", "Chest & Back"),
		day("Friday", "Shoulders & Arms"),
		day("Saturday", "Legs"),
		models.RestDay("Sunday"),
	}
}

func trainingFocuses(s models.WeeklySchedule) []string {
	var focuses []string
	for _, d := range s {
		if d.IsTrainingDay() {
			focuses = append(focuses, d.Focus)
		}
	}
	return focuses
}

func TestAdapt_ScheduleInvariant(t *testing.T) {
	for target := 2; target <= 6; target++ {
		got := Adapt(sixDaySplit(), target)
		if len(got) != 7 {
			t.Fatalf("target=%d: len = %d, want 7", target, len(got))
		}
		for i, d := range got {
			if d.Day != models.DayNames[i] {
				t.Errorf("target=%d: day %d = %q, want %q", target, i, d.Day, models.DayNames[i])
			}
		}
	}
}

func TestAdapt_Idempotent(t *testing.T) {
	s := sixDaySplit()
	got := Adapt(s, 6)
	if !reflect.DeepEqual(got, s) {
		t.Errorf("Adapt with matching target changed the schedule")
	}
}

func TestAdapt_ReductionKeepsPriorityDays(t *testing.T) {
	got := Adapt(sixDaySplit(), 3)

	if n := got.TrainingDayCount(); n != 3 {
		t.Fatalf("training days = %d, want 3", n)
	}

	// Два дня Chest & Back (приоритет chest) и первый день Legs
	// переживают сокращение; Shoulders & Arms уходят
	want := []string{"Chest & Back", "Chest & Back", "Legs"}
	if focuses := trainingFocuses(got); !reflect.DeepEqual(focuses, want) {
		t.Errorf("surviving focuses = %v, want %v", focuses, want)
	}
}

func TestAdapt_AlternatingPlacement(t *testing.T) {
	got := Adapt(sixDaySplit(), 3)

	// Тренировки занимают чётные слоты: Пн, Ср, Пт; остальное — отдых
	wantTraining := map[int]bool{0: true, 2: true, 4: true}
	for i, d := range got {
		if d.IsTrainingDay() != wantTraining[i] {
			t.Errorf("slot %d (%s): training=%v, want %v", i, d.Day, d.IsTrainingDay(), wantTraining[i])
		}
		if !d.IsTrainingDay() && d.Focus != models.RestFocus {
			t.Errorf("slot %d: rest focus = %q, want %q", i, d.Focus, models.RestFocus)
		}
	}
}

func TestAdapt_OverflowIntoOddSlots(t *testing.T) {
	// 5 тренировочных дней не умещаются в 4 чётных слота:
	// пятый уходит на первый нечётный
	got := Adapt(sixDaySplit(), 5)

	if n := got.TrainingDayCount(); n != 5 {
		t.Fatalf("training days = %d, want 5", n)
	}
	for _, i := range []int{0, 2, 4, 6, 1} {
		if !got[i].IsTrainingDay() {
			t.Errorf("slot %d (%s): expected a training day", i, got[i].Day)
		}
	}
}

func TestAdapt_IncreaseReturnsUnchanged(t *testing.T) {
	threeDay := Adapt(sixDaySplit(), 3)
	got := Adapt(threeDay, 6)
	if !reflect.DeepEqual(got, threeDay) {
		t.Errorf("increase case must return the schedule unchanged")
	}
}

func TestAdapt_StableOrderOnTies(t *testing.T) {
	// Дни с одинаковым приоритетом сохраняют исходный порядок
	got := Adapt(sixDaySplit(), 4)
	want := []string{"Chest & Back", "Chest & Back", "Legs", "Legs"}
	if focuses := trainingFocuses(got); !reflect.DeepEqual(focuses, want) {
		t.Errorf("focuses = %v, want %v", focuses, want)
	}
}

func TestFocusRank(t *testing.T) {
	tests := []struct {
		focus string
		want  int
	}{
		{"Chest & Back", 0},
		{"Back & Biceps", 1},
		{"Legs", 2},
		{"Shoulders & Arms", 3},
		{"Arms", 4},
		{"Full Body", 8},
		{"Yoga & Mobility", len(focusPriority)},
	}

	for _, tt := range tests {
		if got := focusRank(tt.focus); got != tt.want {
			t.Errorf("focusRank(%q) = %d, want %d", tt.focus, got, tt.want)
		}
	}
}
