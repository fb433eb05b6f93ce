package schedule

import (
	"sort"
	"strings"

	"fitapi/internal/models"
)

// focusPriority порядок важности тренировочных дней при сокращении
// частоты: базовые группы мышц переживают сокращение, изолирующие
// дни уходят первыми. Сопоставление по подстроке фокуса.
var focusPriority = []string{
	"chest",
	"back",
	"legs",
	"shoulders",
	"arms",
	"chest and back",
	"upper body",
	"lower body",
	"full body",
}

// focusRank позиция фокуса в порядке важности;
// фокус без совпадений уходит в конец
func focusRank(focus string) int {
	f := strings.ToLower(focus)
	for i, keyword := range focusPriority {
		if strings.Contains(f, keyword) {
			return i
		}
	}
	return len(focusPriority)
}

// Adapt перестраивает недельное расписание под целевое число
// тренировочных дней. Гарантии:
//   - результат всегда 7 дней в каноническом порядке;
//   - при совпадении числа тренировочных дней расписание не меняется;
//   - при сокращении остаются первые target дней по порядку важности
//     фокусов, размещённые через день (чередование с отдыхом);
//   - при target больше имеющегося расписание возвращается как есть:
//     шаблону неоткуда взять новые упражнения, синтетические дни
//     не придумываются.
func Adapt(s models.WeeklySchedule, target int) models.WeeklySchedule {
	var training []models.DayPlan
	for _, d := range s {
		if d.IsTrainingDay() {
			training = append(training, d)
		}
	}

	if len(training) == target || len(training) < target {
		return s
	}

	// Стабильная сортировка: при равном приоритете сохраняется
	// исходный порядок дней
	ranked := make([]models.DayPlan, len(training))
	copy(ranked, training)
	sort.SliceStable(ranked, func(i, j int) bool {
		return focusRank(ranked[i].Focus) < focusRank(ranked[j].Focus)
	})
	selected := ranked[:target]

	// Сначала чётные слоты (Пн, Ср, Пт, Вс) — тренировки через день,
	// стимул распределяется по неделе. Если выбранных дней больше,
	// чем чётных слотов, остаток уходит на нечётные.
	result := make(models.WeeklySchedule, len(models.DayNames))
	for i, day := range models.DayNames {
		result[i] = models.RestDay(day)
	}

	next := 0
	for i := 0; i < len(result) && next < len(selected); i += 2 {
		result[i] = placed(selected[next], models.DayNames[i])
		next++
	}
	for i := 1; i < len(result) && next < len(selected); i += 2 {
		result[i] = placed(selected[next], models.DayNames[i])
		next++
	}

	return result
}

// placed переносит тренировочный день на новый календарный слот
func placed(d models.DayPlan, day string) models.DayPlan {
	d.Day = day
	return d
}
