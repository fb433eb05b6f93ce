package schedule

import "strconv"

// DefaultTrainingDays число тренировочных дней при нераспознанном токене
const DefaultTrainingDays = 4

// frequencyTable отображение токенов частоты в число тренировочных дней
var frequencyTable = map[string]int{
	"2_3": 3,
	"3_4": 4,
	"4_5": 4,
	"5_6": 5,
	"6_7": 6,
}

// TrainingDays возвращает целевое число тренировочных дней для токена
// частоты из анкеты. Принимает и голые числовые токены ("2".."7").
// Нераспознанный токен не является ошибкой — возвращается значение
// по умолчанию.
func TrainingDays(token string) int {
	if days, ok := frequencyTable[token]; ok {
		return days
	}
	if n, err := strconv.Atoi(token); err == nil && n >= 2 && n <= 7 {
		return n
	}
	return DefaultTrainingDays
}
