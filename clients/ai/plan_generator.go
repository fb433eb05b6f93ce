package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"fitapi/internal/models"
)

// systemPromptTrainer системная инструкция для генерации планов
const systemPromptTrainer = "You are a professional fitness coach. You design safe, effective training programs and always answer with strict JSON."

// buildPlanPrompt собирает запрос на недельный план по анкете
func buildPlanPrompt(p models.UserProfile, trainingDays int) string {
	var sb strings.Builder

	sb.WriteString("Create a weekly workout plan.\n\n")

	sb.WriteString("CLIENT:\n")
	if p.Age > 0 {
		sb.WriteString(fmt.Sprintf("- Age: %d\n", p.Age))
	}
	if p.Gender != "" {
		sb.WriteString(fmt.Sprintf("- Gender: %s\n", p.Gender))
	}
	if p.Height > 0 {
		sb.WriteString(fmt.Sprintf("- Height: %.0f cm\n", p.Height))
	}
	if p.Weight > 0 {
		sb.WriteString(fmt.Sprintf("- Weight: %.0f kg\n", p.Weight))
	}
	sb.WriteString(fmt.Sprintf("- Training level: %s\n", p.TrainingLevel))
	sb.WriteString(fmt.Sprintf("- Primary goal: %s\n", p.PrimaryGoal))
	sb.WriteString(fmt.Sprintf("- Training days per week: %d\n", trainingDays))
	if p.EmulateBodybuilder != "" {
		sb.WriteString(fmt.Sprintf("- Style the plan after: %s\n", p.EmulateBodybuilder))
	}

	sb.WriteString("\nRESPONSE FORMAT (strict JSON):\n")
	sb.WriteString(`{
  "weeklySchedule": [
    {
      "day": "Monday",
      "focus": "Chest & Back",
      "exercises": [
        {
          "name": "Barbell Bench Press",
          "sets": 4,
          "reps": "8-12",
          "rest": "90 seconds"
        }
      ]
    }
  ]
}`)

	sb.WriteString("\n\nREQUIREMENTS:\n")
	sb.WriteString("1. Exactly 7 entries, Monday through Sunday in order\n")
	sb.WriteString(fmt.Sprintf("2. Exactly %d training days; every other day is a rest day\n", trainingDays))
	sb.WriteString("3. Rest days have focus \"Rest\" and an empty exercises array\n")
	sb.WriteString("4. 4-6 exercises per training day, compound lifts first\n")
	sb.WriteString("5. Match volume and exercise selection to the client's level and goal\n")
	sb.WriteString("6. IMPORTANT: respond with JSON only, no explanations\n")

	return sb.String()
}

// planJSON ожидаемая форма ответа провайдера.
// Провайдеры присылают ключ то в camelCase, то в snake_case.
type planJSON struct {
	WeeklySchedule      []dayJSON `json:"weeklySchedule"`
	WeeklyScheduleSnake []dayJSON `json:"weekly_schedule"`
}

type dayJSON struct {
	Day       string         `json:"day"`
	Focus     string         `json:"focus"`
	Exercises []exerciseJSON `json:"exercises"`
}

type exerciseJSON struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps string `json:"reps"`
	Rest string `json:"rest"`
}

// parsePlanResponse разбирает и валидирует ответ провайдера.
// Валидация закрытая: любое отклонение формы — ErrMalformedResponse,
// сырой ответ провайдера наружу не уходит.
func parsePlanResponse(response string) (models.WeeklySchedule, error) {
	response = extractJSON(response)

	var data planJSON
	if err := json.Unmarshal([]byte(response), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	days := data.WeeklySchedule
	if len(days) == 0 {
		days = data.WeeklyScheduleSnake
	}
	if len(days) != len(models.DayNames) {
		return nil, fmt.Errorf("%w: weeklySchedule содержит %d дней", ErrMalformedResponse, len(days))
	}

	// Раскладываем по каноническим слотам: порядок дней в ответе
	// провайдера не гарантирован
	byDay := make(map[string]dayJSON, len(days))
	for _, d := range days {
		if d.Day == "" || d.Focus == "" {
			return nil, fmt.Errorf("%w: день без имени или фокуса", ErrMalformedResponse)
		}
		byDay[strings.ToLower(d.Day)] = d
	}

	schedule := make(models.WeeklySchedule, 0, len(models.DayNames))
	for _, name := range models.DayNames {
		d, ok := byDay[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: отсутствует день %s", ErrMalformedResponse, name)
		}

		exercises := make([]models.Exercise, 0, len(d.Exercises))
		for _, ex := range d.Exercises {
			if ex.Name == "" || ex.Sets <= 0 {
				return nil, fmt.Errorf("%w: некорректное упражнение в %s", ErrMalformedResponse, name)
			}
			exercises = append(exercises, models.Exercise{
				Name: ex.Name,
				Sets: ex.Sets,
				Reps: ex.Reps,
				Rest: ex.Rest,
			})
		}
		schedule = append(schedule, models.DayPlan{
			Day:       name,
			Focus:     d.Focus,
			Exercises: exercises,
		})
	}

	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return schedule, nil
}

// extractJSON вырезает JSON-объект из текста ответа: провайдеры
// заворачивают JSON в markdown-ограждения и дописывают пояснения
func extractJSON(s string) string {
	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+7:]
	} else if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return s
	}
	jsonStr := s[start : end+1]

	// Некоторые модели вставляют JavaScript-комментарии
	lines := strings.Split(jsonStr, "\n")
	cleanLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanLines = append(cleanLines, removeLineComment(line))
	}
	return strings.Join(cleanLines, "\n")
}

// removeLineComment убирает // снаружи строковых литералов
func removeLineComment(line string) string {
	inString := false
	escaped := false
	for i, ch := range line {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/':
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
