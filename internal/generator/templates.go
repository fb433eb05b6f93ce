package generator

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"fitapi/internal/models"
)

//go:embed templates/*.json
var embeddedTemplates embed.FS

// Template статический недельный шаблон, смоделированный по рутине
// известного атлета. Используется как вход адаптации частоты и как
// выход fallback-генератора.
type Template struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Schedule    models.WeeklySchedule `json:"schedule"`
}

var templates map[string]Template

func init() {
	var err error
	templates, err = loadTemplates()
	if err != nil {
		// Шаблоны вшиты в бинарник — ошибка здесь означает
		// битый файл в репозитории
		panic(fmt.Sprintf("ошибка загрузки шаблонов: %v", err))
	}
}

// loadTemplates читает все вшитые шаблоны
func loadTemplates() (map[string]Template, error) {
	entries, err := embeddedTemplates.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	result := make(map[string]Template, len(entries))
	for _, entry := range entries {
		data, err := embeddedTemplates.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, err
		}

		var tpl Template
		if err := json.Unmarshal(data, &tpl); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if err := tpl.Schedule.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		result[tpl.ID] = tpl
	}
	return result, nil
}

// TemplateByID возвращает шаблон по идентификатору
func TemplateByID(id string) (Template, bool) {
	tpl, ok := templates[id]
	return tpl, ok
}

// Templates возвращает все шаблоны, отсортированные по id
func Templates() []Template {
	result := make([]Template, 0, len(templates))
	for _, tpl := range templates {
		result = append(result, tpl)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
