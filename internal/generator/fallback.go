package generator

import (
	"fmt"
	"strings"

	"fitapi/internal/models"
	"fitapi/internal/schedule"
)

// FallbackPlan детерминированно строит недельный план без AI.
// Это гарантия доступности сервиса: план возвращается всегда,
// независимо от состояния провайдера.
//
// Выбор шаблона: явный id из анкеты, иначе эвристика по уровню
// и цели. Затем шаблон адаптируется под запрошенную частоту.
func FallbackPlan(p models.UserProfile) models.WeeklySchedule {
	tpl := pickTemplate(p)
	target := schedule.TrainingDays(p.FrequencyToken())
	return schedule.Adapt(tpl.Schedule, target)
}

func pickTemplate(p models.UserProfile) Template {
	if p.EmulateBodybuilder != "" {
		if tpl, ok := TemplateByID(p.EmulateBodybuilder); ok {
			return tpl
		}
	}

	switch {
	case p.TrainingLevel == models.LevelBeginner:
		return mustTemplate("fullbody")
	case p.PrimaryGoal == models.GoalMuscleGain && p.TrainingLevel == models.LevelAdvanced:
		return mustTemplate("arnold")
	default:
		return mustTemplate("upper_lower")
	}
}

func mustTemplate(id string) Template {
	tpl, ok := TemplateByID(id)
	if !ok {
		panic(fmt.Sprintf("отсутствует вшитый шаблон %q", id))
	}
	return tpl
}

// mealSplit доля дневных калорий на приём пищи
var mealSplit = []struct {
	mealType string
	share    float64
}{
	{"breakfast", 0.25},
	{"lunch", 0.35},
	{"dinner", 0.30},
	{"snack", 0.10},
}

// fallbackDishes базовые блюда для детерминированной генерации
var fallbackDishes = map[string]struct {
	name        string
	ingredients []string
}{
	"breakfast": {"Oatmeal with Eggs and Berries", []string{"oats", "eggs", "blueberries", "milk"}},
	"lunch":     {"Grilled Chicken with Rice and Vegetables", []string{"chicken breast", "rice", "broccoli", "olive oil"}},
	"dinner":    {"Baked Salmon with Potatoes and Salad", []string{"salmon", "potatoes", "mixed greens", "olive oil"}},
	"snack":     {"Greek Yogurt with Nuts", []string{"greek yogurt", "almonds", "honey"}},
}

// FallbackRecipe детерминированно собирает рецепт под целевые
// макронутриенты, когда AI недоступен
func FallbackRecipe(req models.RecipeRequest) models.Recipe {
	ingredients := req.Ingredients
	if len(ingredients) == 0 {
		ingredients = fallbackDishes[normalizeMealType(req.MealType)].ingredients
	}

	recipeIngredients := make([]models.RecipeIngredient, 0, len(ingredients))
	for _, item := range ingredients {
		recipeIngredients = append(recipeIngredients, models.RecipeIngredient{
			Item:   item,
			Amount: "to taste",
		})
	}

	name := fallbackDishes[normalizeMealType(req.MealType)].name
	if len(req.Ingredients) > 0 {
		name = fmt.Sprintf("%s Bowl", capitalize(req.Ingredients[0]))
	}

	return models.Recipe{
		Name:     name,
		MealType: normalizeMealType(req.MealType),
		Macros:   req.Targets,
		Instructions: []string{
			"Prepare all ingredients.",
			"Cook the protein source until done.",
			"Combine with the remaining ingredients and season.",
			"Portion to match the calorie target.",
		},
		Ingredients: recipeIngredients,
	}
}

// FallbackMealPlan детерминированный дневной план питания:
// оценка дневной нормы по анкете и раскладка по приёмам пищи
func FallbackMealPlan(p models.UserProfile) []models.Meal {
	calories := DailyCalories(p)

	// Белок от массы тела, жир 25% калоража, остальное — углеводы
	protein := p.Weight * 1.8
	if protein <= 0 {
		protein = 130
	}
	fat := float64(calories) * 0.25 / 9
	carbs := (float64(calories) - protein*4 - fat*9) / 4
	if carbs < 0 {
		carbs = 0
	}

	meals := make([]models.Meal, 0, len(mealSplit))
	for _, slot := range mealSplit {
		dish := fallbackDishes[slot.mealType]
		meals = append(meals, models.Meal{
			MealType:    slot.mealType,
			Name:        dish.name,
			Calories:    int(float64(calories) * slot.share),
			Protein:     round1(protein * slot.share),
			Carbs:       round1(carbs * slot.share),
			Fat:         round1(fat * slot.share),
			Ingredients: dish.ingredients,
		})
	}
	return meals
}

// DailyCalories грубая оценка дневной нормы: поддержка от массы тела
// с поправкой на цель
func DailyCalories(p models.UserProfile) int {
	weight := p.Weight
	if weight <= 0 {
		weight = 75
	}
	maintenance := weight * 31

	switch p.PrimaryGoal {
	case models.GoalFatLoss:
		return int(maintenance - 400)
	case models.GoalMuscleGain:
		return int(maintenance + 300)
	default:
		return int(maintenance)
	}
}

func normalizeMealType(mealType string) string {
	mt := strings.ToLower(strings.TrimSpace(mealType))
	if _, ok := fallbackDishes[mt]; ok {
		return mt
	}
	return "lunch"
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
