package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"fitapi/internal/models"
)

// systemPromptNutrition системная инструкция для генерации рецептов
const systemPromptNutrition = "You are a professional sports nutritionist. You design meals that hit macro targets and always answer with strict JSON."

// buildRecipePrompt собирает запрос на рецепт
func buildRecipePrompt(req models.RecipeRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Create a %s recipe.\n\n", req.MealType))

	sb.WriteString("TARGETS:\n")
	sb.WriteString(fmt.Sprintf("- Calories: %d kcal\n", req.Targets.Calories))
	sb.WriteString(fmt.Sprintf("- Protein: %.0f g\n", req.Targets.Protein))
	sb.WriteString(fmt.Sprintf("- Carbs: %.0f g\n", req.Targets.Carbs))
	sb.WriteString(fmt.Sprintf("- Fat: %.0f g\n", req.Targets.Fat))

	if len(req.Ingredients) > 0 {
		sb.WriteString(fmt.Sprintf("\nAVAILABLE INGREDIENTS: %s\n", strings.Join(req.Ingredients, ", ")))
		if req.Strict {
			sb.WriteString("Use ONLY the listed ingredients.\n")
		}
	}

	sb.WriteString("\nRESPONSE FORMAT (strict JSON):\n")
	sb.WriteString(`{
  "name": "Recipe name",
  "mealType": "` + req.MealType + `",
  "ingredients": [
    { "item": "chicken breast", "amount": "200 g" }
  ],
  "instructions": ["Step one.", "Step two."],
  "macros": { "calories": 500, "protein": 40, "carbs": 45, "fat": 15 }
}`)
	sb.WriteString("\n\nIMPORTANT: respond with JSON only, no explanations\n")

	return sb.String()
}

// parseRecipeResponse разбирает и валидирует ответ провайдера
func parseRecipeResponse(response string) (*models.Recipe, error) {
	response = extractJSON(response)

	var recipe models.Recipe
	if err := json.Unmarshal([]byte(response), &recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if recipe.Name == "" || len(recipe.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: рецепт без названия или ингредиентов", ErrMalformedResponse)
	}
	for _, ing := range recipe.Ingredients {
		if ing.Item == "" {
			return nil, fmt.Errorf("%w: ингредиент без названия", ErrMalformedResponse)
		}
	}
	return &recipe, nil
}

// buildMealPlanPrompt собирает запрос на дневной план питания
func buildMealPlanPrompt(p models.UserProfile, calories int) string {
	var sb strings.Builder

	sb.WriteString("Create a one-day meal plan.\n\n")

	sb.WriteString("CLIENT:\n")
	if p.Age > 0 {
		sb.WriteString(fmt.Sprintf("- Age: %d\n", p.Age))
	}
	if p.Weight > 0 {
		sb.WriteString(fmt.Sprintf("- Weight: %.0f kg\n", p.Weight))
	}
	sb.WriteString(fmt.Sprintf("- Primary goal: %s\n", p.PrimaryGoal))
	sb.WriteString(fmt.Sprintf("- Daily calorie target: %d kcal\n", calories))

	sb.WriteString("\nRESPONSE FORMAT (strict JSON):\n")
	sb.WriteString(`{
  "meals": [
    {
      "mealType": "breakfast",
      "name": "Oatmeal with Eggs",
      "calories": 500,
      "protein": 35,
      "carbs": 55,
      "fat": 14,
      "ingredients": ["oats", "eggs", "milk"]
    }
  ]
}`)

	sb.WriteString("\n\nREQUIREMENTS:\n")
	sb.WriteString("1. Four meals: breakfast, lunch, dinner, snack\n")
	sb.WriteString("2. Meal calories sum to the daily target\n")
	sb.WriteString("3. IMPORTANT: respond with JSON only, no explanations\n")

	return sb.String()
}

// parseMealPlanResponse разбирает и валидирует дневной план питания
func parseMealPlanResponse(response string) ([]models.Meal, error) {
	response = extractJSON(response)

	var data struct {
		Meals []models.Meal `json:"meals"`
	}
	if err := json.Unmarshal([]byte(response), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(data.Meals) == 0 {
		return nil, fmt.Errorf("%w: пустой план питания", ErrMalformedResponse)
	}
	for _, m := range data.Meals {
		if m.MealType == "" || m.Name == "" || m.Calories <= 0 {
			return nil, fmt.Errorf("%w: некорректный приём пищи", ErrMalformedResponse)
		}
	}
	return data.Meals, nil
}
