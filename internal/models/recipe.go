package models

// MacroTargets целевые макронутриенты
type MacroTargets struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// RecipeRequest запрос на генерацию рецепта
type RecipeRequest struct {
	MealType    string       `json:"mealType"` // breakfast, lunch, dinner, snack
	Targets     MacroTargets `json:"targets"`
	Ingredients []string     `json:"ingredients"`
	// Strict — использовать только перечисленные ингредиенты
	Strict bool `json:"strict"`
}

// RecipeIngredient ингредиент с количеством
type RecipeIngredient struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
}

// Recipe сгенерированный рецепт
type Recipe struct {
	Name         string             `json:"name"`
	MealType     string             `json:"mealType"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Instructions []string           `json:"instructions"`
	Macros       MacroTargets       `json:"macros"`
}

// Meal один приём пищи в дневном плане
type Meal struct {
	MealType    string   `json:"mealType"`
	Name        string   `json:"name"`
	Calories    int      `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Ingredients []string `json:"ingredients"`
}
