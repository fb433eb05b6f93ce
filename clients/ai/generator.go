package ai

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"time"

	"fitapi/internal/cache"
	"fitapi/internal/generator"
	"fitapi/internal/models"
	"fitapi/internal/quota"
	"fitapi/internal/ratelimit"
	"fitapi/internal/schedule"
)

// FallbackProviderName значение поля provider, когда сработал
// детерминированный генератор
const FallbackProviderName = "fallback"

// PlanResult результат генерации недельного плана
type PlanResult struct {
	Plan     models.WeeklySchedule `json:"weeklySchedule"`
	UsedAI   bool                  `json:"usedAI"`
	Provider string                `json:"provider"`
}

// RecipeResult результат генерации рецепта
type RecipeResult struct {
	Recipe   models.Recipe `json:"recipe"`
	UsedAI   bool          `json:"usedAI"`
	Provider string        `json:"provider"`
}

// MealPlanResult результат генерации дневного плана питания
type MealPlanResult struct {
	Meals    []models.Meal `json:"mealPlan"`
	UsedAI   bool          `json:"usedAI"`
	Provider string        `json:"provider"`
}

// Generator пайплайн генерации планов: кэш -> лимиты -> AI -> валидация,
// с деградацией в детерминированный генератор на любом отказе AI-пути.
// Все зависимости внедряются из точки сборки сервиса, глобального
// состояния нет.
type Generator struct {
	provider Provider // nil = AI отключён, только fallback
	cache    *cache.Cache
	quota    *quota.Tracker
	limits   *ratelimit.Limiter
	timeout  time.Duration
}

// NewGenerator создаёт пайплайн генерации
func NewGenerator(provider Provider, c *cache.Cache, q *quota.Tracker, l *ratelimit.Limiter, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return &Generator{
		provider: provider,
		cache:    c,
		quota:    q,
		limits:   l,
		timeout:  timeout,
	}
}

// GeneratePlan строит недельный план по анкете.
// Никогда не возвращает ошибку и не отдаёт невалидное расписание:
// деградируемые отказы AI-пути молча уходят в fallback.
func (g *Generator) GeneratePlan(ctx context.Context, p models.UserProfile, clientID string) *PlanResult {
	params := planParams(p)

	if payload, ok := g.cache.Get("plan", params); ok {
		var cached PlanResult
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached
		}
	}

	target := schedule.TrainingDays(p.FrequencyToken())

	text, err := g.complete(ctx, clientID, systemPromptTrainer, buildPlanPrompt(p, target))
	if err != nil {
		log.Printf("AI-путь недоступен (%v), используется fallback-план", err)
		return &PlanResult{
			Plan:     generator.FallbackPlan(p),
			UsedAI:   false,
			Provider: FallbackProviderName,
		}
	}

	plan, err := parsePlanResponse(text)
	if err != nil {
		log.Printf("ответ провайдера отклонён (%v), используется fallback-план", err)
		return &PlanResult{
			Plan:     generator.FallbackPlan(p),
			UsedAI:   false,
			Provider: FallbackProviderName,
		}
	}

	// Провайдер мог не попасть в запрошенную частоту —
	// доводим расписание детерминированно
	plan = schedule.Adapt(plan, target)

	g.quota.RecordUsage()

	result := &PlanResult{
		Plan:     plan,
		UsedAI:   true,
		Provider: g.provider.Name(),
	}
	if payload, err := json.Marshal(result); err == nil {
		g.cache.Set("plan", params, payload)
	}
	return result
}

// GenerateRecipe строит рецепт под целевые макронутриенты
func (g *Generator) GenerateRecipe(ctx context.Context, req models.RecipeRequest, clientID string) *RecipeResult {
	params := recipeParams(req)

	if payload, ok := g.cache.Get("recipe", params); ok {
		var cached RecipeResult
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached
		}
	}

	text, err := g.complete(ctx, clientID, systemPromptNutrition, buildRecipePrompt(req))
	if err != nil {
		log.Printf("AI-путь недоступен (%v), используется fallback-рецепт", err)
		return &RecipeResult{
			Recipe:   generator.FallbackRecipe(req),
			UsedAI:   false,
			Provider: FallbackProviderName,
		}
	}

	recipe, err := parseRecipeResponse(text)
	if err != nil {
		log.Printf("ответ провайдера отклонён (%v), используется fallback-рецепт", err)
		return &RecipeResult{
			Recipe:   generator.FallbackRecipe(req),
			UsedAI:   false,
			Provider: FallbackProviderName,
		}
	}

	g.quota.RecordUsage()

	result := &RecipeResult{
		Recipe:   *recipe,
		UsedAI:   true,
		Provider: g.provider.Name(),
	}
	if payload, err := json.Marshal(result); err == nil {
		g.cache.Set("recipe", params, payload)
	}
	return result
}

// GenerateMealPlan строит дневной план питания по анкете
func (g *Generator) GenerateMealPlan(ctx context.Context, p models.UserProfile, clientID string) *MealPlanResult {
	calories := generator.DailyCalories(p)

	text, err := g.complete(ctx, clientID, systemPromptNutrition, buildMealPlanPrompt(p, calories))
	if err != nil {
		log.Printf("AI-путь недоступен (%v), используется fallback-план питания", err)
		return &MealPlanResult{
			Meals:    generator.FallbackMealPlan(p),
			UsedAI:   false,
			Provider: FallbackProviderName,
		}
	}

	meals, err := parseMealPlanResponse(text)
	if err != nil {
		log.Printf("ответ провайдера отклонён (%v), используется fallback-план питания", err)
		return &MealPlanResult{
			Meals:    generator.FallbackMealPlan(p),
			UsedAI:   false,
			Provider: FallbackProviderName,
		}
	}

	g.quota.RecordUsage()
	return &MealPlanResult{
		Meals:    meals,
		UsedAI:   true,
		Provider: g.provider.Name(),
	}
}

// complete пропускает запрос через лимиты и вызывает провайдера
// с ограничением по времени
func (g *Generator) complete(ctx context.Context, clientID, system, user string) (string, error) {
	if g.provider == nil {
		return "", ErrAIDisabled
	}
	if !g.limits.AllowAI(clientID) {
		return "", ErrRateLimited
	}
	if !g.quota.IsAvailable() {
		return "", ErrQuotaExceeded
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.provider.Complete(ctx, system, user)
	if err != nil {
		return "", classifyErr(err)
	}
	return text, nil
}

// planParams параметры сигнатуры кэша для плана.
// Частота разрешается через цепочку приоритетов токена анкеты
// (с учётом устаревших алиасов) и умолчания, чтобы одинаковые
// по смыслу запросы попадали в одну и ту же запись кэша.
func planParams(p models.UserProfile) map[string]any {
	return map[string]any{
		"goal":      string(p.PrimaryGoal),
		"level":     string(p.TrainingLevel),
		"frequency": schedule.TrainingDays(p.FrequencyToken()),
		"age":       p.Age,
		"gender":    p.Gender,
	}
}

// recipeParams параметры сигнатуры кэша для рецепта.
// Ингредиенты сортируются: перестановка списка не меняет сигнатуру.
func recipeParams(req models.RecipeRequest) map[string]any {
	ingredients := make([]string, len(req.Ingredients))
	copy(ingredients, req.Ingredients)
	sort.Strings(ingredients)

	return map[string]any{
		"mealType":    req.MealType,
		"calories":    req.Targets.Calories,
		"protein":     req.Targets.Protein,
		"carbs":       req.Targets.Carbs,
		"fat":         req.Targets.Fat,
		"ingredients": strings.Join(ingredients, ","),
		"strict":      req.Strict,
	}
}
