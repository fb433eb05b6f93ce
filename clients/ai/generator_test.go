package ai

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fitapi/internal/cache"
	"fitapi/internal/models"
	"fitapi/internal/quota"
	"fitapi/internal/ratelimit"
)

// fakeProvider управляемый провайдер для тестов пайплайна
type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func testGenerator(t *testing.T, p Provider) *Generator {
	t.Helper()
	return NewGenerator(
		p,
		cache.New(time.Hour, 100),
		quota.New(50, filepath.Join(t.TempDir(), "quota.json")),
		ratelimit.New(ratelimit.Config{AILimit: 100, AIWindow: time.Hour}),
		5*time.Second,
	)
}

func testProfile() models.UserProfile {
	return models.UserProfile{
		Age:              30,
		Gender:           "male",
		TrainingLevel:    models.LevelIntermediate,
		PrimaryGoal:      models.GoalMuscleGain,
		WorkoutFrequency: "2_3",
	}
}

func TestGeneratePlan_AISuccess(t *testing.T) {
	provider := &fakeProvider{response: validPlanJSON("weeklySchedule")}
	g := testGenerator(t, provider)

	result := g.GeneratePlan(context.Background(), testProfile(), "client")
	if !result.UsedAI {
		t.Error("UsedAI = false on a successful AI call")
	}
	if result.Provider != "fake" {
		t.Errorf("Provider = %q", result.Provider)
	}
	if err := result.Plan.Validate(); err != nil {
		t.Error(err)
	}
	if n := result.Plan.TrainingDayCount(); n != 3 {
		t.Errorf("training days = %d, want 3 (token 2_3)", n)
	}
}

func TestGeneratePlan_FallbackGuarantee(t *testing.T) {
	// Провайдер всегда падает — план всё равно валидный
	failures := []error{
		ErrTimeout,
		ErrQuotaExceeded,
		errors.New("connection refused"),
		context.DeadlineExceeded,
	}

	for _, failure := range failures {
		g := testGenerator(t, &fakeProvider{err: failure})
		result := g.GeneratePlan(context.Background(), testProfile(), "client")

		if result.UsedAI {
			t.Errorf("%v: UsedAI = true", failure)
		}
		if result.Provider != FallbackProviderName {
			t.Errorf("%v: Provider = %q", failure, result.Provider)
		}
		if err := result.Plan.Validate(); err != nil {
			t.Errorf("%v: invalid fallback plan: %v", failure, err)
		}
	}
}

func TestGeneratePlan_MalformedResponseFallsBack(t *testing.T) {
	g := testGenerator(t, &fakeProvider{response: "I'm sorry, Dave"})

	result := g.GeneratePlan(context.Background(), testProfile(), "client")
	if result.UsedAI {
		t.Error("malformed response must degrade to fallback")
	}
	if err := result.Plan.Validate(); err != nil {
		t.Error(err)
	}
}

func TestGeneratePlan_NilProviderUsesFallback(t *testing.T) {
	g := testGenerator(t, nil)

	result := g.GeneratePlan(context.Background(), testProfile(), "client")
	if result.UsedAI {
		t.Error("UsedAI = true without a provider")
	}
	if err := result.Plan.Validate(); err != nil {
		t.Error(err)
	}
}

func TestGeneratePlan_CacheHitSkipsProvider(t *testing.T) {
	provider := &fakeProvider{response: validPlanJSON("weeklySchedule")}
	g := testGenerator(t, provider)

	first := g.GeneratePlan(context.Background(), testProfile(), "client")
	second := g.GeneratePlan(context.Background(), testProfile(), "client")

	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (second must hit the cache)", provider.calls)
	}
	if second.Provider != first.Provider || !second.UsedAI {
		t.Errorf("cached result = %+v, want the original AI result", second)
	}
}

func TestGeneratePlan_QuotaExhaustedSkipsProvider(t *testing.T) {
	provider := &fakeProvider{response: validPlanJSON("weeklySchedule")}
	g := testGenerator(t, provider)
	g.quota = quota.New(1, "")
	g.quota.RecordUsage() // квота исчерпана

	result := g.GeneratePlan(context.Background(), testProfile(), "client")
	if provider.calls != 0 {
		t.Errorf("provider called %d times with exhausted quota", provider.calls)
	}
	if result.UsedAI {
		t.Error("UsedAI = true with exhausted quota")
	}
}

func TestGeneratePlan_AIRateLimitSkipsProvider(t *testing.T) {
	provider := &fakeProvider{response: validPlanJSON("weeklySchedule")}
	g := testGenerator(t, provider)
	g.limits = ratelimit.New(ratelimit.Config{AILimit: 1, AIWindow: time.Hour})

	g.GeneratePlan(context.Background(), testProfile(), "client")

	// Вторая анкета — другая сигнатура кэша, но AI-лимит уже исчерпан
	other := testProfile()
	other.Age = 44
	result := g.GeneratePlan(context.Background(), other, "client")

	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
	if result.UsedAI {
		t.Error("UsedAI = true past the AI rate limit")
	}
}

func TestGeneratePlan_RecordsQuota(t *testing.T) {
	g := testGenerator(t, &fakeProvider{response: validPlanJSON("weeklySchedule")})

	before := g.quota.Remaining()
	g.GeneratePlan(context.Background(), testProfile(), "client")
	if got := g.quota.Remaining(); got != before-1 {
		t.Errorf("Remaining = %d, want %d", got, before-1)
	}
}

func TestGenerateRecipe_FallbackOnFailure(t *testing.T) {
	g := testGenerator(t, &fakeProvider{err: ErrTimeout})

	req := models.RecipeRequest{
		MealType: "dinner",
		Targets:  models.MacroTargets{Calories: 600, Protein: 40, Carbs: 50, Fat: 20},
	}
	result := g.GenerateRecipe(context.Background(), req, "client")

	if result.UsedAI {
		t.Error("UsedAI = true on provider timeout")
	}
	if result.Recipe.Name == "" {
		t.Error("fallback recipe is empty")
	}
}

func TestGenerateRecipe_IngredientOrderHitsSameCacheLine(t *testing.T) {
	provider := &fakeProvider{response: `{"name":"Bowl","mealType":"lunch","ingredients":[{"item":"rice","amount":"100 g"}],"instructions":["Cook."],"macros":{"calories":500,"protein":30,"carbs":60,"fat":12}}`}
	g := testGenerator(t, provider)

	req := models.RecipeRequest{
		MealType:    "lunch",
		Targets:     models.MacroTargets{Calories: 500, Protein: 30, Carbs: 60, Fat: 12},
		Ingredients: []string{"rice", "chicken", "broccoli"},
	}
	g.GenerateRecipe(context.Background(), req, "client")

	req.Ingredients = []string{"broccoli", "rice", "chicken"}
	g.GenerateRecipe(context.Background(), req, "client")

	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1: reordered ingredients must hit the cache", provider.calls)
	}
}

func TestGenerateMealPlan(t *testing.T) {
	g := testGenerator(t, &fakeProvider{err: ErrQuotaExceeded})

	result := g.GenerateMealPlan(context.Background(), models.UserProfile{Weight: 80}, "client")
	if result.UsedAI {
		t.Error("UsedAI = true on quota failure")
	}
	if len(result.Meals) == 0 {
		t.Error("fallback meal plan is empty")
	}
}
