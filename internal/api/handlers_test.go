package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fitapi/clients/ai"
	"fitapi/internal/cache"
	"fitapi/internal/quota"
	"fitapi/internal/ratelimit"
)

// testServer сервер без AI-провайдера и без БД:
// генерация всегда идёт через fallback
func testServer(t *testing.T, limits ratelimit.Config) *Server {
	t.Helper()
	q := quota.New(50, filepath.Join(t.TempDir(), "quota.json"))
	l := ratelimit.New(limits)
	g := ai.NewGenerator(nil, cache.New(time.Hour, 100), q, l, time.Second)
	return NewServer(g, q, l, nil)
}

func doRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:9999"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGenerateWorkoutPlan_FallbackIs200(t *testing.T) {
	s := testServer(t, ratelimit.Config{GeneralLimit: 100})

	body := `{"profile":{"age":30,"trainingLevel":"intermediate","primaryGoal":"muscle_gain","workoutFrequency":"2_3"}}`
	rec := doRequest(s.Router(), "POST", "/api/generate-workout-plan", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Success     bool `json:"success"`
		UsedAI      bool `json:"used_ai"`
		WorkoutPlan struct {
			WeeklySchedule []struct {
				Day       string `json:"day"`
				Focus     string `json:"focus"`
				Exercises []any  `json:"exercises"`
			} `json:"weeklySchedule"`
		} `json:"workoutPlan"`
		Provider string `json:"provider"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if !resp.Success {
		t.Error("success = false")
	}
	if resp.UsedAI {
		t.Error("used_ai = true without a provider")
	}
	if resp.Provider != "fallback" {
		t.Errorf("provider = %q", resp.Provider)
	}
	if len(resp.WorkoutPlan.WeeklySchedule) != 7 {
		t.Errorf("schedule length = %d, want 7", len(resp.WorkoutPlan.WeeklySchedule))
	}

	training := 0
	for _, d := range resp.WorkoutPlan.WeeklySchedule {
		if len(d.Exercises) > 0 {
			training++
		}
	}
	if training != 3 {
		t.Errorf("training days = %d, want 3 for token 2_3", training)
	}
}

func TestGenerateWorkoutPlan_BadBody(t *testing.T) {
	s := testServer(t, ratelimit.Config{GeneralLimit: 100})
	rec := doRequest(s.Router(), "POST", "/api/generate-workout-plan", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateRecipe(t *testing.T) {
	s := testServer(t, ratelimit.Config{GeneralLimit: 100})

	body := `{"mealType":"dinner","targets":{"calories":600,"protein":40,"carbs":50,"fat":20},"ingredients":["salmon","rice"],"strict":true}`
	rec := doRequest(s.Router(), "POST", "/api/generate-recipe", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Recipe struct {
			Name     string `json:"name"`
			MealType string `json:"mealType"`
		} `json:"recipe"`
		Provider string `json:"provider"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Recipe.Name == "" {
		t.Error("recipe name is empty")
	}
	if resp.Recipe.MealType != "dinner" {
		t.Errorf("mealType = %q", resp.Recipe.MealType)
	}
}

func TestGenerateRecipe_MissingMealType(t *testing.T) {
	s := testServer(t, ratelimit.Config{GeneralLimit: 100})
	rec := doRequest(s.Router(), "POST", "/api/generate-recipe", `{"targets":{"calories":500}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateDailyMealPlan_MissingUserID(t *testing.T) {
	s := testServer(t, ratelimit.Config{GeneralLimit: 100})
	rec := doRequest(s.Router(), "POST", "/api/generate-daily-meal-plan", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateDailyMealPlan_NoPersistence(t *testing.T) {
	s := testServer(t, ratelimit.Config{GeneralLimit: 100})
	rec := doRequest(s.Router(), "POST", "/api/generate-daily-meal-plan", `{"userId":"u1"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 without persistence", rec.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	s := testServer(t, ratelimit.Config{GeneralLimit: 2, GeneralWindow: time.Minute})
	router := s.Router()

	for i := 0; i < 2; i++ {
		if rec := doRequest(router, "GET", "/health", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := doRequest(router, "GET", "/health", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}

	var resp ratelimit.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "rate_limit_exceeded" || resp.RetryAfter < 1 {
		t.Errorf("body = %+v", resp)
	}
}

func TestQuotaStatus(t *testing.T) {
	s := testServer(t, ratelimit.Config{GeneralLimit: 100})
	rec := doRequest(s.Router(), "GET", "/api/quota-status", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Quota struct {
			Remaining int `json:"remaining"`
		} `json:"quota"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Quota.Remaining != 50 {
		t.Errorf("remaining = %d, want 50", resp.Quota.Remaining)
	}
}

func TestHealth(t *testing.T) {
	s := testServer(t, ratelimit.Config{GeneralLimit: 100})
	rec := doRequest(s.Router(), "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
