package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DD2507/Tripster/internal/model"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	t.Setenv("GOOGLE_PLACES_API_KEY", "")
	t.Setenv("AUTH_MODE", "dev")
	s, err := NewServer()
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	handler(rr, req)
	return rr
}

func TestHealthReady(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != 200 {
		t.Fatalf("health: got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	s.ReadyHandler(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != 200 {
		t.Fatalf("ready: got %d", rr.Code)
	}
}

func TestPlanAndFetch(t *testing.T) {
	s := newTestServer(t)

	rr := postJSON(t, s.PlanHandler, "/v1/trips/plan", map[string]any{
		"destination": "delhi", "days": 3, "budget": 50000, "people": 2,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("plan: got %d: %s", rr.Code, rr.Body.String())
	}
	var it model.Itinerary
	if err := json.Unmarshal(rr.Body.Bytes(), &it); err != nil {
		t.Fatalf("decode itinerary: %v", err)
	}
	if it.ID == "" || it.ShareURL == "" {
		t.Fatalf("itinerary missing id or share url: %+v", it)
	}
	if len(it.DailyPlan) != 3 {
		t.Fatalf("got %d days", len(it.DailyPlan))
	}

	rr = httptest.NewRecorder()
	s.ItineraryByIDHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/itineraries/"+it.ID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("fetch: got %d", rr.Code)
	}

	// Legacy alias serves the same record.
	rr = httptest.NewRecorder()
	s.ItineraryLegacyHandler(rr, httptest.NewRequest(http.MethodGet, "/itinerary/"+it.ID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("legacy fetch: got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	s.ItineraryByIDHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/itineraries/does-not-exist", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing id: got %d", rr.Code)
	}
}

func TestPlanNumberOfDaysAlias(t *testing.T) {
	s := newTestServer(t)
	rr := postJSON(t, s.PlanHandler, "/plan-trip", map[string]any{
		"destination": "jaipur", "numberOfDays": 2, "budget": 45000, "people": 2,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("plan: got %d: %s", rr.Code, rr.Body.String())
	}
	var it model.Itinerary
	if err := json.Unmarshal(rr.Body.Bytes(), &it); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(it.DailyPlan) != 2 {
		t.Fatalf("got %d days, want 2", len(it.DailyPlan))
	}
}

func TestPlanBudgetTooLow(t *testing.T) {
	s := newTestServer(t)
	rr := postJSON(t, s.PlanHandler, "/v1/trips/plan", map[string]any{
		"destination": "delhi", "days": 3, "budget": 4000, "people": 2,
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422", rr.Code)
	}
	var body struct {
		Title         string               `json:"title"`
		MinimumBudget *model.MinimumBudget `json:"minimum_budget"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.MinimumBudget == nil || body.MinimumBudget.TotalMin <= 4000 {
		t.Fatalf("payload %s", rr.Body.String())
	}
}

func TestPlanValidation(t *testing.T) {
	s := newTestServer(t)
	cases := []map[string]any{
		{"days": 3, "budget": 50000},
		{"destination": "delhi", "budget": 50000},
		{"destination": "delhi", "days": 3},
		{"destination": "delhi", "days": 3, "budget": 50000, "mealsPerDay": 9},
	}
	for _, c := range cases {
		rr := postJSON(t, s.PlanHandler, "/v1/trips/plan", c)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("request %v: got %d, want 400", c, rr.Code)
		}
	}
}

func TestSignupSigninAndOwnedPlan(t *testing.T) {
	s := newTestServer(t)

	rr := postJSON(t, s.SignupHandler, "/v1/auth/signup", map[string]any{
		"username": "asha", "email": "asha@example.com", "password": "hunter2",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup: got %d: %s", rr.Code, rr.Body.String())
	}

	// Duplicate username is rejected.
	rr = postJSON(t, s.SignupHandler, "/v1/auth/signup", map[string]any{
		"username": "asha", "email": "other@example.com", "password": "x",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: got %d", rr.Code)
	}

	rr = postJSON(t, s.SigninHandler, "/v1/auth/signin", map[string]any{
		"username": "asha", "password": "hunter2",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("signin: got %d: %s", rr.Code, rr.Body.String())
	}
	var signin struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &signin); err != nil || signin.AccessToken == "" {
		t.Fatalf("signin payload %s (%v)", rr.Body.String(), err)
	}

	rr = postJSON(t, s.SigninHandler, "/v1/auth/signin", map[string]any{
		"username": "asha", "password": "wrong",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: got %d", rr.Code)
	}

	// A plan made with the token belongs to the user.
	b, _ := json.Marshal(map[string]any{"destination": "delhi", "days": 2, "budget": 40000, "people": 1})
	req := httptest.NewRequest(http.MethodPost, "/v1/trips/plan", bytes.NewReader(b))
	req.Header.Set("Authorization", "Bearer "+signin.AccessToken)
	rec := httptest.NewRecorder()
	s.PlanHandler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authed plan: got %d: %s", rec.Code, rec.Body.String())
	}
	var it model.Itinerary
	if err := json.Unmarshal(rec.Body.Bytes(), &it); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if it.Username != "asha" {
		t.Fatalf("itinerary owned by %q, want asha", it.Username)
	}

	// mine=true narrows the listing to the caller's plans.
	req = httptest.NewRequest(http.MethodGet, "/v1/itineraries?mine=true", nil)
	req.Header.Set("Authorization", "Bearer "+signin.AccessToken)
	rec = httptest.NewRecorder()
	s.ItinerariesHandler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list mine: got %d", rec.Code)
	}
	var listing struct {
		Items []model.ItinerarySummary `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Items) != 1 || listing.Items[0].Username != "asha" {
		t.Fatalf("listing %+v", listing.Items)
	}

	// mine=true without a token is rejected.
	rec = httptest.NewRecorder()
	s.ItinerariesHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/itineraries?mine=true", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous mine=true: got %d", rec.Code)
	}
}

func TestListItineraries(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 3; i++ {
		rr := postJSON(t, s.PlanHandler, "/v1/trips/plan", map[string]any{
			"destination": "goa", "days": 2, "budget": 40000, "people": 1,
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("plan %d: got %d", i, rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	s.ItinerariesHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/itineraries?limit=2", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("list: got %d", rr.Code)
	}
	var listing struct {
		Items      []model.ItinerarySummary `json:"items"`
		NextCursor string                   `json:"nextCursor"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listing.Items) != 2 || listing.NextCursor == "" {
		t.Fatalf("listing %+v cursor %q", listing.Items, listing.NextCursor)
	}
}

func TestPlanStreamHandler(t *testing.T) {
	s := newTestServer(t)
	// Plain HTTP against the websocket endpoint fails the upgrade.
	rr := httptest.NewRecorder()
	s.PlanStreamHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/trips/plan/ws", nil))
	if rr.Code == http.StatusOK {
		t.Fatalf("non-websocket request accepted: %d", rr.Code)
	}
}
