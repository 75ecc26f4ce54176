package trip

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DD2507/Tripster/internal/model"
	"github.com/DD2507/Tripster/internal/store"
)

func testPlanner() (*Planner, *store.Memory) {
	st := store.NewMemory()
	return NewPlanner(st, nil, nil), st
}

func TestGenerateCatalogDestination(t *testing.T) {
	p, st := testPlanner()
	req := model.PlanRequest{Destination: "delhi", Days: 3, Budget: 50000, People: 2, MealsPerDay: 2}

	it, err := p.Generate(context.Background(), req, "asha", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if it.Title != "Your Awesome 3-Day Trip to Delhi" {
		t.Errorf("title %q", it.Title)
	}
	bs := it.BudgetSummary
	if bs.Accommodation != 20000 || bs.Food != 12500 || bs.Activities != 10000 || bs.Transport != 7500 {
		t.Errorf("budget split %+v", bs)
	}
	if len(it.DailyPlan) != 3 {
		t.Fatalf("got %d days, want 3", len(it.DailyPlan))
	}
	if it.ActivitiesFeeEstimated > bs.Activities {
		t.Errorf("activities fee %v exceeds budget %v", it.ActivitiesFeeEstimated, bs.Activities)
	}

	if it.Hotel == nil {
		t.Fatal("no hotel picked")
	}
	if it.Hotel.Name != "Connaught Royale" {
		t.Errorf("hotel %q, want best-rated in nightly budget", it.Hotel.Name)
	}
	if it.Hotel.Nights != 3 || it.Hotel.EstimatedTotal != it.Hotel.PricePerNight*3 {
		t.Errorf("hotel totals %+v", it.Hotel)
	}

	// First activity of a non-empty day starts at 9 AM.
	for _, dp := range it.DailyPlan {
		if len(dp.Activities) == 0 {
			t.Fatalf("day %d has no activities", dp.Day)
		}
		if dp.Activities[0].Type == "activity" && dp.Activities[0].Time != "9:00 AM" {
			t.Errorf("day %d starts at %s", dp.Day, dp.Activities[0].Time)
		}
		if len(dp.Restaurants) != 2 {
			t.Errorf("day %d has %d meals", dp.Day, len(dp.Restaurants))
		}
		if dp.Restaurants[0].Type != "Lunch" || dp.Restaurants[1].Type != "Dinner" {
			t.Errorf("day %d meal labels %v %v", dp.Day, dp.Restaurants[0].Type, dp.Restaurants[1].Type)
		}
	}

	// Catalog restaurants are never repeated across the trip.
	seen := map[string]bool{}
	for _, dp := range it.DailyPlan {
		for _, r := range dp.Restaurants {
			if strings.HasPrefix(r.Name, "Local ") {
				continue
			}
			if seen[r.Name] {
				t.Errorf("restaurant %q suggested twice", r.Name)
			}
			seen[r.Name] = true
		}
	}

	// The itinerary is persisted.
	if it.ID == "" {
		t.Fatal("itinerary not assigned an id")
	}
	saved, err := st.GetItinerary(context.Background(), it.ID)
	if err != nil {
		t.Fatalf("GetItinerary: %v", err)
	}
	if saved.Username != "asha" || saved.Title != it.Title {
		t.Errorf("saved %+v", saved)
	}
	if it.TransportAdvice == nil {
		t.Fatal("no transport advice")
	}
}

func TestGenerateBudgetTooLow(t *testing.T) {
	p, _ := testPlanner()
	req := model.PlanRequest{Destination: "delhi", Days: 3, Budget: 5000, People: 2, MealsPerDay: 2}

	_, err := p.Generate(context.Background(), req, "", nil)
	var tooLow *BudgetTooLowError
	if !errors.As(err, &tooLow) {
		t.Fatalf("got %v, want BudgetTooLowError", err)
	}
	if tooLow.Minimum.TotalMin <= 5000 {
		t.Errorf("minimum %v not above the offered budget", tooLow.Minimum.TotalMin)
	}
	if tooLow.Title == "" || !strings.Contains(tooLow.Message, "Minimum estimated budget") {
		t.Errorf("error payload %+v", tooLow)
	}
}

func TestGenerateUnknownDestinationFallsBack(t *testing.T) {
	p, _ := testPlanner()
	req := model.PlanRequest{Destination: "Ruritania", Days: 2, Budget: 40000, People: 1, MealsPerDay: 2}

	it, err := p.Generate(context.Background(), req, "", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Without catalog entry or live lookups the sample attractions drive
	// the plan and the generic hotel table supplies the stay.
	sample := map[string]bool{}
	for _, pt := range samplePointNames() {
		sample[pt] = true
	}
	foundSample := false
	for _, dp := range it.DailyPlan {
		for _, a := range dp.Activities {
			if sample[a.Description] {
				foundSample = true
			}
		}
	}
	if !foundSample {
		t.Error("no sample attraction in the plan")
	}
	if it.Hotel == nil || !strings.Contains(it.Hotel.Name, "(Local Suggestion)") {
		t.Errorf("hotel %+v, want a local suggestion", it.Hotel)
	}
	for _, dp := range it.DailyPlan {
		for _, r := range dp.Restaurants {
			if !strings.HasPrefix(r.Name, "Local ") {
				t.Errorf("unexpected restaurant %q without any lookup source", r.Name)
			}
		}
	}
}

func samplePointNames() []string {
	return []string{"City Museum", "Heritage Fort", "Central Park", "Riverfront Walk", "Art Gallery", "Science Center"}
}

func TestGenerateInvalidRequest(t *testing.T) {
	p, _ := testPlanner()
	for _, req := range []model.PlanRequest{
		{Destination: "", Days: 3, Budget: 50000},
		{Destination: "delhi", Days: 0, Budget: 50000},
		{Destination: "delhi", Days: 3, Budget: 0},
	} {
		if _, err := p.Generate(context.Background(), req, "", nil); err == nil {
			t.Errorf("request %+v accepted", req)
		}
	}
}

func TestGenerateEmitsProgress(t *testing.T) {
	p, _ := testPlanner()
	req := model.PlanRequest{Destination: "jaipur", Days: 2, Budget: 45000, People: 2, MealsPerDay: 2}

	var stages []string
	_, err := p.Generate(context.Background(), req, "", func(stage string, _ any) {
		stages = append(stages, stage)
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantOrder := []string{"minimum_budget", "geocoded", "attractions", "clustered", "allocated", "transport"}
	pos := 0
	for _, s := range stages {
		if pos < len(wantOrder) && s == wantOrder[pos] {
			pos++
		}
	}
	if pos != len(wantOrder) {
		t.Errorf("stages %v missing expected order %v", stages, wantOrder)
	}
	days := 0
	for _, s := range stages {
		if s == "day.planned" {
			days++
		}
	}
	if days != 2 {
		t.Errorf("day.planned emitted %d times, want 2", days)
	}
}

func TestMealPriceLevel(t *testing.T) {
	cases := []struct {
		food                    float64
		days, meals, people, lv int
	}{
		{12000, 2, 2, 1, 4}, // 3000 per person-meal
		{12000, 3, 2, 2, 3}, // 1000
		{3600, 3, 2, 2, 1},  // 300 boundary stays level 1
		{3612, 3, 2, 2, 2},  // just over 300
		{30000, 2, 2, 2, 4}, // 3750
		{1, 1, 1, 1, 1},
	}
	for _, c := range cases {
		if got := mealPriceLevel(c.food, c.days, c.meals, c.people); got != c.lv {
			t.Errorf("mealPriceLevel(%v,%d,%d,%d) = %d, want %d", c.food, c.days, c.meals, c.people, got, c.lv)
		}
	}
}

func TestClockLabel(t *testing.T) {
	cases := map[int]string{
		9:  "9:00 AM",
		11: "11:00 AM",
		12: "12:00 PM",
		13: "1:00 PM",
		23: "11:00 PM",
		24: "12:00 AM",
	}
	for slot, want := range cases {
		if got := clockLabel(slot); got != want {
			t.Errorf("clockLabel(%d) = %q, want %q", slot, got, want)
		}
	}
}

func TestMapAttractionsDurations(t *testing.T) {
	raw := []model.Place{
		{Name: "Museum", Lat: 1, Lng: 1, Types: []string{"museum"}},
		{Name: "Park", Lat: 1, Lng: 1, Types: []string{"park"}},
		{Name: "Mall", Lat: 1, Lng: 1, Types: []string{"shopping_mall"}},
		{Name: "Plain", Lat: 1, Lng: 1, Types: []string{"tourist_attraction"}},
		{Name: "", Lat: 1, Lng: 1},
	}
	got := mapAttractions(raw)
	if len(got) != 4 {
		t.Fatalf("got %d points, want 4", len(got))
	}
	want := []float64{2.5, 3.0, 1.5, 2.0}
	for i, w := range want {
		if got[i].DurationHours != w {
			t.Errorf("%s duration %v, want %v", got[i].Name, got[i].DurationHours, w)
		}
		if got[i].EstimatedFee != 0 {
			t.Errorf("%s fee %v, want free", got[i].Name, got[i].EstimatedFee)
		}
	}
}

func TestTransportAdviceTiers(t *testing.T) {
	cases := []struct {
		total  float64
		days   int
		people int
		mode   string
	}{
		{6000, 3, 1, "ride-hailing/cabs as primary"},   // 2000/day
		{3000, 3, 1, "mixed: transit + 2-3 cab rides/day"}, // 1000/day
		{900, 3, 1, "mostly transit + walking"},        // 300/day
		{1500, 3, 1, "public transit + short autos"},   // 500/day
		{3000, 3, 4, "group: cab/6-seater or day rental"},
	}
	for _, c := range cases {
		got := transportAdvice(c.total, c.days, c.people)
		if got.Mode != c.mode {
			t.Errorf("transportAdvice(%v,%d,%d) mode %q, want %q", c.total, c.days, c.people, got.Mode, c.mode)
		}
	}
}

func TestChooseHotel(t *testing.T) {
	lvl := func(n int) *int { return &n }
	rat := func(r float64) *float64 { return &r }

	items := []model.Place{
		{Name: "Mid Hotel", PriceLevel: lvl(1), Rating: rat(4.0)},    // 3000/night
		{Name: "Better Mid", PriceLevel: lvl(1), Rating: rat(4.4)},   // 3000/night
		{Name: "Pricey Palace", PriceLevel: lvl(4), Rating: rat(4.9)}, // 12000/night
	}
	got := chooseHotel(items, 5000)
	if got == nil || got.Name != "Better Mid" {
		t.Fatalf("got %v, want best-rated within budget", got)
	}

	// Nothing within budget keeps the first over-budget candidate.
	got = chooseHotel(items, 1000)
	if got == nil || got.Name != "Mid Hotel" {
		t.Fatalf("got %v, want first over-budget candidate", got)
	}

	if chooseHotel(nil, 5000) != nil {
		t.Fatal("empty candidate list produced a hotel")
	}
}
