package model

import "math"

// Core domain types for trip planning.

// PointOfInterest is one visitable attraction candidate. Names are not
// required to be unique; two points with the same name are distinct entries.
type PointOfInterest struct {
	Name          string   `json:"name"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	EstimatedFee  float64  `json:"est_fee"`
	DurationHours float64  `json:"duration_hours"`
	Category      string   `json:"category,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
}

// HasCoordinates reports whether both coordinates carry usable values.
// Upstream mapping encodes a missing coordinate as NaN.
func (p PointOfInterest) HasCoordinates() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lng)
}

// Place is a normalized place-search result. Geocoding and places lookups
// and the embedded destination catalog all produce this shape.
type Place struct {
	Name             string   `json:"name"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	Types            []string `json:"types,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	PlaceID          string   `json:"place_id,omitempty"`
}

// DayCluster is the ordered set of points assigned to one candidate day.
type DayCluster struct {
	Points []PointOfInterest `json:"points"`
}

// DaySelection is the allocator output for one day: the chosen subset of the
// day's cluster plus its fee and duration totals.
type DaySelection struct {
	Points     []PointOfInterest `json:"points"`
	TotalFee   float64           `json:"total_fee"`
	TotalHours float64           `json:"total_hours"`
}

// PlanRequest is the inbound trip-planning request.
type PlanRequest struct {
	Destination string  `json:"destination"`
	Days        int     `json:"days"`
	Budget      float64 `json:"budget"`
	People      int     `json:"people"`
	VegOnly     bool    `json:"vegOnly"`
	MealsPerDay int     `json:"mealsPerDay"`
}

// BudgetSummary is the fixed 40/25/20/15 split of the total budget.
type BudgetSummary struct {
	TotalBudget   float64 `json:"total_budget"`
	Accommodation float64 `json:"accommodation"`
	Food          float64 `json:"food"`
	Activities    float64 `json:"activities"`
	Transport     float64 `json:"transport"`
}

// MinimumBudget is the floor estimate for a trip of the requested shape.
type MinimumBudget struct {
	HotelMin      float64           `json:"hotel_min"`
	FoodMin       float64           `json:"food_min"`
	TransportMin  float64           `json:"transport_min"`
	ActivitiesMin float64           `json:"activities_min"`
	TotalMin      float64           `json:"total_min"`
	Assumptions   BudgetAssumptions `json:"assumptions"`
}

type BudgetAssumptions struct {
	HotelUsed   string `json:"hotel_used"`
	MealsPerDay int    `json:"meals_per_day"`
	People      int    `json:"people"`
}

// HotelPick is the selected accommodation.
type HotelPick struct {
	Name           string   `json:"name"`
	Area           string   `json:"area"`
	Rating         *float64 `json:"rating"`
	PricePerNight  float64  `json:"price_per_night"`
	Nights         int      `json:"nights"`
	EstimatedTotal float64  `json:"estimated_total"`
}

// Activity is one stamped itinerary entry within a day.
type Activity struct {
	Time        string   `json:"time"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	EstFee      float64  `json:"est_fee"`
	Rating      *float64 `json:"rating,omitempty"`
}

// RestaurantPick is one meal suggestion within a day.
type RestaurantPick struct {
	Name          string   `json:"name"`
	Rating        *float64 `json:"rating"`
	Type          string   `json:"type"`
	EstCostPerson float64  `json:"est_cost_person"`
	PriceLevel    *int     `json:"price_level"`
}

// DayPlan is one rendered day of the itinerary.
type DayPlan struct {
	Day               int              `json:"day"`
	Activities        []Activity       `json:"activities"`
	Restaurants       []RestaurantPick `json:"restaurants"`
	FoodCostEstimated float64          `json:"food_cost_estimated"`
}

// TransportAdvice suggests a transport mode for the per-day transport budget.
type TransportAdvice struct {
	Mode                    string  `json:"mode,omitempty"`
	PerDayEstimate          float64 `json:"per_day_estimate,omitempty"`
	AirportTransferEstimate float64 `json:"airport_transfer_estimate,omitempty"`
	Notes                   string  `json:"notes"`
}

// Itinerary is the full rendered plan returned to callers and persisted.
type Itinerary struct {
	ID                     string           `json:"itinerary_id,omitempty"`
	Title                  string           `json:"title"`
	Username               string           `json:"username,omitempty"`
	BudgetSummary          BudgetSummary    `json:"budget_summary"`
	MinimumBudget          *MinimumBudget   `json:"minimum_budget,omitempty"`
	Disclaimer             string           `json:"disclaimer"`
	Hotel                  *HotelPick       `json:"hotel"`
	DailyPlan              []DayPlan        `json:"daily_plan"`
	TransportAdvice        *TransportAdvice `json:"transport_advice"`
	ActivitiesFeeEstimated float64          `json:"activities_fee_estimated"`
	ShareURL               string           `json:"share_url,omitempty"`
}

// User is a registered account.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// ItinerarySummary is the list-view read model.
type ItinerarySummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Username string `json:"username,omitempty"`
}
