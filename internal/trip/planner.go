// Package trip turns a plan request into a full itinerary: budget split,
// attraction lookup, day clustering and selection, hotel and restaurant
// picks, and transport advice.
package trip

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/DD2507/Tripster/internal/catalog"
	"github.com/DD2507/Tripster/internal/metrics"
	"github.com/DD2507/Tripster/internal/model"
	"github.com/DD2507/Tripster/internal/places"
	"github.com/DD2507/Tripster/internal/plan"
	"github.com/DD2507/Tripster/internal/store"
)

// BudgetTooLowError reports a request whose budget falls under the
// estimated minimum for the trip shape.
type BudgetTooLowError struct {
	Minimum model.MinimumBudget
	Title   string
	Message string
}

func (e *BudgetTooLowError) Error() string { return e.Message }

// ProgressFunc observes named planning stages as they complete. The detail
// payload is stage specific and JSON-serializable.
type ProgressFunc func(stage string, detail any)

// Planner builds itineraries. Places may be nil; lookups then come from the
// embedded catalog only.
type Planner struct {
	Store  store.Store
	Places *places.Client
	Log    *log.Logger
}

func NewPlanner(st store.Store, pl *places.Client, logger *log.Logger) *Planner {
	if logger == nil {
		logger = log.Default()
	}
	return &Planner{Store: st, Places: pl, Log: logger}
}

const disclaimer = "Estimates only. Actual costs vary by season, choice and availability."

// Generate plans, persists and returns one itinerary. username is empty
// for guests. progress may be nil.
func (p *Planner) Generate(ctx context.Context, req model.PlanRequest, username string, progress ProgressFunc) (model.Itinerary, error) {
	start := time.Now()
	if progress == nil {
		progress = func(string, any) {}
	}
	if req.People < 1 {
		req.People = 1
	}
	if req.MealsPerDay < 1 {
		req.MealsPerDay = 2
	}
	if req.Destination == "" || req.Days <= 0 || req.Budget <= 0 {
		return model.Itinerary{}, fmt.Errorf("trip: invalid request: destination, days and budget are required")
	}

	p.Log.Printf("planning %d-day trip to %s for %d (budget %.0f, user %q)", req.Days, req.Destination, req.People, req.Budget, username)

	it := model.Itinerary{
		Title:      fmt.Sprintf("Your Awesome %d-Day Trip to %s", req.Days, titleCase(req.Destination)),
		Username:   username,
		Disclaimer: disclaimer,
		BudgetSummary: model.BudgetSummary{
			TotalBudget:   req.Budget,
			Accommodation: req.Budget * 0.40,
			Food:          req.Budget * 0.25,
			Activities:    req.Budget * 0.20,
			Transport:     req.Budget * 0.15,
		},
		DailyPlan: []model.DayPlan{},
	}

	// Minimum budget gate.
	minBudget := catalog.EstimateMinimumBudget(req.Days, req.People)
	it.MinimumBudget = &minBudget
	progress("minimum_budget", minBudget)
	if req.Budget < minBudget.TotalMin {
		metrics.PlansGenerated.WithLabelValues("budget_too_low").Inc()
		return model.Itinerary{}, &BudgetTooLowError{
			Minimum: minBudget,
			Title:   it.Title,
			Message: fmt.Sprintf("Minimum estimated budget is ₹%d for %d days and %d people.", int(minBudget.TotalMin), req.Days, req.People),
		}
	}

	dest, inCatalog := catalog.Lookup(req.Destination)

	// Destination center: catalog first, then geocoding.
	var centerLat, centerLng float64
	haveCenter := false
	if inCatalog {
		centerLat, centerLng = dest.Center.Lat, dest.Center.Lng
		haveCenter = true
	} else if p.Places != nil {
		geo, err := p.Places.Geocode(ctx, req.Destination)
		if err != nil {
			p.Log.Printf("geocoding %q failed: %v", req.Destination, err)
		} else {
			centerLat, centerLng = geo.Lat, geo.Lng
			haveCenter = true
		}
	}
	if haveCenter {
		progress("geocoded", map[string]float64{"lat": centerLat, "lng": centerLng})
	}

	// Attractions: catalog, then live lookup, then the fixed sample set.
	var points []model.PointOfInterest
	if inCatalog {
		points = dest.Points()
	}
	if len(points) == 0 && haveCenter && p.Places != nil {
		raw, err := p.Places.SearchAttractions(ctx, req.Destination, centerLat, centerLng)
		if err != nil {
			p.Log.Printf("attraction lookup for %q failed: %v", req.Destination, err)
		} else {
			points = mapAttractions(raw)
		}
	}
	if len(points) == 0 {
		p.Log.Printf("no attractions for %q, using the sample set", req.Destination)
		points = catalog.SampleAttractions()
	}
	progress("attractions", map[string]any{"count": len(points)})

	// Cluster into days and pick what fits each day's budget and hours.
	clusters := plan.Partition(points, req.Days)
	progress("clustered", map[string]any{"clusters": len(clusters)})
	selections, activitiesTotal := plan.Allocate(clusters, it.BudgetSummary.Activities, plan.DefaultMaxHoursPerDay)
	it.ActivitiesFeeEstimated = math.Round(activitiesTotal)
	progress("allocated", map[string]any{"days": len(selections), "total_fee": it.ActivitiesFeeEstimated})

	// Hotel.
	budgetPerNight := it.BudgetSummary.Accommodation / float64(req.Days)
	it.Hotel = p.pickHotel(ctx, req, dest, inCatalog, haveCenter, centerLat, centerLng, budgetPerNight)
	if it.Hotel != nil {
		progress("hotel", it.Hotel)
	}

	// Restaurants around the hotel, or the center when the hotel is only a
	// generic suggestion.
	maxPriceLevel := mealPriceLevel(it.BudgetSummary.Food, req.Days, req.MealsPerDay, req.People)
	restaurants := p.findRestaurants(ctx, req, dest, inCatalog, haveCenter, centerLat, centerLng, it.Hotel, maxPriceLevel)
	progress("restaurants", map[string]any{"count": len(restaurants), "max_price_level": maxPriceLevel})

	// Assemble days.
	nextRestaurant := 0
	for day := 1; day <= req.Days; day++ {
		var sel model.DaySelection
		if day-1 < len(selections) {
			sel = selections[day-1]
		}
		dp := buildDayPlan(day, sel, restaurants, &nextRestaurant, req.MealsPerDay, req.People, maxPriceLevel)
		it.DailyPlan = append(it.DailyPlan, dp)
		progress("day.planned", dp)
	}

	// Transport.
	it.TransportAdvice = transportAdvice(it.BudgetSummary.Transport, req.Days, req.People)
	progress("transport", it.TransportAdvice)

	if p.Store != nil {
		id, err := p.Store.SaveItinerary(ctx, it)
		if err != nil {
			metrics.PlansGenerated.WithLabelValues("store_error").Inc()
			return model.Itinerary{}, fmt.Errorf("trip: save itinerary: %w", err)
		}
		it.ID = id
	}

	metrics.PlansGenerated.WithLabelValues("ok").Inc()
	metrics.PlanDuration.Observe(time.Since(start).Seconds())
	return it, nil
}

// mapAttractions converts normalized place results to planner input, with a
// duration heuristic by place type. Fees are unknown from the lookup and
// default to free.
func mapAttractions(raw []model.Place) []model.PointOfInterest {
	out := make([]model.PointOfInterest, 0, len(raw))
	for _, pl := range raw {
		if pl.Name == "" {
			continue
		}
		duration := 2.0
		switch {
		case hasAnyType(pl.Types, "museum", "art_gallery", "zoo", "aquarium"):
			duration = 2.5
		case hasAnyType(pl.Types, "park", "amusement_park"):
			duration = 3.0
		case hasAnyType(pl.Types, "shopping_mall"):
			duration = 1.5
		}
		category := "tourist_attraction"
		if len(pl.Types) > 0 {
			category = pl.Types[0]
		}
		out = append(out, model.PointOfInterest{
			Name:          pl.Name,
			Lat:           pl.Lat,
			Lng:           pl.Lng,
			EstimatedFee:  0,
			DurationHours: duration,
			Category:      category,
			Rating:        pl.Rating,
		})
	}
	return out
}

func hasAnyType(types []string, wanted ...string) bool {
	for _, t := range types {
		for _, w := range wanted {
			if t == w {
				return true
			}
		}
	}
	return false
}

// Nightly estimates by reported price level; unknown level gets the base.
const baseNightlyEstimate = 2500

var nightlyByPriceLevel = map[int]float64{
	0: 1500, 1: 3000, 2: 5000, 3: 8000, 4: 12000,
}

func (p *Planner) pickHotel(ctx context.Context, req model.PlanRequest, dest *catalog.Destination, inCatalog, haveCenter bool, lat, lng, budgetPerNight float64) *model.HotelPick {
	nights := req.Days

	if inCatalog {
		if h := dest.SelectHotel(budgetPerNight); h != nil {
			rating := h.Rating
			return &model.HotelPick{
				Name:           h.Name,
				Area:           h.Area,
				Rating:         &rating,
				PricePerNight:  h.PricePerNight,
				Nights:         nights,
				EstimatedTotal: h.PricePerNight * float64(nights),
			}
		}
	}

	if p.Places != nil {
		var latp, lngp *float64
		if haveCenter {
			latp, lngp = &lat, &lng
		}
		items, err := p.Places.SearchHotels(ctx, req.Destination, latp, lngp)
		if err != nil {
			p.Log.Printf("hotel lookup for %q failed: %v", req.Destination, err)
		} else if pick := chooseHotel(items, budgetPerNight); pick != nil {
			area := req.Destination
			if segs := strings.Split(pick.FormattedAddress, ","); len(segs) > 1 {
				area = strings.TrimSpace(segs[len(segs)-2])
			}
			nightly := baseNightlyEstimate
			if pick.PriceLevel != nil {
				if v, ok := nightlyByPriceLevel[*pick.PriceLevel]; ok {
					nightly = int(v)
				}
			}
			rating := 3.0
			if pick.Rating != nil {
				rating = *pick.Rating
			}
			return &model.HotelPick{
				Name:           pick.Name,
				Area:           area,
				Rating:         &rating,
				PricePerNight:  float64(nightly),
				Nights:         nights,
				EstimatedTotal: float64(nightly) * float64(nights),
			}
		}
	}

	// Generic table as the last resort, marked as a local suggestion.
	if h := catalog.SelectHotel(budgetPerNight, ""); h != nil {
		rating := h.Rating
		return &model.HotelPick{
			Name:           h.Name + " (Local Suggestion)",
			Area:           h.Area,
			Rating:         &rating,
			PricePerNight:  h.PricePerNight,
			Nights:         nights,
			EstimatedTotal: h.PricePerNight * float64(nights),
		}
	}
	return nil
}

// chooseHotel scans the first results for the best-rated hotel whose
// estimated nightly price fits the budget. An over-budget candidate is
// taken only while nothing else has been found.
func chooseHotel(items []model.Place, budgetPerNight float64) *model.Place {
	var best *model.Place
	limit := len(items)
	if limit > 15 {
		limit = 15
	}
	for i := 0; i < limit; i++ {
		it := items[i]
		nightly := float64(baseNightlyEstimate)
		if it.PriceLevel != nil {
			if v, ok := nightlyByPriceLevel[*it.PriceLevel]; ok {
				nightly = v
			}
		}
		rating := 3.0
		if it.Rating != nil {
			rating = *it.Rating
		}
		if nightly <= budgetPerNight {
			if best == nil || rating > ratingOf(best) {
				it := it
				best = &it
			}
		} else if best == nil {
			it := it
			best = &it
		}
	}
	return best
}

func ratingOf(p *model.Place) float64 {
	if p.Rating == nil {
		return 3.0
	}
	return *p.Rating
}

// mealPriceLevel maps the per-person meal budget to a maximum price level.
func mealPriceLevel(foodBudget float64, days, mealsPerDay, people int) int {
	if days < 1 {
		days = 1
	}
	if mealsPerDay < 1 {
		mealsPerDay = 1
	}
	if people < 1 {
		people = 1
	}
	target := foodBudget / float64(days) / float64(mealsPerDay) / float64(people)
	switch {
	case target > 1500:
		return 4
	case target > 700:
		return 3
	case target > 300:
		return 2
	default:
		return 1
	}
}

func (p *Planner) findRestaurants(ctx context.Context, req model.PlanRequest, dest *catalog.Destination, inCatalog, haveCenter bool, centerLat, centerLng float64, hotel *model.HotelPick, maxPriceLevel int) []model.Place {
	if inCatalog {
		if got := dest.RestaurantPlaces(req.VegOnly); len(got) > 0 {
			return got
		}
	}
	if p.Places == nil || !haveCenter {
		return nil
	}

	searchLat, searchLng := centerLat, centerLng
	if hotel != nil && !strings.Contains(hotel.Name, "(Local Suggestion)") {
		geo, err := p.Places.Geocode(ctx, hotel.Name+", "+hotel.Area)
		if err == nil {
			searchLat, searchLng = geo.Lat, geo.Lng
		}
	}

	got, err := p.Places.SearchRestaurants(ctx, places.RestaurantQuery{
		Lat:           searchLat,
		Lng:           searchLng,
		RadiusM:       3000,
		MinRating:     4.0,
		MaxPriceLevel: maxPriceLevel,
		VegOnly:       req.VegOnly,
	})
	if err != nil {
		p.Log.Printf("restaurant lookup failed: %v", err)
		return nil
	}
	return got
}

// Per-person meal estimates by price level; anything unknown gets the floor.
var mealCostByLevel = map[int]float64{
	1: 350, 2: 700, 3: 1200, 4: 2000,
}

func mealCostPerPerson(priceLevel int) float64 {
	if v, ok := mealCostByLevel[priceLevel]; ok {
		return v
	}
	return 150
}

func mealLabel(mealsPerDay, mealIndex int) string {
	switch {
	case mealsPerDay <= 1:
		return "Meal"
	case mealsPerDay == 2:
		if mealIndex == 0 {
			return "Lunch"
		}
		return "Dinner"
	default:
		switch mealIndex {
		case 0:
			return "Breakfast"
		case 1:
			return "Lunch"
		default:
			return "Dinner"
		}
	}
}

func buildDayPlan(day int, sel model.DaySelection, restaurants []model.Place, nextRestaurant *int, mealsPerDay, people, maxPriceLevel int) model.DayPlan {
	activities := []model.Activity{}
	slot := 9 // activities start at 9 AM
	for _, pt := range sel.Points {
		activities = append(activities, model.Activity{
			Time:        clockLabel(slot),
			Description: pt.Name,
			Type:        "activity",
			EstFee:      pt.EstimatedFee,
			Rating:      pt.Rating,
		})
		slot += int(math.Ceil(pt.DurationHours))
	}
	if len(activities) == 0 {
		activities = append(activities, model.Activity{
			Time:        "10:00 AM",
			Description: "Explore local area near hotel",
			Type:        "sightseeing",
		})
	}

	picks := []model.RestaurantPick{}
	foodCost := 0.0
	for meal := 0; meal < mealsPerDay; meal++ {
		label := mealLabel(mealsPerDay, meal)

		var chosen *model.Place
		if *nextRestaurant < len(restaurants) {
			chosen = &restaurants[*nextRestaurant]
			*nextRestaurant++
		}

		level := maxPriceLevel
		if chosen != nil && chosen.PriceLevel != nil {
			level = *chosen.PriceLevel
		}
		perPerson := mealCostPerPerson(level)

		if chosen != nil {
			lvl := level
			picks = append(picks, model.RestaurantPick{
				Name:          chosen.Name,
				Rating:        chosen.Rating,
				Type:          label,
				EstCostPerson: perPerson,
				PriceLevel:    &lvl,
			})
		} else {
			var lvl *int
			if level <= 4 {
				l := level
				lvl = &l
			}
			picks = append(picks, model.RestaurantPick{
				Name:          fmt.Sprintf("Local %s Place (Budget)", label),
				Type:          label,
				EstCostPerson: perPerson,
				PriceLevel:    lvl,
			})
		}
		foodCost += perPerson * float64(people)
	}

	return model.DayPlan{
		Day:               day,
		Activities:        activities,
		Restaurants:       picks,
		FoodCostEstimated: math.Ceil(foodCost),
	}
}

// clockLabel renders an hour slot as "H:00 AM/PM".
func clockLabel(slot int) string {
	hour := slot % 24
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour
	if display > 12 {
		display -= 12
	}
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:00 %s", display, suffix)
}

func transportAdvice(transportTotal float64, days, people int) *model.TransportAdvice {
	if days < 1 {
		days = 1
	}
	perDay := transportTotal / float64(days)
	if perDay < 0 {
		perDay = 0
	}

	mode := "public transit + short autos"
	notes := "Use metro/bus for most hops. Take autos/ride-hailing for the last mile or late hours."
	airport := 800.0
	switch {
	case perDay >= 1500:
		mode = "ride-hailing/cabs as primary"
		airport = 1200
		notes = "Plan 4-5 cab rides per day. Consider a 1-day car rental if doing far-spread sights."
	case perDay >= 800:
		mode = "mixed: transit + 2-3 cab rides/day"
		airport = 1000
		notes = "Transit for long hops; cabs for convenience or evenings."
	case perDay <= 300:
		mode = "mostly transit + walking"
		airport = 600
		notes = "Stick to buses/metro and walk between nearby sights."
	}
	if people >= 4 && perDay >= 800 {
		mode = "group: cab/6-seater or day rental"
		notes = "For 4+ people, shared cabs/day rental often cheaper than multiple singles."
	}

	return &model.TransportAdvice{
		Mode:                    mode,
		PerDayEstimate:          math.Round(perDay),
		AirportTransferEstimate: airport,
		Notes:                   notes,
	}
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
