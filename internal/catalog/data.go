package catalog

import (
	"sort"

	"github.com/DD2507/Tripster/internal/model"
)

// Generic INR fallback tables for destinations the curated catalog does not
// cover.

var mockHotels = []Hotel{
	{Name: "City Comfort Inn", PricePerNight: 3600, Rating: 4.2, Area: "city center"},
	{Name: "Budget Stay Suites", PricePerNight: 2400, Rating: 3.9, Area: "suburbs"},
	{Name: "Seaside View Hotel", PricePerNight: 5600, Rating: 4.5, Area: "beachfront"},
	{Name: "Backpacker Lodge", PricePerNight: 1600, Rating: 3.5, Area: "old town"},
	{Name: "Business Plaza Hotel", PricePerNight: 4400, Rating: 4.1, Area: "downtown"},
}

type mockRestaurant struct {
	Name          string
	AvgCostPerson float64
	Rating        float64
	Cuisine       string
}

var mockRestaurants = []mockRestaurant{
	{Name: "Spice Route", AvgCostPerson: 800, Rating: 4.3, Cuisine: "indian"},
	{Name: "Coastal Catch", AvgCostPerson: 1200, Rating: 4.5, Cuisine: "seafood"},
	{Name: "Veggie Bowl", AvgCostPerson: 640, Rating: 4.1, Cuisine: "vegetarian"},
	{Name: "Budget Bites", AvgCostPerson: 480, Rating: 3.8, Cuisine: "fast-casual"},
	{Name: "Rooftop Diner", AvgCostPerson: 1440, Rating: 4.4, Cuisine: "continental"},
	{Name: "Local Tiffins", AvgCostPerson: 400, Rating: 3.9, Cuisine: "breakfast"},
}

// SelectHotel picks from the generic table: within budget, preferring the
// requested area when it matches, then best rating and cheaper on ties.
// Nothing within budget returns nil.
func SelectHotel(budgetPerNight float64, preferredArea string) *Hotel {
	return pickHotel(mockHotels, budgetPerNight, preferredArea)
}

func pickHotel(hotels []Hotel, budgetPerNight float64, preferredArea string) *Hotel {
	within := make([]Hotel, 0, len(hotels))
	for _, h := range hotels {
		if h.PricePerNight <= budgetPerNight {
			within = append(within, h)
		}
	}
	if len(within) == 0 {
		return nil
	}

	pool := within
	if preferredArea != "" && preferredArea != "any" {
		area := normalize(preferredArea)
		subset := make([]Hotel, 0, len(within))
		for _, h := range within {
			if normalize(h.Area) == area {
				subset = append(subset, h)
			}
		}
		if len(subset) > 0 {
			pool = subset
		}
	}

	sort.SliceStable(pool, func(a, b int) bool {
		if pool[a].Rating != pool[b].Rating {
			return pool[a].Rating > pool[b].Rating
		}
		return pool[a].PricePerNight < pool[b].PricePerNight
	})
	h := pool[0]
	return &h
}

const (
	minTransportPerNight  = 400
	minActivitiesPerNight = 300
)

// EstimateMinimumBudget computes the realistic floor for a trip of the
// given shape: the cheapest generic hotel for every night, the two
// cheapest meals per person per night, and small transport and activities
// buffers.
func EstimateMinimumBudget(days, people int) model.MinimumBudget {
	nights := days
	if nights < 1 {
		nights = 1
	}
	heads := people
	if heads < 1 {
		heads = 1
	}

	cheapestHotel := mockHotels[0]
	for _, h := range mockHotels[1:] {
		if h.PricePerNight < cheapestHotel.PricePerNight {
			cheapestHotel = h
		}
	}
	hotelMin := cheapestHotel.PricePerNight * float64(nights)

	byCost := make([]mockRestaurant, len(mockRestaurants))
	copy(byCost, mockRestaurants)
	sort.SliceStable(byCost, func(a, b int) bool {
		return byCost[a].AvgCostPerson < byCost[b].AvgCostPerson
	})
	perDayMeals := 0.0
	for _, r := range byCost[:2] {
		perDayMeals += r.AvgCostPerson
	}
	foodMin := perDayMeals * float64(heads) * float64(nights)

	transportMin := float64(minTransportPerNight * nights)
	activitiesMin := float64(minActivitiesPerNight * nights)

	return model.MinimumBudget{
		HotelMin:      hotelMin,
		FoodMin:       foodMin,
		TransportMin:  transportMin,
		ActivitiesMin: activitiesMin,
		TotalMin:      hotelMin + foodMin + transportMin + activitiesMin,
		Assumptions: model.BudgetAssumptions{
			HotelUsed:   cheapestHotel.Name,
			MealsPerDay: 2,
			People:      people,
		},
	}
}

// SampleAttractions returns the fixed fallback set used when neither the
// catalog nor live lookups yield anything for a destination.
func SampleAttractions() []model.PointOfInterest {
	return []model.PointOfInterest{
		{Name: "City Museum", Lat: 28.6139, Lng: 77.2090, EstimatedFee: 150, DurationHours: 2.0, Category: "museum"},
		{Name: "Heritage Fort", Lat: 28.6562, Lng: 77.2410, EstimatedFee: 250, DurationHours: 2.5, Category: "heritage"},
		{Name: "Central Park", Lat: 28.6270, Lng: 77.2150, EstimatedFee: 0, DurationHours: 1.5, Category: "park"},
		{Name: "Riverfront Walk", Lat: 28.6000, Lng: 77.2000, EstimatedFee: 0, DurationHours: 1.0, Category: "walk"},
		{Name: "Art Gallery", Lat: 28.6200, Lng: 77.2300, EstimatedFee: 100, DurationHours: 1.5, Category: "art"},
		{Name: "Science Center", Lat: 28.5900, Lng: 77.1700, EstimatedFee: 200, DurationHours: 2.0, Category: "science"},
	}
}
