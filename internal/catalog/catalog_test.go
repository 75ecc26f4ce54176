package catalog

import "testing"

func TestLookupByNameAndAlias(t *testing.T) {
	for _, name := range []string{"delhi", "Delhi", "  NEW DELHI ", "Delhi, India"} {
		d, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) found nothing", name)
		}
		if d.Name != "delhi" {
			t.Fatalf("Lookup(%q) = %q", name, d.Name)
		}
	}
	if _, ok := Lookup("atlantis"); ok {
		t.Fatal("unknown destination resolved")
	}
	if _, ok := Lookup(""); ok {
		t.Fatal("empty destination resolved")
	}
}

func TestDestinationPoints(t *testing.T) {
	d, ok := Lookup("delhi")
	if !ok {
		t.Fatal("delhi missing from catalog")
	}
	pts := d.Points()
	if len(pts) == 0 {
		t.Fatal("no curated attractions")
	}
	for _, p := range pts {
		if !p.HasCoordinates() {
			t.Errorf("attraction %q lacks coordinates", p.Name)
		}
		if p.DurationHours <= 0 {
			t.Errorf("attraction %q has duration %v", p.Name, p.DurationHours)
		}
	}
}

func TestSelectHotelBudgetFilter(t *testing.T) {
	h := SelectHotel(2000, "")
	if h == nil {
		t.Fatal("no hotel for 2000/night")
	}
	if h.Name != "Backpacker Lodge" {
		t.Fatalf("got %q, want the only hotel under 2000", h.Name)
	}

	if h := SelectHotel(100, ""); h != nil {
		t.Fatalf("hotel %q selected despite impossible budget", h.Name)
	}

	// Unconstrained budget takes the best rated.
	h = SelectHotel(100000, "")
	if h == nil || h.Name != "Seaside View Hotel" {
		t.Fatalf("got %v, want best-rated hotel", h)
	}
}

func TestSelectHotelPreferredArea(t *testing.T) {
	h := SelectHotel(100000, "downtown")
	if h == nil || h.Area != "downtown" {
		t.Fatalf("got %v, want a downtown hotel", h)
	}
	// Area with no in-budget match falls back to the full pool.
	h = SelectHotel(100000, "moon base")
	if h == nil || h.Name != "Seaside View Hotel" {
		t.Fatalf("got %v, want best-rated fallback", h)
	}
}

func TestEstimateMinimumBudget(t *testing.T) {
	est := EstimateMinimumBudget(3, 2)
	// Cheapest hotel 1600/night, two cheapest meals 400+480 per person.
	if est.HotelMin != 1600*3 {
		t.Errorf("hotel min %v", est.HotelMin)
	}
	if est.FoodMin != 880*2*3 {
		t.Errorf("food min %v", est.FoodMin)
	}
	if est.TransportMin != 400*3 || est.ActivitiesMin != 300*3 {
		t.Errorf("buffers %v / %v", est.TransportMin, est.ActivitiesMin)
	}
	want := est.HotelMin + est.FoodMin + est.TransportMin + est.ActivitiesMin
	if est.TotalMin != want {
		t.Errorf("total %v, want %v", est.TotalMin, want)
	}
	if est.Assumptions.HotelUsed != "Backpacker Lodge" || est.Assumptions.MealsPerDay != 2 {
		t.Errorf("assumptions %+v", est.Assumptions)
	}

	// Degenerate shapes clamp, never panic.
	est = EstimateMinimumBudget(0, 0)
	if est.HotelMin != 1600 {
		t.Errorf("zero-day hotel min %v", est.HotelMin)
	}
}

func TestRestaurantPlacesVegFilter(t *testing.T) {
	d, _ := Lookup("delhi")
	all := d.RestaurantPlaces(false)
	veg := d.RestaurantPlaces(true)
	if len(veg) == 0 || len(veg) >= len(all) {
		t.Fatalf("veg filter returned %d of %d", len(veg), len(all))
	}
	for i := 1; i < len(all); i++ {
		if *all[i].Rating > *all[i-1].Rating {
			t.Fatal("restaurants not sorted best rated first")
		}
	}
}

func TestSampleAttractions(t *testing.T) {
	pts := SampleAttractions()
	if len(pts) != 6 {
		t.Fatalf("got %d sample attractions, want 6", len(pts))
	}
}
