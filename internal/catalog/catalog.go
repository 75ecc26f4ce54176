// Package catalog serves the embedded destination data: curated
// attractions, hotels and restaurants for destinations we know well, used
// before (and as a fallback for) live place lookups.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/DD2507/Tripster/internal/model"
)

//go:embed destinations.yaml
var destinationsYAML []byte

type file struct {
	Destinations []Destination `yaml:"destinations"`
}

// Destination is one curated destination record.
type Destination struct {
	Name        string       `yaml:"name"`
	Aliases     []string     `yaml:"aliases"`
	Center      Coordinates  `yaml:"center"`
	Attractions []Attraction `yaml:"attractions"`
	Hotels      []Hotel      `yaml:"hotels"`
	Restaurants []Restaurant `yaml:"restaurants"`
}

type Coordinates struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type Attraction struct {
	Name          string  `yaml:"name"`
	Lat           float64 `yaml:"lat"`
	Lng           float64 `yaml:"lng"`
	EstFee        float64 `yaml:"est_fee"`
	DurationHours float64 `yaml:"duration_hours"`
	Category      string  `yaml:"category"`
	Rating        float64 `yaml:"rating"`
}

type Hotel struct {
	Name          string  `yaml:"name"`
	PricePerNight float64 `yaml:"price_per_night"`
	Rating        float64 `yaml:"rating"`
	Area          string  `yaml:"area"`
}

type Restaurant struct {
	Name       string  `yaml:"name"`
	Rating     float64 `yaml:"rating"`
	PriceLevel int     `yaml:"price_level"`
	Veg        bool    `yaml:"veg"`
	Cuisine    string  `yaml:"cuisine"`
}

var (
	loadOnce sync.Once
	loaded   []Destination
	loadErr  error
)

func load() []Destination {
	loadOnce.Do(func() {
		var f file
		if err := yaml.Unmarshal(destinationsYAML, &f); err != nil {
			loadErr = fmt.Errorf("catalog: parse destinations.yaml: %w", err)
			return
		}
		loaded = f.Destinations
	})
	if loadErr != nil {
		// The asset is compiled in; a parse failure is a build defect.
		panic(loadErr)
	}
	return loaded
}

// Lookup finds a destination by name or alias, case-insensitively. The
// match ignores surrounding whitespace and a trailing ", india" qualifier.
func Lookup(name string) (*Destination, bool) {
	key := normalize(name)
	if key == "" {
		return nil, false
	}
	for i := range load() {
		d := &load()[i]
		if normalize(d.Name) == key {
			return d, true
		}
		for _, a := range d.Aliases {
			if normalize(a) == key {
				return d, true
			}
		}
	}
	return nil, false
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, ", india")
	return strings.TrimSpace(s)
}

// Points converts the destination's curated attractions into planner input.
func (d *Destination) Points() []model.PointOfInterest {
	out := make([]model.PointOfInterest, 0, len(d.Attractions))
	for _, a := range d.Attractions {
		a := a
		out = append(out, model.PointOfInterest{
			Name:          a.Name,
			Lat:           a.Lat,
			Lng:           a.Lng,
			EstimatedFee:  a.EstFee,
			DurationHours: a.DurationHours,
			Category:      a.Category,
			Rating:        &a.Rating,
		})
	}
	return out
}

// SelectHotel returns the best-rated hotel whose nightly price fits the
// budget, cheaper on rating ties. Nothing in budget returns nil.
func (d *Destination) SelectHotel(budgetPerNight float64) *Hotel {
	return pickHotel(d.Hotels, budgetPerNight, "")
}

// RestaurantPlaces returns the destination's curated restaurants as
// normalized places, best rated first. vegOnly narrows to vegetarian
// entries when any exist.
func (d *Destination) RestaurantPlaces(vegOnly bool) []model.Place {
	src := d.Restaurants
	if vegOnly {
		veg := make([]Restaurant, 0, len(src))
		for _, r := range src {
			if r.Veg {
				veg = append(veg, r)
			}
		}
		if len(veg) > 0 {
			src = veg
		}
	}

	out := make([]model.Place, 0, len(src))
	for _, r := range src {
		r := r
		out = append(out, model.Place{
			Name:       r.Name,
			Lat:        d.Center.Lat,
			Lng:        d.Center.Lng,
			Types:      []string{"restaurant", r.Cuisine},
			Rating:     &r.Rating,
			PriceLevel: &r.PriceLevel,
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return *out[a].Rating > *out[b].Rating
	})
	return out
}
