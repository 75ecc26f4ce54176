// Package places wraps the Google Geocoding and Places lookups the planner
// uses for destinations the embedded catalog does not cover. Every lookup
// is rate limited and cached; a missing API key disables lookups rather
// than failing plans.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/DD2507/Tripster/internal/metrics"
	"github.com/DD2507/Tripster/internal/model"
)

var (
	ErrDisabled = errors.New("places: disabled, no API key configured")
	ErrNotFound = errors.New("places: no results")
)

const (
	defaultGeocodingBase = "https://maps.googleapis.com/maps/api/geocode"
	defaultPlacesBase    = "https://places.googleapis.com/v1"

	fieldMask = "places.id,places.displayName,places.formattedAddress,places.location,places.types,places.rating,places.userRatingCount,places.priceLevel"

	maxAttractionResults = 40
	cacheTTL             = 15 * time.Minute
)

type Client struct {
	httpc   *http.Client
	limiter *rate.Limiter
	cache   Cache

	mapsKey   string
	placesKey string

	geocodingBase string
	placesBase    string
}

// NewFromEnv builds a client from GOOGLE_MAPS_API_KEY,
// GOOGLE_PLACES_API_KEY, PLACES_RATE_QPS and REDIS_URL. The places key
// falls back to the maps key.
func NewFromEnv() *Client {
	mapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	placesKey := os.Getenv("GOOGLE_PLACES_API_KEY")
	if placesKey == "" {
		placesKey = mapsKey
	}

	qps := 5.0
	if v := os.Getenv("PLACES_RATE_QPS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			qps = parsed
		}
	}

	var cache Cache = NewMemoryCache()
	if os.Getenv("REDIS_URL") != "" {
		if rc, err := NewRedisCache(); err == nil {
			cache = rc
		}
	}

	return &Client{
		httpc:         &http.Client{Timeout: 15 * time.Second},
		limiter:       rate.NewLimiter(rate.Limit(qps), int(qps)+1),
		cache:         cache,
		mapsKey:       mapsKey,
		placesKey:     placesKey,
		geocodingBase: defaultGeocodingBase,
		placesBase:    defaultPlacesBase,
	}
}

// NewClient builds a client against explicit endpoints, used by tests.
func NewClient(httpc *http.Client, mapsKey, placesKey, geocodingBase, placesBase string) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		httpc:         httpc,
		limiter:       rate.NewLimiter(rate.Inf, 1),
		cache:         NewMemoryCache(),
		mapsKey:       mapsKey,
		placesKey:     placesKey,
		geocodingBase: geocodingBase,
		placesBase:    placesBase,
	}
}

// Enabled reports whether live lookups are configured.
func (c *Client) Enabled() bool { return c.placesKey != "" || c.mapsKey != "" }

// Geocode resolves a free-form place name to coordinates.
func (c *Client) Geocode(ctx context.Context, place string) (model.Place, error) {
	if c.mapsKey == "" {
		return model.Place{}, ErrDisabled
	}

	cacheKey := "geocode:" + strings.ToLower(strings.TrimSpace(place))
	var out model.Place
	if c.cacheGet(ctx, cacheKey, &out) {
		return out, nil
	}

	q := url.Values{}
	q.Set("address", place)
	q.Set("key", c.mapsKey)
	var body struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			PlaceID          string `json:"place_id"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, c.geocodingBase+"/json?"+q.Encode(), &body); err != nil {
		return model.Place{}, err
	}
	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		return model.Place{}, fmt.Errorf("places: geocoding status %s", body.Status)
	}
	if len(body.Results) == 0 {
		return model.Place{}, ErrNotFound
	}

	first := body.Results[0]
	out = model.Place{
		Name:             first.FormattedAddress,
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
		PlaceID:          first.PlaceID,
	}
	c.cachePut(ctx, cacheKey, out)
	return out, nil
}

// SearchAttractions looks up tourist spots around the destination center,
// most popular first, broadening with a text search when the nearby pass
// is sparse. Entries whose types carry nothing attraction-like are
// filtered out.
func (c *Client) SearchAttractions(ctx context.Context, destination string, lat, lng float64) ([]model.Place, error) {
	if c.placesKey == "" {
		return nil, ErrDisabled
	}

	cacheKey := fmt.Sprintf("attractions:%s:%.4f:%.4f", strings.ToLower(destination), lat, lng)
	var cached []model.Place
	if c.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	items, err := c.searchNearby(ctx, lat, lng, 10000, []string{"tourist_attraction", "park", "museum", "landmark"}, "POPULARITY", maxAttractionResults)
	if err != nil {
		return nil, err
	}

	if len(items) < maxAttractionResults/2 {
		more, err := c.searchText(ctx, "things to do in "+destination, &lat, &lng, 15000, "", maxAttractionResults)
		if err == nil {
			seen := make(map[string]bool, len(items))
			for _, it := range items {
				seen[it.Name] = true
			}
			for _, it := range more {
				if !seen[it.Name] {
					items = append(items, it)
					seen[it.Name] = true
				}
			}
		}
	}

	out := make([]model.Place, 0, len(items))
	for _, it := range items {
		if isAttraction(it.Types) {
			out = append(out, it)
		}
	}
	if len(out) > maxAttractionResults {
		out = out[:maxAttractionResults]
	}
	c.cachePut(ctx, cacheKey, out)
	return out, nil
}

var attractionTypes = map[string]bool{
	"tourist_attraction": true, "park": true, "museum": true, "landmark": true,
	"point_of_interest": true, "zoo": true, "aquarium": true, "art_gallery": true,
	"amusement_park": true, "natural_feature": true, "place_of_worship": true,
	"historic_site": true,
}

func isAttraction(types []string) bool {
	for _, t := range types {
		if attractionTypes[t] {
			return true
		}
	}
	return false
}

// SearchHotels finds lodging for the destination by text query, biased to
// the center when coordinates are known.
func (c *Client) SearchHotels(ctx context.Context, destination string, lat, lng *float64) ([]model.Place, error) {
	if c.placesKey == "" {
		return nil, ErrDisabled
	}
	cacheKey := "hotels:" + strings.ToLower(destination)
	var cached []model.Place
	if c.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}
	items, err := c.searchText(ctx, "hotels in "+destination, lat, lng, 12000, "lodging", 20)
	if err != nil {
		return nil, err
	}
	c.cachePut(ctx, cacheKey, items)
	return items, nil
}

// RestaurantQuery narrows a restaurant search.
type RestaurantQuery struct {
	Lat, Lng      float64
	RadiusM       int
	MinRating     float64
	MaxPriceLevel int
	VegOnly       bool
	MaxResults    int
}

// SearchRestaurants finds nearby restaurants passing the rating, price and
// veg filters, best rated first with review count as tie-break. A place
// with no known price level passes the price filter.
func (c *Client) SearchRestaurants(ctx context.Context, q RestaurantQuery) ([]model.Place, error) {
	if c.placesKey == "" {
		return nil, ErrDisabled
	}
	if q.RadiusM <= 0 {
		q.RadiusM = 3000
	}
	if q.MaxResults <= 0 {
		q.MaxResults = 20
	}

	items, err := c.searchNearby(ctx, q.Lat, q.Lng, q.RadiusM, []string{"restaurant"}, "POPULARITY", 20)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Place, 0, len(items))
	for _, it := range items {
		rating := 0.0
		if it.Rating != nil {
			rating = *it.Rating
		}
		if rating < q.MinRating {
			continue
		}
		if it.PriceLevel != nil && *it.PriceLevel > q.MaxPriceLevel {
			continue
		}
		if q.VegOnly && !looksVegetarian(it.Name) {
			continue
		}
		filtered = append(filtered, it)
	}

	sort.SliceStable(filtered, func(a, b int) bool {
		ra, rb := 0.0, 0.0
		if filtered[a].Rating != nil {
			ra = *filtered[a].Rating
		}
		if filtered[b].Rating != nil {
			rb = *filtered[b].Rating
		}
		if ra != rb {
			return ra > rb
		}
		return filtered[a].UserRatingsTotal > filtered[b].UserRatingsTotal
	})
	if len(filtered) > q.MaxResults {
		filtered = filtered[:q.MaxResults]
	}
	return filtered, nil
}

var vegKeywords = []string{"veg", "vegetarian", "pure veg", "shakahari", "plant-based"}

func looksVegetarian(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range vegKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// --- Places API (New) transport ---

type newPlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Types           []string `json:"types"`
	Rating          *float64 `json:"rating"`
	UserRatingCount int      `json:"userRatingCount"`
	PriceLevel      string   `json:"priceLevel"`
}

var priceLevelValues = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

func normalizePlaces(raw []newPlace) []model.Place {
	out := make([]model.Place, 0, len(raw))
	for _, p := range raw {
		if p.DisplayName.Text == "" || (p.Location.Latitude == 0 && p.Location.Longitude == 0) {
			continue
		}
		item := model.Place{
			Name:             p.DisplayName.Text,
			Lat:              p.Location.Latitude,
			Lng:              p.Location.Longitude,
			Types:            p.Types,
			Rating:           p.Rating,
			UserRatingsTotal: p.UserRatingCount,
			FormattedAddress: p.FormattedAddress,
			PlaceID:          strings.TrimPrefix(p.ID, "places/"),
		}
		if lvl, ok := priceLevelValues[p.PriceLevel]; ok {
			lvl := lvl
			item.PriceLevel = &lvl
		}
		out = append(out, item)
	}
	return out
}

func (c *Client) searchNearby(ctx context.Context, lat, lng float64, radiusM int, includedTypes []string, rank string, maxResults int) ([]model.Place, error) {
	if maxResults > 20 {
		maxResults = 20
	}
	body := map[string]any{
		"maxResultCount": maxResults,
		"rankPreference": rank,
		"locationRestriction": map[string]any{
			"circle": map[string]any{
				"center": map[string]any{"latitude": lat, "longitude": lng},
				"radius": radiusM,
			},
		},
	}
	if len(includedTypes) > 0 {
		body["includedTypes"] = includedTypes
	}
	return c.postPlaces(ctx, "/places:searchNearby", body)
}

func (c *Client) searchText(ctx context.Context, query string, lat, lng *float64, radiusM int, includedType string, maxResults int) ([]model.Place, error) {
	if maxResults > 20 {
		maxResults = 20
	}
	body := map[string]any{
		"textQuery":      query,
		"maxResultCount": maxResults,
	}
	if lat != nil && lng != nil {
		body["locationBias"] = map[string]any{
			"circle": map[string]any{
				"center": map[string]any{"latitude": *lat, "longitude": *lng},
				"radius": radiusM,
			},
		}
	}
	if includedType != "" {
		body["includedType"] = includedType
	}
	return c.postPlaces(ctx, "/places:searchText", body)
}

func (c *Client) postPlaces(ctx context.Context, path string, body map[string]any) ([]model.Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.placesBase+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.placesKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	metrics.PlacesRequests.WithLabelValues(path).Inc()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places: %s: http %d", path, resp.StatusCode)
	}

	var out struct {
		Places []newPlace `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("places: %s: decode: %w", path, err)
	}
	return normalizePlaces(out.Places), nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	metrics.PlacesRequests.WithLabelValues("geocode").Inc()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("places: geocode: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places: geocode: http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// --- cache helpers ---

func (c *Client) cacheGet(ctx context.Context, key string, out any) bool {
	if c.cache == nil {
		return false
	}
	data, ok := c.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false
	}
	metrics.PlacesCacheHits.Inc()
	return true
}

func (c *Client) cachePut(ctx context.Context, key string, v any) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.cache.Set(ctx, key, data, cacheTTL)
}
