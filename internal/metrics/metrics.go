package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// PlansGenerated counts itinerary generations by outcome
	PlansGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plans_generated_total", Help: "Itinerary generations by outcome."},
		[]string{"outcome"},
	)
	// PlanDuration tracks end-to-end plan generation time in seconds
	PlanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "plan_duration_seconds", Help: "Itinerary generation duration in seconds.", Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}},
	)

	// PlacesRequests counts outbound place-lookup requests by endpoint
	PlacesRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "places_requests_total", Help: "Outbound place lookup requests by endpoint."},
		[]string{"endpoint"},
	)
	// PlacesCacheHits counts lookups served from cache
	PlacesCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "places_cache_hits_total", Help: "Place lookups served from cache."},
	)
)

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(PlansGenerated)
		Registry.MustRegister(PlanDuration)
		Registry.MustRegister(PlacesRequests)
		Registry.MustRegister(PlacesCacheHits)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
