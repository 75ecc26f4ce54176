package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DD2507/Tripster/internal/buildinfo"
	"github.com/DD2507/Tripster/internal/store"
	"github.com/DD2507/Tripster/internal/trip"
)

// PlanHandler handles POST /v1/trips/plan. Works for guests; a valid
// bearer token attaches the caller's username to the itinerary.
func (s *Server) PlanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in planRequestIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	req := in.normalize()
	if err := validatePlanRequest(req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid plan request", err.Error(), r.URL.Path)
		return
	}

	username := s.principal(r)
	if username == "" {
		username = "guest"
	}

	it, err := s.Planner.Generate(r.Context(), req, username, nil)
	if err != nil {
		var tooLow *trip.BudgetTooLowError
		if errors.As(err, &tooLow) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"type":           "about:blank",
				"title":          "Budget too low",
				"status":         http.StatusUnprocessableEntity,
				"detail":         tooLow.Message,
				"instance":       r.URL.Path,
				"trip_title":     tooLow.Title,
				"minimum_budget": tooLow.Minimum,
			})
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Plan generation failed", err.Error(), r.URL.Path)
		return
	}
	if it.ID != "" {
		it.ShareURL = shareURL(r, "/v1/itineraries/"+it.ID)
	}
	writeJSON(w, http.StatusOK, it)
}

// ItinerariesHandler handles GET /v1/itineraries. With ?mine=true and a
// valid token the listing narrows to the caller's itineraries.
func (s *Server) ItinerariesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	username := ""
	if r.URL.Query().Get("mine") == "true" {
		username = s.principal(r)
		if username == "" {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "valid bearer token required for mine=true", r.URL.Path)
			return
		}
	}
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, next, err := s.Store.ListItineraries(r.Context(), username, cursor, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List itineraries failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// ItineraryByIDHandler handles GET /v1/itineraries/{id}.
func (s *Server) ItineraryByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/itineraries/")
	if id == "" || strings.Contains(id, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	s.serveItinerary(w, r, id)
}

func (s *Server) serveItinerary(w http.ResponseWriter, r *http.Request, id string) {
	it, err := s.Store.GetItinerary(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Itinerary not found", "", r.URL.Path)
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Get itinerary failed", err.Error(), r.URL.Path)
		return
	}
	it.ShareURL = shareURL(r, "/v1/itineraries/"+it.ID)
	writeJSON(w, http.StatusOK, it)
}

// PlanTripLegacyHandler handles POST /plan-trip, the pre-v1 planning
// route older clients still call.
func (s *Server) PlanTripLegacyHandler(w http.ResponseWriter, r *http.Request) {
	s.PlanHandler(w, r)
}

// ItineraryLegacyHandler handles GET /itinerary/{id}.
func (s *Server) ItineraryLegacyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/itinerary/")
	if id == "" || strings.Contains(id, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	s.serveItinerary(w, r, id)
}

// HealthHandler handles /healthz.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "build": buildinfo.Info()})
}

// ReadyHandler handles /readyz.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Not ready", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func shareURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
