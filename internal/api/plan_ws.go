package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DD2507/Tripster/internal/trip"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

type wsStageMessage struct {
	Type   string `json:"type"`
	Stage  string `json:"stage,omitempty"`
	Detail any    `json:"detail,omitempty"`
}

// PlanStreamHandler handles GET /v1/trips/plan/ws. The client sends one
// plan request as JSON and receives each planning stage as it completes,
// then the final itinerary.
func (s *Server) PlanStreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var in planRequestIn
	if err := conn.ReadJSON(&in); err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "invalid request payload"})
		return
	}
	req := in.normalize()
	if err := validatePlanRequest(req); err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": err.Error()})
		return
	}

	username := s.principal(r)
	if username == "" {
		username = "guest"
	}

	progress := func(stage string, detail any) {
		_ = conn.WriteJSON(wsStageMessage{Type: "stage", Stage: stage, Detail: detail})
	}

	it, err := s.Planner.Generate(r.Context(), req, username, progress)
	if err != nil {
		var tooLow *trip.BudgetTooLowError
		if errors.As(err, &tooLow) {
			_ = conn.WriteJSON(map[string]any{
				"type":           "error",
				"code":           "budget_too_low",
				"message":        tooLow.Message,
				"minimum_budget": tooLow.Minimum,
			})
			return
		}
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": err.Error()})
		return
	}
	if it.ID != "" {
		it.ShareURL = shareURL(r, "/v1/itineraries/"+it.ID)
	}
	_ = conn.WriteJSON(map[string]any{"type": "itinerary", "itinerary": it})
}
