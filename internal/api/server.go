package api

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/DD2507/Tripster/internal/auth"
	"github.com/DD2507/Tripster/internal/places"
	"github.com/DD2507/Tripster/internal/store"
	"github.com/DD2507/Tripster/internal/trip"
)

type Server struct {
	Store   store.Store
	Auth    *auth.Authenticator
	Planner *trip.Planner
	Log     *log.Logger
}

// NewServer creates a Server. If DATABASE_URL is unset, uses in-memory store.
func NewServer() (*Server, error) {
	logger := log.Default()

	dsn := os.Getenv("DATABASE_URL")
	var s store.Store
	if strings.TrimSpace(dsn) == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(dsn)
		if err != nil {
			return nil, err
		}
		s = sp
	}

	var pc *places.Client
	if c := places.NewFromEnv(); c.Enabled() {
		pc = c
	} else {
		logger.Printf("place lookups disabled, serving from the embedded catalog only")
	}

	return &Server{
		Store:   s,
		Auth:    auth.NewFromEnv(),
		Planner: trip.NewPlanner(s, pc, logger),
		Log:     logger,
	}, nil
}

// principal returns the authenticated username, or "" for guests and
// invalid tokens. Planning stays open to guests.
func (s *Server) principal(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	p, err := s.Auth.Verify(strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		return ""
	}
	return p.Username
}
