package store

import (
	"context"
	"errors"

	"github.com/DD2507/Tripster/internal/model"
)

// ErrNotFound is returned for lookups of IDs that do not exist.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when a unique constraint is violated.
var ErrDuplicate = errors.New("store: duplicate")

// Store is the persistence interface used by the API server.
type Store interface {
	// Itineraries
	SaveItinerary(ctx context.Context, it model.Itinerary) (id string, err error)
	GetItinerary(ctx context.Context, id string) (model.Itinerary, error)
	ListItineraries(ctx context.Context, username, cursor string, limit int) (items []model.ItinerarySummary, nextCursor string, err error)

	// Users
	CreateUser(ctx context.Context, username, email, passwordHash string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)

	Ping(ctx context.Context) error
}
