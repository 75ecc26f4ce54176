package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/DD2507/Tripster/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu          sync.Mutex
	itineraries map[string]model.Itinerary // id -> itinerary
	order       []string                   // itinerary ids, insertion order
	users       map[string]model.User      // username -> user
	emails      map[string]bool            // email -> taken
}

func NewMemory() *Memory {
	return &Memory{
		itineraries: map[string]model.Itinerary{},
		users:       map[string]model.User{},
		emails:      map[string]bool{},
	}
}

func (m *Memory) SaveItinerary(ctx context.Context, it model.Itinerary) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	it.ID = id
	m.itineraries[id] = it
	m.order = append(m.order, id)
	return id, nil
}

func (m *Memory) GetItinerary(ctx context.Context, id string) (model.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.itineraries[id]
	if !ok {
		return model.Itinerary{}, ErrNotFound
	}
	return it, nil
}

func (m *Memory) ListItineraries(ctx context.Context, username, cursor string, limit int) ([]model.ItinerarySummary, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := 0
	if cursor != "" {
		for i, id := range m.order {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 {
		limit = 100
	}
	out := []model.ItinerarySummary{}
	next := ""
	for _, id := range m.order[start:] {
		it := m.itineraries[id]
		if username != "" && it.Username != username {
			continue
		}
		if len(out) == limit {
			next = out[len(out)-1].ID
			break
		}
		out = append(out, model.ItinerarySummary{ID: it.ID, Title: it.Title, Username: it.Username})
	}
	return out, next, nil
}

func (m *Memory) CreateUser(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[username]; exists {
		return model.User{}, ErrDuplicate
	}
	if m.emails[email] {
		return model.User{}, ErrDuplicate
	}
	u := model.User{ID: uuid.New().String(), Username: username, Email: email, PasswordHash: passwordHash}
	m.users[username] = u
	m.emails[email] = true
	return u, nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
