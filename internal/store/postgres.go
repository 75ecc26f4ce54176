package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/DD2507/Tripster/internal/model"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	p := &Postgres{db: db}
	if err := p.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS itineraries (
			id UUID PRIMARY KEY,
			username TEXT,
			title TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS itineraries_username_idx ON itineraries (username)`,
	}
	for _, s := range stmts {
		if _, err := p.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("store: ensure schema: %w", err)
		}
	}
	return nil
}

// SaveItinerary stores the rendered payload verbatim as JSONB.
func (p *Postgres) SaveItinerary(ctx context.Context, it model.Itinerary) (string, error) {
	id := uuid.New().String()
	it.ID = id
	payload, err := json.Marshal(it)
	if err != nil {
		return "", err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO itineraries (id, username, title, payload) VALUES ($1,$2,$3,$4)`,
		id, nullIfEmpty(it.Username), it.Title, payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) GetItinerary(ctx context.Context, id string) (model.Itinerary, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Itinerary{}, ErrNotFound
	}
	var payload []byte
	err := p.db.QueryRowContext(ctx, `SELECT payload FROM itineraries WHERE id=$1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Itinerary{}, ErrNotFound
	}
	if err != nil {
		return model.Itinerary{}, err
	}
	var it model.Itinerary
	if err := json.Unmarshal(payload, &it); err != nil {
		return model.Itinerary{}, err
	}
	it.ID = id
	return it, nil
}

func (p *Postgres) ListItineraries(ctx context.Context, username, cursor string, limit int) ([]model.ItinerarySummary, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	// Cursor is the last seen id text.
	var rows *sql.Rows
	var err error
	if username != "" {
		if cursor != "" {
			rows, err = p.db.QueryContext(ctx, `SELECT id::text, title, COALESCE(username,'') FROM itineraries WHERE username=$1 AND id::text > $2 ORDER BY id LIMIT $3`, username, cursor, limit)
		} else {
			rows, err = p.db.QueryContext(ctx, `SELECT id::text, title, COALESCE(username,'') FROM itineraries WHERE username=$1 ORDER BY id LIMIT $2`, username, limit)
		}
	} else {
		if cursor != "" {
			rows, err = p.db.QueryContext(ctx, `SELECT id::text, title, COALESCE(username,'') FROM itineraries WHERE id::text > $1 ORDER BY id LIMIT $2`, cursor, limit)
		} else {
			rows, err = p.db.QueryContext(ctx, `SELECT id::text, title, COALESCE(username,'') FROM itineraries ORDER BY id LIMIT $1`, limit)
		}
	}
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	out := []model.ItinerarySummary{}
	for rows.Next() {
		var s model.ItinerarySummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Username); err != nil {
			return nil, "", err
		}
		out = append(out, s)
	}
	next := ""
	if len(out) == limit {
		next = out[len(out)-1].ID
	}
	return out, next, rows.Err()
}

func (p *Postgres) CreateUser(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	var existing string
	err := p.db.QueryRowContext(ctx, `SELECT id::text FROM users WHERE username=$1 OR email=$2`, username, email).Scan(&existing)
	if err == nil {
		return model.User{}, ErrDuplicate
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}
	id := uuid.New().String()
	_, err = p.db.ExecContext(ctx, `INSERT INTO users (id, username, email, password_hash) VALUES ($1,$2,$3,$4)`,
		id, username, email, passwordHash)
	if err != nil {
		return model.User{}, err
	}
	return model.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash}, nil
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := p.db.QueryRowContext(ctx, `SELECT id::text, username, email, password_hash FROM users WHERE username=$1`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
