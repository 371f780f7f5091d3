package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// SessionRepo provides methods for session operations.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create mints a new session with a generated UUID and returns its ID.
func (r *SessionRepo) Create(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (id) VALUES (?)", id,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// Ensure makes sure a session with the given ID exists, creating it if
// needed. Client-supplied IDs for unknown sessions are accepted as new
// sessions.
func (r *SessionRepo) Ensure(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (id) VALUES (?) ON CONFLICT (id) DO NOTHING", id,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure session: %w", err)
	}
	return nil
}

// Get returns the session with the given ID, or ErrNotFound.
func (r *SessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	var session Session
	var createdAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, created_at FROM sessions WHERE id = ?", id,
	).Scan(&session.ID, &createdAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}

	return &session, nil
}

// parseTimestamp parses a SQLite DATETIME column value. SQLite stores
// CURRENT_TIMESTAMP as "2006-01-02 15:04:05" but drivers may return RFC3339.
func parseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", raw)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
