package storage

import "time"

// Session represents one browser chat session in the database.
type Session struct {
	ID        string // UUID
	CreatedAt time.Time
}

// Message represents a single transcript entry. Transcripts are
// append-only: rows are inserted, never updated or deleted.
type Message struct {
	ID        string // UUID
	SessionID string // Foreign key to sessions.id
	Role      string // "user" or "bot"
	Content   string
	CreatedAt time.Time
}
