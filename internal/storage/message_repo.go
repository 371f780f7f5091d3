package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// MessageRepo provides methods for transcript message operations. Only
// insert and list exist: the transcript is append-only.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo creates a new MessageRepo.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Insert appends a message to the session transcript with a generated UUID.
func (r *MessageRepo) Insert(ctx context.Context, sessionID, role, content string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (id, session_id, role, content) VALUES (?, ?, ?, ?)",
		uuid.New().String(), sessionID, role, content,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListBySession returns all messages for a session ordered by insertion.
func (r *MessageRepo) ListBySession(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY rowid",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var messages []Message
	for rows.Next() {
		var m Message
		var createdAtStr string
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.CreatedAt, err = parseTimestamp(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}
