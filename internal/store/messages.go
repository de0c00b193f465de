// ABOUTME: Session-scoped user notifications shown once on the next admin page.
// ABOUTME: Messages are queued by actions and popped by the rendering views.

package store

import (
	"time"

	"github.com/google/uuid"
)

// Message levels
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Message is a notification queued for a session
type Message struct {
	ID        string
	SessionID string
	Level     string
	Body      string
	CreatedAt time.Time
}

// AddMessage queues a notification for a session and returns its ID
func (s *Store) AddMessage(sessionID, level, body string) (string, error) {
	if level == "" {
		level = LevelInfo
	}
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO messages (id, session_id, level, body)
		VALUES (?, ?, ?, ?)
	`, id, sessionID, level, body)
	if err != nil {
		return "", err
	}
	return id, nil
}

// PeekMessages returns queued notifications without consuming them
func (s *Store) PeekMessages(sessionID string) ([]*Message, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, level, body, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY created_at, rowid
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Level, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// PopMessages returns and deletes the queued notifications of a session
func (s *Store) PopMessages(sessionID string) ([]*Message, error) {
	msgs, err := s.PeekMessages(sessionID)
	if err != nil || len(msgs) == 0 {
		return msgs, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, m := range msgs {
		if _, err := tx.Exec("DELETE FROM messages WHERE id = ?", m.ID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msgs, nil
}
