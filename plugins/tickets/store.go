// ABOUTME: Database layer for the tickets plugin
// ABOUTME: Manages the support_tickets table and the state changes actions perform

package tickets

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/2389/actionadmin/plugins/core"
)

// Ticket statuses
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Ticket is a customer support request
type Ticket struct {
	ID               int64
	Subject          string
	Requester        string
	Body             string
	Status           string
	Priority         string
	Hidden           bool
	EscalationReason string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (t *Ticket) PrimaryKey() int64 { return t.ID }
func (t *Ticket) String() string    { return fmt.Sprintf("#%d %s", t.ID, t.Subject) }

// Resolved reports whether the ticket is closed
func (t *Ticket) Resolved() bool {
	return t.Status == StatusResolved
}

type TicketStore struct {
	db *sql.DB
}

func NewTicketStore(db *sql.DB) (*TicketStore, error) {
	store := &TicketStore{db: db}
	if err := store.initTables(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *TicketStore) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS support_tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject TEXT NOT NULL,
		requester TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'open',
		priority TEXT NOT NULL DEFAULT 'normal',
		hidden INTEGER NOT NULL DEFAULT 0,
		escalation_reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_support_tickets_hidden ON support_tickets(hidden);
	`
	_, err := s.db.Exec(schema)
	return err
}

const ticketColumns = `id, subject, requester, body, status, priority, hidden, escalation_reason, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*Ticket, error) {
	t := &Ticket{}
	err := row.Scan(&t.ID, &t.Subject, &t.Requester, &t.Body, &t.Status, &t.Priority,
		&t.Hidden, &t.EscalationReason, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTicket inserts an open ticket
func (s *TicketStore) CreateTicket(subject, requester, body, priority string) (*Ticket, error) {
	if priority == "" {
		priority = "normal"
	}
	result, err := s.db.Exec(`
		INSERT INTO support_tickets (subject, requester, body, priority)
		VALUES (?, ?, ?, ?)
	`, subject, requester, body, priority)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetTicket(id)
}

// GetTicket returns a ticket or core.ErrNotFound
func (s *TicketStore) GetTicket(id int64) (*Ticket, error) {
	t, err := scanTicket(s.db.QueryRow("SELECT "+ticketColumns+" FROM support_tickets WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ticket %d: %w", id, core.ErrNotFound)
	}
	return t, err
}

// ListTickets returns tickets newest first. A non-positive limit returns all.
func (s *TicketStore) ListTickets(limit, offset int) ([]*Ticket, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query("SELECT "+ticketColumns+" FROM support_tickets ORDER BY id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// CountTickets returns the number of stored tickets
func (s *TicketStore) CountTickets() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM support_tickets").Scan(&count)
	return count, err
}

func (s *TicketStore) update(id int64, query string, args ...any) error {
	result, err := s.db.Exec(query, append(args, id)...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("ticket %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// SetStatus moves a ticket to status
func (s *TicketStore) SetStatus(id int64, status string) error {
	return s.update(id, "UPDATE support_tickets SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", status)
}

// SetHidden sets the hidden flag. Hidden tickets stay listed until
// PurgeHidden deletes them.
func (s *TicketStore) SetHidden(id int64, hidden bool) error {
	return s.update(id, "UPDATE support_tickets SET hidden = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", hidden)
}

// Escalate raises the priority, records the reason, and reopens the ticket
func (s *TicketStore) Escalate(id int64, priority, reason string) error {
	return s.update(id, `
		UPDATE support_tickets
		SET priority = ?, escalation_reason = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, priority, reason, StatusOpen)
}

// PurgeHidden deletes every hidden ticket and returns how many were removed
func (s *TicketStore) PurgeHidden() (int64, error) {
	result, err := s.db.Exec("DELETE FROM support_tickets WHERE hidden = 1")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
