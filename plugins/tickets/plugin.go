// ABOUTME: Support tickets plugin for the admin site
// ABOUTME: Demonstrates row, list, and detail actions with visibility rules and a confirmation form

package tickets

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/2389/actionadmin/actions"
	"github.com/2389/actionadmin/internal/seed"
	"github.com/2389/actionadmin/plugins/core"
)

func init() {
	core.Register(New())
}

// TicketsPlugin serves the support.ticket model
type TicketsPlugin struct {
	store     *TicketStore
	generator *seed.Generator
	table     actions.Table
}

var (
	_ core.Plugin          = (*TicketsPlugin)(nil)
	_ core.DatabasePlugin  = (*TicketsPlugin)(nil)
	_ core.GeneratorPlugin = (*TicketsPlugin)(nil)
	_ core.ObjectStore     = (*TicketsPlugin)(nil)
)

// New creates an unconnected tickets plugin; call SetDB before serving
func New() *TicketsPlugin {
	p := &TicketsPlugin{}
	p.table = p.buildActions()
	return p
}

func (p *TicketsPlugin) Name() string {
	return "tickets"
}

func (p *TicketsPlugin) Meta() core.ModelMeta {
	return core.ModelMeta{
		AppLabel:          "support",
		ModelName:         "ticket",
		VerboseName:       "ticket",
		VerboseNamePlural: "tickets",
	}
}

func (p *TicketsPlugin) Health() core.HealthStatus {
	if p.store == nil {
		return core.HealthStatus{Status: "unavailable", Message: "Database not connected"}
	}
	count, err := p.store.CountTickets()
	if err != nil {
		return core.HealthStatus{Status: "degraded", Message: err.Error()}
	}
	return core.HealthStatus{Status: "healthy", Message: fmt.Sprintf("%d tickets", count)}
}

func (p *TicketsPlugin) Schema() core.ModelSchema {
	return core.ModelSchema{Columns: []core.Column{
		{Name: "id", Display: "ID", Value: ticketField(func(t *Ticket) string { return strconv.FormatInt(t.ID, 10) })},
		{Name: "subject", Value: ticketField(func(t *Ticket) string { return t.Subject })},
		{Name: "requester", Value: ticketField(func(t *Ticket) string { return t.Requester })},
		{Name: "status", Value: ticketField(func(t *Ticket) string { return t.Status })},
		{Name: "priority", Value: ticketField(func(t *Ticket) string { return t.Priority })},
		{Name: "hidden", Value: ticketField(func(t *Ticket) string { return yesNo(t.Hidden) })},
		{Name: "escalation_reason", Value: ticketField(func(t *Ticket) string { return t.EscalationReason })},
		{Name: "created_at", Display: "Created", Value: ticketField(func(t *Ticket) string { return t.CreatedAt.Format("2006-01-02 15:04") })},
	}}
}

func ticketField(fn func(t *Ticket) string) func(obj actions.Object) string {
	return func(obj actions.Object) string {
		t, ok := obj.(*Ticket)
		if !ok {
			return ""
		}
		return fn(t)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (p *TicketsPlugin) Actions() actions.Table {
	return p.table
}

func (p *TicketsPlugin) Objects() core.ObjectStore {
	if p.store == nil {
		return nil
	}
	return p
}

func (p *TicketsPlugin) ListObjects(ctx context.Context, opts core.ListOptions) ([]actions.Object, error) {
	tickets, err := p.store.ListTickets(opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	objs := make([]actions.Object, len(tickets))
	for i, t := range tickets {
		objs[i] = t
	}
	return objs, nil
}

func (p *TicketsPlugin) GetObject(ctx context.Context, pk int64) (actions.Object, error) {
	t, err := p.store.GetTicket(pk)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (p *TicketsPlugin) SetDB(db *sql.DB) error {
	store, err := NewTicketStore(db)
	if err != nil {
		return err
	}
	p.store = store
	return nil
}

func (p *TicketsPlugin) SetGenerator(g *seed.Generator) {
	p.generator = g
}
