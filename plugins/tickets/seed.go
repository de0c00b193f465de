// ABOUTME: Test data seeding for the tickets plugin
// ABOUTME: Inserts generated tickets and spreads them across statuses

package tickets

import (
	"context"
	"fmt"

	"github.com/2389/actionadmin/internal/seed"
	"github.com/2389/actionadmin/plugins/core"
)

func (p *TicketsPlugin) Seed(ctx context.Context, size string) (core.SeedData, error) {
	if p.store == nil {
		return core.SeedData{}, fmt.Errorf("tickets plugin has no database")
	}

	var count int
	switch size {
	case "medium":
		count = 20
	case "large":
		count = 60
	default:
		count = 5
	}

	gen := p.generator
	if gen == nil {
		gen = seed.NewGenerator("", "")
	}
	data, err := gen.GenerateTickets(ctx, count)
	if err != nil {
		return core.SeedData{}, err
	}

	var resolved, hidden int
	for i, d := range data {
		t, err := p.store.CreateTicket(d.Subject, d.Requester, d.Body, d.Priority)
		if err != nil {
			return core.SeedData{}, err
		}
		// Every fourth ticket is resolved and every seventh hidden
		if i%4 == 3 {
			if err := p.store.SetStatus(t.ID, StatusResolved); err != nil {
				return core.SeedData{}, err
			}
			resolved++
		}
		if i%7 == 6 {
			if err := p.store.SetHidden(t.ID, true); err != nil {
				return core.SeedData{}, err
			}
			hidden++
		}
	}

	return core.SeedData{
		Summary: fmt.Sprintf("Created %d tickets (%d resolved, %d hidden)", len(data), resolved, hidden),
		Records: map[string]int{"tickets": len(data)},
	}, nil
}
