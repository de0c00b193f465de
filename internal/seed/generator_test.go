// ABOUTME: Tests for the ticket generator's static fallback.
// ABOUTME: No network access: generators are built without an API key.

package seed

import (
	"context"
	"slices"
	"testing"
)

func TestGenerateTickets_Static(t *testing.T) {
	g := NewGenerator("", "")
	if g.UsesAI() {
		t.Fatal("generator without key uses AI")
	}
	if g.model != DefaultModel {
		t.Errorf("model = %q, want %q", g.model, DefaultModel)
	}

	tests := []struct {
		name  string
		count int
	}{
		{"none", 0},
		{"few", 3},
		{"more than the static list", len(staticTickets) + 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets, err := g.GenerateTickets(context.Background(), tt.count)
			if err != nil {
				t.Fatalf("GenerateTickets() error = %v", err)
			}
			if len(tickets) != tt.count {
				t.Fatalf("got %d tickets, want %d", len(tickets), tt.count)
			}
			seen := make(map[string]bool)
			for _, ticket := range tickets {
				if seen[ticket.Subject] {
					t.Errorf("duplicate subject %q", ticket.Subject)
				}
				seen[ticket.Subject] = true
				if !slices.Contains(Priorities, ticket.Priority) {
					t.Errorf("unknown priority %q", ticket.Priority)
				}
			}
		})
	}
}

func TestNormalizePriority(t *testing.T) {
	tests := map[string]string{
		"urgent":   "urgent",
		"low":      "low",
		"critical": "normal",
		"":         "normal",
	}
	for in, want := range tests {
		if got := normalizePriority(in); got != want {
			t.Errorf("normalizePriority(%q) = %q, want %q", in, got, want)
		}
	}
}
