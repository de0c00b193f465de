// ABOUTME: Core plugin interface for admin models.
// ABOUTME: Each plugin contributes one model, its list columns, and its actions.

package core

import (
	"context"
	"database/sql"

	"github.com/2389/actionadmin/actions"
	"github.com/2389/actionadmin/internal/seed"
)

// Plugin defines the interface that every admin model plugin must implement
type Plugin interface {
	// Metadata
	Name() string
	Meta() ModelMeta
	Health() HealthStatus

	// Admin UI
	Schema() ModelSchema
	Actions() actions.Table

	// Data access
	Objects() ObjectStore

	// Data Generation
	Seed(ctx context.Context, size string) (SeedData, error)
}

// DatabasePlugin is implemented by plugins that keep their own tables
type DatabasePlugin interface {
	SetDB(db *sql.DB) error
}

// GeneratorPlugin is implemented by plugins that seed from generated data
type GeneratorPlugin interface {
	SetGenerator(g *seed.Generator)
}

// ModelMeta names a model the way routes and templates refer to it
type ModelMeta struct {
	AppLabel          string // "support"
	ModelName         string // "ticket"
	VerboseName       string // "ticket"
	VerboseNamePlural string // "tickets"
}

// Plural returns VerboseNamePlural, falling back to VerboseName + "s"
func (m ModelMeta) Plural() string {
	if m.VerboseNamePlural != "" {
		return m.VerboseNamePlural
	}
	name := m.VerboseName
	if name == "" {
		name = m.ModelName
	}
	return name + "s"
}

// HealthStatus represents plugin health
type HealthStatus struct {
	Status  string // "healthy", "degraded", "unavailable"
	Message string
}

// SeedData represents data generation results
type SeedData struct {
	Summary string         // Human-readable summary
	Records map[string]int // Resource counts: {"tickets": 12}
}
