// ABOUTME: Schema definitions for admin list and detail rendering.
// ABOUTME: Plugins declare columns, the admin renders them.

package core

import "github.com/2389/actionadmin/actions"

// ModelSchema defines how a model is displayed
type ModelSchema struct {
	Columns []Column // list view columns, also shown on the change page
}

// Column defines one displayed field
type Column struct {
	Name    string                          // "subject"
	Display string                          // "Subject"
	Value   func(obj actions.Object) string // renders the cell
}
