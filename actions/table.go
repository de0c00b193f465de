// ABOUTME: Declarative, immutable table of a model's actions.
// ABOUTME: Built once at registration; rejects duplicate or malformed IDs.

package actions

import (
	"errors"
	"fmt"
	"log"
	"regexp"
)

var (
	// ErrDuplicateAction is returned when two actions share an ID.
	ErrDuplicateAction = errors.New("duplicate action id")
	// ErrInvalidID is returned for IDs that cannot appear in a URL path segment.
	ErrInvalidID = errors.New("invalid action id")
	// ErrMissingFunc is returned for actions declared without a Func.
	ErrMissingFunc = errors.New("action has no func")
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Table is an ordered set of actions keyed by ID. The zero value is empty.
type Table struct {
	actions []Action
	index   map[string]int
}

// NewTable validates and freezes the given actions in declaration order.
// Actions with no placement are kept but logged, since they are unreachable.
func NewTable(acts ...Action) (Table, error) {
	t := Table{
		actions: make([]Action, 0, len(acts)),
		index:   make(map[string]int, len(acts)),
	}
	for _, a := range acts {
		if !idPattern.MatchString(a.ID) {
			return Table{}, fmt.Errorf("%w: %q", ErrInvalidID, a.ID)
		}
		if a.Func == nil {
			return Table{}, fmt.Errorf("%w: %q", ErrMissingFunc, a.ID)
		}
		if _, exists := t.index[a.ID]; exists {
			return Table{}, fmt.Errorf("%w: %q", ErrDuplicateAction, a.ID)
		}
		if !a.Placed() {
			log.Printf("Warning: action %q has no row, list, or detail placement and will not be reachable", a.ID)
		}
		t.index[a.ID] = len(t.actions)
		t.actions = append(t.actions, a)
	}
	return t, nil
}

// MustTable is NewTable for package-level declarations; it panics on error.
func MustTable(acts ...Action) Table {
	t, err := NewTable(acts...)
	if err != nil {
		panic(err)
	}
	return t
}

// All returns a copy of the actions in declaration order.
func (t Table) All() []Action {
	out := make([]Action, len(t.actions))
	copy(out, t.actions)
	return out
}

// Get looks up an action by ID.
func (t Table) Get(id string) (Action, bool) {
	i, ok := t.index[id]
	if !ok {
		return Action{}, false
	}
	return t.actions[i], true
}

// Len returns the number of actions.
func (t Table) Len() int {
	return len(t.actions)
}
