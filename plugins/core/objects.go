// ABOUTME: Object access contract used by the admin views and actions.
// ABOUTME: Plugins implement ObjectStore over whatever storage they own.

package core

import (
	"context"
	"errors"

	"github.com/2389/actionadmin/actions"
)

// ErrNotFound is returned when an object does not exist
var ErrNotFound = errors.New("object not found")

// ObjectStore lists and fetches a model's objects
type ObjectStore interface {
	ListObjects(ctx context.Context, opts ListOptions) ([]actions.Object, error)
	GetObject(ctx context.Context, pk int64) (actions.Object, error)
}

// ListOptions provides pagination options for listing objects
type ListOptions struct {
	Limit  int
	Offset int
}
