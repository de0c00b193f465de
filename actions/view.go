// ABOUTME: The contract between actions and the model admin that owns them.
// ABOUTME: Defines View, Object, and the two-step Confirmation pattern.

package actions

import (
	"net/http"

	"github.com/2389/actionadmin/internal/forms"
)

// Object is a model instance shown in the admin.
type Object interface {
	PrimaryKey() int64
	String() string
}

// View is the owning model admin as seen from inside an action.
type View interface {
	// ObjectURL is the change page of the object with the given key.
	ObjectURL(pk int64) string
	// ListURL is the model's list page.
	ListURL() string
	// MessageUser queues a notification for the request's session.
	MessageUser(r *http.Request, msg string)
	// GetObject loads an object; a missing object yields core.ErrNotFound.
	GetObject(r *http.Request, pk int64) (Object, error)
	// Confirm runs the intermediate confirmation page flow.
	Confirm(r *http.Request, pk int64, c Confirmation) (http.Handler, error)
}

// ApplyField is the marker field a confirmation page submits with.
const ApplyField = "apply"

// Confirmation configures a two-step action: the first request renders Form,
// a submission carrying ApplyField is validated and, when valid, OnValid runs.
type Confirmation struct {
	// Action is the ID of the entrypoint action, used for the page title and
	// the form's post target.
	Action string

	// NewForm builds a fresh form. Defaults to an empty form.
	NewForm func(obj Object) forms.Form

	// OnValid runs once with the validated form. Its result becomes the
	// action's result.
	OnValid func(r *http.Request, f forms.Form, obj Object) (http.Handler, error)

	// Template overrides the page template. Defaults to "intermediate_action".
	Template string
}
