// ABOUTME: Action declarations for admin list, row, and detail buttons.
// ABOUTME: An Action is a registration record; Invoke turns its result into navigation.

package actions

import (
	"fmt"
	"net/http"
	"strings"
	"unicode"
)

// Func is the business logic of an action. pk is the target object's primary
// key, or 0 for list actions. A non-nil handler is an explicit response and is
// served as-is; a nil handler lets Invoke redirect.
type Func func(v View, r *http.Request, pk int64) (http.Handler, error)

// Action describes one admin button.
type Action struct {
	// ID identifies the action in URLs and route names ("mark_paid").
	ID string

	// Title is the button label. Defaults to the humanized ID.
	Title string

	// Row places the action in the right-most column of every list row.
	Row bool
	// List places the action on the list page.
	List bool
	// Detail places the action on the object's change page.
	Detail bool

	// ShowMessage emits a success notification after the action runs.
	ShowMessage bool

	// Visible decides per request whether the button is shown.
	Visible VisibleFunc

	Func Func
}

// Option configures an Action built with New.
type Option func(*Action)

// Row places the action on every list row.
func Row() Option { return func(a *Action) { a.Row = true } }

// List places the action on the list page.
func List() Option { return func(a *Action) { a.List = true } }

// Detail places the action on the change page.
func Detail() Option { return func(a *Action) { a.Detail = true } }

// Name overrides the button label.
func Name(title string) Option { return func(a *Action) { a.Title = title } }

// ShowMessage toggles the success notification.
func ShowMessage(show bool) Option { return func(a *Action) { a.ShowMessage = show } }

// Visible sets the visibility predicate.
func Visible(fn VisibleFunc) Option { return func(a *Action) { a.Visible = fn } }

// New declares an action. Without Row, List, or Detail the action is
// registered nowhere.
func New(id string, fn Func, opts ...Option) Action {
	a := Action{
		ID:          id,
		ShowMessage: true,
		Visible:     AlwaysVisible,
		Func:        fn,
	}
	for _, opt := range opts {
		opt(&a)
	}
	if a.Title == "" {
		a.Title = Humanize(id)
	}
	if a.Visible == nil {
		a.Visible = AlwaysVisible
	}
	return a
}

// Placed reports whether the action has at least one placement.
func (a Action) Placed() bool {
	return a.Row || a.List || a.Detail
}

// NeedsObject reports whether the action is routed with a primary key.
func (a Action) NeedsObject() bool {
	return a.Row || a.Detail
}

// SuccessMessage is the notification emitted after a successful run.
func (a Action) SuccessMessage() string {
	return fmt.Sprintf(`Action "%s" successfully executed`, a.Title)
}

// Invoke runs the action and resolves its navigation result. Errors from Func
// are returned unchanged and suppress the notification.
func (a Action) Invoke(v View, r *http.Request, pk int64) (http.Handler, error) {
	result, err := a.Func(v, r, pk)
	if err != nil {
		return nil, err
	}

	if a.ShowMessage {
		v.MessageUser(r, a.SuccessMessage())
	}

	if result != nil {
		return result, nil
	}

	if pk != 0 {
		return http.RedirectHandler(v.ObjectURL(pk), http.StatusFound), nil
	}
	return http.RedirectHandler(v.ListURL(), http.StatusFound), nil
}

// Humanize turns an identifier into a label: "mark_paid" and "markPaid"
// both become "Mark paid".
func Humanize(id string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range id {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(unicode.ToLower(r))
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}

	s := strings.Join(strings.Fields(b.String()), " ")
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
