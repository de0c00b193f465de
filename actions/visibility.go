// ABOUTME: Visibility predicates deciding whether an action button is shown.
// ABOUTME: Predicates are pure and evaluated fresh on every request.

package actions

import (
	"net/http"

	"github.com/2389/actionadmin/internal/config"
)

// VisibilityContext is what a predicate may inspect. Object is nil for list
// placement.
type VisibilityContext struct {
	View    View
	Request *http.Request
	Object  Object
}

// VisibleFunc decides whether an action is visible in the given context.
type VisibleFunc func(vc VisibilityContext) bool

// AlwaysVisible shows the action everywhere.
func AlwaysVisible(VisibilityContext) bool {
	return true
}

// HideInProd shows the action unless the process runs in production.
func HideInProd(VisibilityContext) bool {
	return !config.Production()
}

// Not inverts a predicate.
func Not(fn VisibleFunc) VisibleFunc {
	return func(vc VisibilityContext) bool {
		return !fn(vc)
	}
}

// ObjectIs adapts a typed predicate on the target object. It reports false
// when the object is absent or of another type.
func ObjectIs[T Object](fn func(T) bool) VisibleFunc {
	return func(vc VisibilityContext) bool {
		obj, ok := vc.Object.(T)
		if !ok {
			return false
		}
		return fn(obj)
	}
}
