// ABOUTME: Authentication and session middleware for the admin site.
// ABOUTME: Extracts the user from Bearer tokens and keeps a session cookie for messages.

package auth

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/2389/actionadmin/internal/errors"
	"github.com/google/uuid"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
)

// Anonymous is the user of requests without credentials
const Anonymous = "anonymous"

// SessionCookie names the cookie carrying the session ID
const SessionCookie = "sessionid"

// Middleware attaches the user and the session ID to the request context,
// issuing a session cookie when the client has none.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := extractUser(r.Header.Get("Authorization"))

		session := ""
		if c, err := r.Cookie(SessionCookie); err == nil && validSession(c.Value) {
			session = c.Value
		} else {
			session = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    session,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = WithSession(ctx, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff rejects users outside staff. An empty staff list admits everyone.
func RequireStaff(staff []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(staff) > 0 && !slices.Contains(staff, UserFromContext(r.Context())) {
				errors.WriteError(w, http.StatusForbidden, errors.ErrForbidden, "Staff access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserFromContext(ctx context.Context) string {
	user, ok := ctx.Value(userContextKey).(string)
	if !ok || user == "" {
		return Anonymous
	}
	return user
}

// SessionFromContext returns the session ID, or "" outside Middleware.
func SessionFromContext(ctx context.Context) string {
	session, _ := ctx.Value(sessionContextKey).(string)
	return session
}

// WithSession returns a context carrying the given session ID.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

func extractUser(authHeader string) string {
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return Anonymous
	}

	// "user:<name>" names the user explicitly; other tokens are not accepted.
	if name, ok := strings.CutPrefix(token, "user:"); ok && name != "" {
		return name
	}
	return Anonymous
}

func validSession(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}
