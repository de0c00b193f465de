// ABOUTME: HTTP request logging middleware for the admin site.
// ABOUTME: Captures method, path, status, duration, model, action, and error text, and stores them in the database.

package logging

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/2389/actionadmin/internal/auth"
	"github.com/2389/actionadmin/internal/store"
)

// Recorder persists request log entries
type Recorder interface {
	LogRequest(log *store.RequestLog) error
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

type errorNoteKey struct{}

// errorNote carries a handler's error text back to the middleware
type errorNote struct {
	text string
}

// NoteError attaches err's text to the log entry of r. Outside Middleware
// it does nothing.
func NoteError(r *http.Request, err error) {
	if note, ok := r.Context().Value(errorNoteKey{}).(*errorNote); ok && err != nil {
		note.text = err.Error()
	}
}

// Middleware logs admin requests under prefix to rec. Static assets are skipped.
func Middleware(rec Recorder, prefix string) func(http.Handler) http.Handler {
	prefix = strings.TrimSuffix(prefix, "/")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rest, ok := strings.CutPrefix(r.URL.Path, prefix+"/")
			if !ok || strings.HasPrefix(rest, "static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			note := &errorNote{}
			next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), errorNoteKey{}, note)))

			pluginName, action := Resolve(rest)

			ip := r.RemoteAddr
			if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
				ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
			}

			// Log to database (fire and forget)
			entry := &store.RequestLog{
				PluginName: pluginName,
				Action:     action,
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: wrapped.statusCode,
				DurationMs: int(time.Since(start).Milliseconds()),
				UserID:     auth.UserFromContext(r.Context()),
				IPAddress:  ip,
				UserAgent:  r.Header.Get("User-Agent"),
				Error:      note.text,
			}
			go rec.LogRequest(entry)
		})
	}
}
