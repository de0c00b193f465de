// ABOUTME: Standardized error responses and error-to-status mapping for admin handlers
// ABOUTME: Maps lookup failures to 404, storage failures and the rest to 500, as JSON or plain text

package errors

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"log"
	"net/http"
	"strings"

	"github.com/2389/actionadmin/plugins/core"
	"github.com/mattn/go-sqlite3"
)

// ErrorResponse is the standardized error body.
//
// Usage:
//
//	WriteError(w, http.StatusBadRequest, ErrInvalidRequest, "Object id must be numeric")
type ErrorResponse struct {
	Code    string `json:"code"`              // Machine-readable error code (e.g., "not_found")
	Message string `json:"message"`           // Human-readable error message
	Status  int    `json:"status"`            // HTTP status code
	Details string `json:"details,omitempty"` // Optional: additional error details
}

// Error codes
const (
	// Client errors (4xx)
	ErrInvalidRequest = "invalid_request"
	ErrNotFound       = "not_found"
	ErrForbidden      = "forbidden"

	// Server errors (5xx)
	ErrInternal      = "internal_error"
	ErrDatabaseError = "database_error"
)

// WriteError writes a JSON ErrorResponse.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeErrorResponse(w, ErrorResponse{
		Code:    code,
		Message: message,
		Status:  status,
	})
}

// WriteErrorWithDetails writes a JSON ErrorResponse carrying extra context.
func WriteErrorWithDetails(w http.ResponseWriter, status int, code, message, details string) {
	writeErrorResponse(w, ErrorResponse{
		Code:    code,
		Message: message,
		Status:  status,
		Details: details,
	})
}

func writeErrorResponse(w http.ResponseWriter, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	json.NewEncoder(w).Encode(resp)
}

// StatusFor classifies an error returned by an action or a view.
func StatusFor(err error) (int, string) {
	switch {
	case stderrors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, ErrNotFound
	case isDatabaseError(err):
		return http.StatusInternalServerError, ErrDatabaseError
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}

func isDatabaseError(err error) bool {
	var sqliteErr sqlite3.Error
	return stderrors.As(err, &sqliteErr) || stderrors.Is(err, sql.ErrConnDone) || stderrors.Is(err, sql.ErrTxDone)
}

// Respond writes err for r: JSON when the client asks for it, plain text
// otherwise. Client errors carry the error text as details; server errors
// are logged and their text is not exposed.
func Respond(w http.ResponseWriter, r *http.Request, err error) {
	status, code := StatusFor(err)

	details := err.Error()
	if status >= http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", r.Method, r.URL.Path, err)
		details = ""
	}

	if wantsJSON(r) {
		WriteErrorWithDetails(w, status, code, http.StatusText(status), details)
		return
	}
	if details == "" {
		details = http.StatusText(status)
	}
	http.Error(w, details, status)
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
