// ABOUTME: Request log storage operations.
// ABOUTME: Records admin requests and action invocations for the dashboard.

package store

import (
	"strings"
	"time"
)

// RequestLog represents an admin request log entry
type RequestLog struct {
	ID         int64
	Timestamp  time.Time
	PluginName string
	Action     string
	Method     string
	Path       string
	StatusCode int
	DurationMs int
	UserID     string
	IPAddress  string
	UserAgent  string
	Error      string
}

// LogRequest inserts a request log entry
func (s *Store) LogRequest(log *RequestLog) error {
	_, err := s.db.Exec(`
		INSERT INTO request_logs (plugin_name, action, method, path, status_code, duration_ms, user_id, ip_address, user_agent, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.PluginName, log.Action, log.Method, log.Path, log.StatusCode, log.DurationMs, log.UserID, log.IPAddress, log.UserAgent, log.Error)
	return err
}

// RequestLogQuery represents filters for request logs
type RequestLogQuery struct {
	Limit       int
	PluginName  string
	Action      string
	ActionsOnly bool // only entries that invoked an action
	PathPrefix  string
}

const requestLogColumns = `id, timestamp, COALESCE(plugin_name, ''), COALESCE(action, ''), method, path,
	COALESCE(status_code, 0), COALESCE(duration_ms, 0), COALESCE(user_id, ''), COALESCE(ip_address, ''),
	COALESCE(user_agent, ''), COALESCE(error, '')`

// GetRequestLogs retrieves request logs with filtering, newest first
func (s *Store) GetRequestLogs(q *RequestLogQuery) ([]*RequestLog, error) {
	query := "SELECT " + requestLogColumns + " FROM request_logs WHERE 1=1"
	args := []any{}

	if q.PluginName != "" {
		query += " AND plugin_name = ?"
		args = append(args, q.PluginName)
	}
	if q.Action != "" {
		query += " AND action = ?"
		args = append(args, q.Action)
	}
	if q.ActionsOnly {
		query += " AND action != ''"
	}
	if q.PathPrefix != "" {
		query += ` AND path LIKE ? ESCAPE '\'`
		args = append(args, escapeSQLLike(q.PathPrefix)+"%")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	return s.queryRequestLogs(query, args...)
}

// GetRecentRequests returns the most recent requests for a plugin
func (s *Store) GetRecentRequests(pluginName string, limit int) ([]*RequestLog, error) {
	return s.GetRequestLogs(&RequestLogQuery{PluginName: pluginName, Limit: limit})
}

func (s *Store) queryRequestLogs(query string, args ...any) ([]*RequestLog, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*RequestLog
	for rows.Next() {
		log := &RequestLog{}
		if err := rows.Scan(&log.ID, &log.Timestamp, &log.PluginName, &log.Action, &log.Method, &log.Path,
			&log.StatusCode, &log.DurationMs, &log.UserID, &log.IPAddress, &log.UserAgent, &log.Error); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// GetPluginRequestCount returns the number of requests for a plugin since a given time
func (s *Store) GetPluginRequestCount(pluginName string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM request_logs
		WHERE plugin_name = ? AND timestamp >= ?
	`, pluginName, since.UTC()).Scan(&count)
	return count, err
}

// GetPluginErrorRate returns the error rate percentage for a plugin since a given time
func (s *Store) GetPluginErrorRate(pluginName string, since time.Time) (float64, error) {
	var total, failed int
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END), 0)
		FROM request_logs
		WHERE plugin_name = ? AND timestamp >= ?
	`, pluginName, since.UTC()).Scan(&total, &failed)
	if err != nil {
		return 0, err
	}

	// No requests means 0% error rate
	if total == 0 {
		return 0, nil
	}
	return (float64(failed) / float64(total)) * 100.0, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeSQLLike makes LIKE wildcards in s match literally under ESCAPE '\'.
func escapeSQLLike(s string) string {
	return likeEscaper.Replace(s)
}
