// ABOUTME: Admin site: registers model plugins, generates their action routes, and reverses URLs.
// ABOUTME: The route table is built once at startup; collisions are rejected at registration.

package admin

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2389/actionadmin/internal/auth"
	"github.com/2389/actionadmin/internal/metrics"
	"github.com/2389/actionadmin/internal/store"
	"github.com/2389/actionadmin/plugins/core"
	"github.com/go-chi/chi/v5"
)

var (
	// ErrRouteCollision is returned by Register when a generated route name
	// or model path is already taken.
	ErrRouteCollision = errors.New("route collision")
	// ErrNoReverseMatch is returned by Reverse for unknown names or bad arguments.
	ErrNoReverseMatch = errors.New("no reverse match")
)

// pkParam is the numeric object identifier segment of a route pattern.
const pkParam = "{pk:[0-9]+}"

// Builtin view suffixes of route names.
const (
	changelistSuffix = "_changelist"
	changeSuffix     = "_change"
)

// MessageStore persists session notifications
type MessageStore interface {
	AddMessage(sessionID, level, body string) (string, error)
	PopMessages(sessionID string) ([]*store.Message, error)
}

// StatsSource provides request statistics for the index page
type StatsSource interface {
	GetPluginRequestCount(pluginName string, since time.Time) (int, error)
	GetPluginErrorRate(pluginName string, since time.Time) (float64, error)
	GetRecentRequests(pluginName string, limit int) ([]*store.RequestLog, error)
	GetRequestLogs(q *store.RequestLogQuery) ([]*store.RequestLog, error)
}

// Options configures a Site
type Options struct {
	Name     string   // Header title, "Administration" by default
	Prefix   string   // Mount point, "/admin" by default
	Staff    []string // Users allowed in; empty admits everyone
	Messages MessageStore
	Stats    StatsSource
}

// Route is one named entry of the route table
type Route struct {
	Name    string // "support_ticket_resolve"
	Pattern string // "/admin/support/ticket/resolve/{pk:[0-9]+}/"
	Model   string // "support.ticket"
	Action  string // empty for builtin views

	handler http.Handler
}

// Site is the admin site. Register every plugin before mounting it.
type Site struct {
	opts Options

	mu      sync.RWMutex
	admins  []*ModelAdmin
	byModel map[string]*ModelAdmin
	routes  []Route
	byName  map[string][]int
}

// NewSite creates an empty admin site
func NewSite(opts Options) *Site {
	if opts.Name == "" {
		opts.Name = "Administration"
	}
	opts.Prefix = "/" + strings.Trim(opts.Prefix, "/")
	if opts.Prefix == "/" {
		opts.Prefix = "/admin"
	}
	return &Site{
		opts:    opts,
		byModel: make(map[string]*ModelAdmin),
		byName:  make(map[string][]int),
	}
}

// Prefix returns the mount point
func (s *Site) Prefix() string {
	return s.opts.Prefix
}

// Register builds the plugin's model admin and adds its routes. Registration
// is all-or-nothing: on a collision nothing of the plugin is added.
func (s *Site) Register(p core.Plugin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ma := newModelAdmin(s, p)
	key := ma.meta.AppLabel + "." + ma.meta.ModelName
	if _, exists := s.byModel[key]; exists {
		return fmt.Errorf("%w: model %s registered twice", ErrRouteCollision, key)
	}

	// A name may carry several patterns only when their argument counts
	// differ, so that Reverse can tell them apart.
	routes := ma.routes()
	builtin := map[string]bool{ma.routeName(changelistSuffix): true, ma.routeName(changeSuffix): true}
	arities := make(map[string]map[int]bool, len(routes))
	for _, rt := range routes {
		if _, taken := s.byName[rt.Name]; taken || (rt.Action != "" && builtin[rt.Name]) {
			return fmt.Errorf("%w: route name %q already taken", ErrRouteCollision, rt.Name)
		}
		n := strings.Count(rt.Pattern, pkParam)
		if arities[rt.Name][n] {
			return fmt.Errorf("%w: route name %q already taken", ErrRouteCollision, rt.Name)
		}
		if arities[rt.Name] == nil {
			arities[rt.Name] = make(map[int]bool)
		}
		arities[rt.Name][n] = true
	}

	for _, rt := range routes {
		s.byName[rt.Name] = append(s.byName[rt.Name], len(s.routes))
		s.routes = append(s.routes, rt)
	}
	s.byModel[key] = ma
	s.admins = append(s.admins, ma)
	sort.Slice(s.admins, func(i, j int) bool {
		return s.admins[i].plugin.Name() < s.admins[j].plugin.Name()
	})

	metrics.RegisteredRoutes.Set(float64(s.actionRouteCount()))
	return nil
}

// RegisterAll registers every plugin in the core registry
func (s *Site) RegisterAll() error {
	for _, p := range core.All() {
		if err := s.Register(p); err != nil {
			return fmt.Errorf("failed to register plugin %s: %w", p.Name(), err)
		}
	}
	return nil
}

func (s *Site) actionRouteCount() int {
	n := 0
	for _, rt := range s.routes {
		if rt.Action != "" {
			n++
		}
	}
	return n
}

// Routes returns a copy of the route table in registration order
func (s *Site) Routes() []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Route, len(s.routes))
	copy(out, s.routes)
	return out
}

// ModelAdmins returns the registered model admins sorted by plugin name
func (s *Site) ModelAdmins() []*ModelAdmin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ModelAdmin, len(s.admins))
	copy(out, s.admins)
	return out
}

// ModelAdmin returns the admin of app_label.model_name
func (s *Site) ModelAdmin(appLabel, modelName string) (*ModelAdmin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ma, ok := s.byModel[appLabel+"."+modelName]
	return ma, ok
}

// Reverse builds the path of a named route. Each numeric segment takes one
// argument, which must be a non-negative integer. When a name has several
// patterns, the one taking len(args) arguments is used.
func (s *Site) Reverse(name string, args ...any) (string, error) {
	s.mu.RLock()
	idx, ok := s.byName[name]
	var pattern string
	for _, i := range idx {
		if strings.Count(s.routes[i].Pattern, pkParam) == len(args) {
			pattern = s.routes[i].Pattern
		}
	}
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoReverseMatch, name)
	}
	if pattern == "" {
		return "", fmt.Errorf("%w: %q has no pattern taking %d arguments", ErrNoReverseMatch, name, len(args))
	}
	for _, arg := range args {
		seg, err := pkSegment(arg)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrNoReverseMatch, name, err)
		}
		pattern = strings.Replace(pattern, pkParam, seg, 1)
	}
	return pattern, nil
}

func pkSegment(arg any) (string, error) {
	switch v := arg.(type) {
	case int64:
		if v >= 0 {
			return strconv.FormatInt(v, 10), nil
		}
	case int:
		if v >= 0 {
			return strconv.Itoa(v), nil
		}
	case string:
		if _, err := strconv.ParseUint(v, 10, 63); err == nil {
			return v, nil
		}
	}
	return "", fmt.Errorf("argument %v is not a primary key", arg)
}

// RegisterRoutes mounts the site, its stylesheet, and every generated route
// on r. The staff guard covers everything except static assets.
func (s *Site) RegisterRoutes(r chi.Router) {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("Failed to load admin static assets: %v", err)
	}

	r.Route(s.opts.Prefix, func(r chi.Router) {
		r.Handle("/static/*", http.StripPrefix(s.opts.Prefix+"/static/", http.FileServer(http.FS(static))))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireStaff(s.opts.Staff))
			r.Get("/", s.index)
			for _, rt := range s.Routes() {
				r.Handle(strings.TrimPrefix(rt.Pattern, s.opts.Prefix), rt.handler)
			}
		})
	})

	log.Printf("Admin site mounted at %s/ with %d routes", s.opts.Prefix, len(s.Routes()))
}

// messageUser queues a notification for the request's session
func (s *Site) messageUser(r *http.Request, level, msg string) {
	session := auth.SessionFromContext(r.Context())
	if s.opts.Messages == nil || session == "" {
		log.Printf("Dropping admin message without session: %s", msg)
		return
	}
	if _, err := s.opts.Messages.AddMessage(session, level, msg); err != nil {
		log.Printf("Failed to store admin message: %v", err)
	}
}

// popMessages returns and clears the session's notifications
func (s *Site) popMessages(r *http.Request) []*store.Message {
	session := auth.SessionFromContext(r.Context())
	if s.opts.Messages == nil || session == "" {
		return nil
	}
	msgs, err := s.opts.Messages.PopMessages(session)
	if err != nil {
		log.Printf("Failed to load admin messages: %v", err)
		return nil
	}
	return msgs
}
