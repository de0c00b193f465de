// ABOUTME: Per-model admin: partitions a plugin's actions into row, list, and detail buckets.
// ABOUTME: Resolves visible actions per request and serves the generated action routes.

package admin

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/2389/actionadmin/actions"
	apperrors "github.com/2389/actionadmin/internal/errors"
	"github.com/2389/actionadmin/internal/logging"
	"github.com/2389/actionadmin/internal/metrics"
	"github.com/2389/actionadmin/internal/store"
	"github.com/2389/actionadmin/plugins/core"
	"github.com/go-chi/chi/v5"
)

// Button is the rendering context of one action button
type Button struct {
	Title string
	Path  string
}

// ModelAdmin serves one plugin's model. Its buckets are filled once by
// newModelAdmin and only read afterwards.
type ModelAdmin struct {
	site   *Site
	plugin core.Plugin
	meta   core.ModelMeta
	table  actions.Table

	row    []actions.Action
	list   []actions.Action
	detail []actions.Action
}

var _ actions.View = (*ModelAdmin)(nil)

func newModelAdmin(site *Site, p core.Plugin) *ModelAdmin {
	ma := &ModelAdmin{
		site:   site,
		plugin: p,
		meta:   p.Meta(),
		table:  p.Actions(),
	}
	for _, a := range ma.table.All() {
		if a.Row {
			ma.row = append(ma.row, a)
		}
		if a.List {
			ma.list = append(ma.list, a)
		}
		if a.Detail {
			ma.detail = append(ma.detail, a)
		}
	}
	return ma
}

// Plugin returns the plugin this admin serves
func (ma *ModelAdmin) Plugin() core.Plugin {
	return ma.plugin
}

// Meta returns the model's names
func (ma *ModelAdmin) Meta() core.ModelMeta {
	return ma.meta
}

func (ma *ModelAdmin) label() string {
	return ma.meta.AppLabel + "." + ma.meta.ModelName
}

func (ma *ModelAdmin) routeName(suffix string) string {
	return ma.meta.AppLabel + "_" + ma.meta.ModelName + suffix
}

// ActionRouteName is the route name of an action: "<app>_<model>_<action>"
func (ma *ModelAdmin) ActionRouteName(id string) string {
	return ma.routeName("_" + id)
}

// routes generates the builtin view routes and the routes of each placed
// action. An action placed on rows and on the detail page gets a single
// route; an action also placed on the list gets a second, key-less pattern
// under the same name.
func (ma *ModelAdmin) routes() []Route {
	base := ma.site.opts.Prefix + "/" + ma.meta.AppLabel + "/" + ma.meta.ModelName + "/"
	routes := []Route{
		{Name: ma.routeName(changelistSuffix), Pattern: base, Model: ma.label(), handler: http.HandlerFunc(ma.changelist)},
		{Name: ma.routeName(changeSuffix), Pattern: base + pkParam + "/change/", Model: ma.label(), handler: http.HandlerFunc(ma.change)},
	}

	for _, a := range ma.table.All() {
		if !a.Placed() {
			continue
		}
		if a.List {
			routes = append(routes, Route{
				Name:    ma.ActionRouteName(a.ID),
				Pattern: base + a.ID + "/",
				Model:   ma.label(),
				Action:  a.ID,
				handler: ma.actionHandler(a, false),
			})
		}
		if a.NeedsObject() {
			routes = append(routes, Route{
				Name:    ma.ActionRouteName(a.ID),
				Pattern: base + a.ID + "/" + pkParam + "/",
				Model:   ma.label(),
				Action:  a.ID,
				handler: ma.actionHandler(a, true),
			})
		}
	}
	return routes
}

// visibleActions filters a bucket by its predicates. Without a request, or
// when an object is required but absent, the whole bucket is returned.
func (ma *ModelAdmin) visibleActions(bucket []actions.Action, vc *actions.VisibilityContext, needObject bool) []actions.Action {
	if vc == nil || vc.Request == nil || (needObject && vc.Object == nil) {
		return bucket
	}

	visible := make([]actions.Action, 0, len(bucket))
	for _, a := range bucket {
		if a.Visible(*vc) {
			visible = append(visible, a)
			continue
		}
		metrics.ActionsHidden.WithLabelValues(ma.label(), a.ID).Inc()
	}
	return visible
}

func (ma *ModelAdmin) context(r *http.Request, obj actions.Object) *actions.VisibilityContext {
	if r == nil {
		return nil
	}
	return &actions.VisibilityContext{View: ma, Request: r, Object: obj}
}

// RowActions returns the row actions visible for obj
func (ma *ModelAdmin) RowActions(r *http.Request, obj actions.Object) []actions.Action {
	return ma.visibleActions(ma.row, ma.context(r, obj), true)
}

// ListActions returns the list actions visible on the list page
func (ma *ModelAdmin) ListActions(r *http.Request) []actions.Action {
	return ma.visibleActions(ma.list, ma.context(r, nil), false)
}

// DetailActions returns the detail actions visible for obj
func (ma *ModelAdmin) DetailActions(r *http.Request, obj actions.Object) []actions.Action {
	return ma.visibleActions(ma.detail, ma.context(r, obj), true)
}

// HasRowActions reports whether the list needs a tools column. Predicates are
// not consulted.
func (ma *ModelAdmin) HasRowActions() bool {
	return len(ma.row) > 0
}

// ActionURL reverses an action's route. A non-zero pk selects the object
// route; pk 0 selects the list route.
func (ma *ModelAdmin) ActionURL(id string, pk int64) (string, error) {
	a, ok := ma.table.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q on %s", ErrNoReverseMatch, id, ma.label())
	}
	if a.NeedsObject() && (pk != 0 || !a.List) {
		return ma.site.Reverse(ma.ActionRouteName(id), pk)
	}
	return ma.site.Reverse(ma.ActionRouteName(id))
}

func (ma *ModelAdmin) buttons(acts []actions.Action, pk int64) []Button {
	buttons := make([]Button, 0, len(acts))
	for _, a := range acts {
		path, err := ma.ActionURL(a.ID, pk)
		if err != nil {
			log.Printf("Warning: no route for action %s.%s: %v", ma.label(), a.ID, err)
			continue
		}
		buttons = append(buttons, Button{Title: a.Title, Path: path})
	}
	return buttons
}

// ObjectURL returns the change page of the object with the given key
func (ma *ModelAdmin) ObjectURL(pk int64) string {
	url, err := ma.site.Reverse(ma.routeName(changeSuffix), pk)
	if err != nil {
		log.Printf("Warning: cannot reverse change page of %s %d: %v", ma.label(), pk, err)
		return ma.ListURL()
	}
	return url
}

// ListURL returns the model's changelist
func (ma *ModelAdmin) ListURL() string {
	url, err := ma.site.Reverse(ma.routeName(changelistSuffix))
	if err != nil {
		log.Printf("Warning: cannot reverse changelist of %s: %v", ma.label(), err)
		return ma.site.opts.Prefix + "/"
	}
	return url
}

// MessageUser queues a success notification for the request's session
func (ma *ModelAdmin) MessageUser(r *http.Request, msg string) {
	ma.site.messageUser(r, store.LevelSuccess, msg)
}

// GetObject loads an object through the plugin's object store
func (ma *ModelAdmin) GetObject(r *http.Request, pk int64) (actions.Object, error) {
	objects := ma.plugin.Objects()
	if objects == nil {
		return nil, fmt.Errorf("%s has no object store: %w", ma.label(), core.ErrNotFound)
	}
	return objects.GetObject(r.Context(), pk)
}

// statusRecorder remembers the status an action's result wrote
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (ma *ModelAdmin) actionHandler(a actions.Action, withPK bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pk int64
		if withPK {
			var err error
			pk, err = strconv.ParseInt(chi.URLParam(r, "pk"), 10, 64)
			if err != nil {
				apperrors.WriteError(w, http.StatusBadRequest, apperrors.ErrInvalidRequest, "Object id must be numeric")
				return
			}
		}

		start := time.Now()
		result, err := a.Invoke(ma, r, pk)
		metrics.ActionDuration.WithLabelValues(ma.label(), a.ID).Observe(float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.ActionsInvoked.WithLabelValues(ma.label(), a.ID, metrics.OutcomeError).Inc()
			logging.NoteError(r, err)
			apperrors.Respond(w, r, err)
			return
		}

		rec := &statusRecorder{ResponseWriter: w}
		result.ServeHTTP(rec, r)

		outcome := metrics.OutcomeResponse
		if rec.status >= 300 && rec.status < 400 {
			outcome = metrics.OutcomeRedirect
		}
		metrics.ActionsInvoked.WithLabelValues(ma.label(), a.ID, outcome).Inc()
	}
}
