// ABOUTME: HTTP handlers for admin UI pages.
// ABOUTME: Serves the model index, each model's changelist, and the object change page.

package admin

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/2389/actionadmin/actions"
	apperrors "github.com/2389/actionadmin/internal/errors"
	"github.com/2389/actionadmin/internal/store"
	"github.com/2389/actionadmin/plugins/core"
	"github.com/go-chi/chi/v5"
)

const (
	// pageSize is the number of objects per changelist page
	pageSize = 50
	// maxPage bounds ?p= so the offset cannot overflow
	maxPage = 1_000_000
	// recentActionsLimit is the length of the changelist's action history
	recentActionsLimit = 10
)

// pageData adds the values every page layout needs
func (s *Site) pageData(r *http.Request, data map[string]any) map[string]any {
	data["SiteName"] = s.opts.Name
	data["Prefix"] = s.opts.Prefix
	data["Messages"] = s.popMessages(r)
	return data
}

// ModelSummary represents a registered model on the index page
type ModelSummary struct {
	Title          string
	AppLabel       string
	ListURL        string
	Health         core.HealthStatus
	ActionCount    int
	RequestCount   int
	ErrorRate      float64
	RecentRequests []*store.RequestLog
}

func (s *Site) index(w http.ResponseWriter, r *http.Request) {
	yesterday := time.Now().Add(-24 * time.Hour)
	var models []ModelSummary

	for _, ma := range s.ModelAdmins() {
		name := ma.plugin.Name()
		summary := ModelSummary{
			Title:       ma.meta.Plural(),
			AppLabel:    ma.meta.AppLabel,
			ListURL:     ma.ListURL(),
			Health:      ma.plugin.Health(),
			ActionCount: ma.table.Len(),
		}
		if s.opts.Stats != nil {
			summary.RequestCount, _ = s.opts.Stats.GetPluginRequestCount(name, yesterday)
			summary.ErrorRate, _ = s.opts.Stats.GetPluginErrorRate(name, yesterday)
			summary.RecentRequests, _ = s.opts.Stats.GetRecentRequests(name, 5)
		}
		models = append(models, summary)
	}

	w.Header().Set("Content-Type", "text/html")
	if err := renderPage(w, "index", s.pageData(r, map[string]any{
		"Title":  "Site administration",
		"Models": models,
	})); err != nil {
		apperrors.Respond(w, r, err)
	}
}

// ChangelistRow is one object on the changelist
type ChangelistRow struct {
	PK        int64
	ChangeURL string
	Cells     []string
	Tools     []Button
}

func (ma *ModelAdmin) changelist(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("p"))
	page = min(max(page, 0), maxPage)

	var objs []actions.Object
	if objects := ma.plugin.Objects(); objects != nil {
		var err error
		objs, err = objects.ListObjects(r.Context(), core.ListOptions{Limit: pageSize + 1, Offset: page * pageSize})
		if err != nil {
			apperrors.Respond(w, r, err)
			return
		}
	}
	hasNext := len(objs) > pageSize
	if hasNext {
		objs = objs[:pageSize]
	}

	schema := ma.plugin.Schema()
	columns := make([]string, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		columns = append(columns, columnTitle(col))
	}
	if len(columns) == 0 {
		columns = append(columns, ma.meta.VerboseName)
	}

	rows := make([]ChangelistRow, 0, len(objs))
	for _, obj := range objs {
		row := ChangelistRow{
			PK:        obj.PrimaryKey(),
			ChangeURL: ma.ObjectURL(obj.PrimaryKey()),
		}
		for _, col := range schema.Columns {
			row.Cells = append(row.Cells, cellValue(col, obj))
		}
		if len(row.Cells) == 0 {
			row.Cells = []string{obj.String()}
		}
		if ma.HasRowActions() {
			row.Tools = ma.buttons(ma.RowActions(r, obj), obj.PrimaryKey())
		}
		rows = append(rows, row)
	}

	recent, actionFilter := ma.recentActions(r)

	data := map[string]any{
		"Title":         ma.meta.Plural(),
		"Meta":          ma.meta,
		"Columns":       columns,
		"Rows":          rows,
		"HasRowActions": ma.HasRowActions(),
		"ListButtons":   ma.buttons(ma.ListActions(r), 0),
		"PrevPage":      page > 0,
		"PrevPageNum":   page - 1,
		"NextPage":      hasNext,
		"NextPageNum":   page + 1,
		"ShowRecent":    ma.site.opts.Stats != nil,
		"RecentActions": recent,
		"ActionFilter":  actionFilter,
	}

	w.Header().Set("Content-Type", "text/html")

	// Check if this is an htmx request for just the rows
	if r.Header.Get("HX-Request") == "true" {
		if err := renderPartial(w, "changelist_rows", data); err != nil {
			apperrors.Respond(w, r, err)
		}
		return
	}

	if err := renderPage(w, "changelist", ma.site.pageData(r, data)); err != nil {
		apperrors.Respond(w, r, err)
	}
}

// recentActions returns the model's latest action invocations, narrowed to
// one action when ?action= names a declared one.
func (ma *ModelAdmin) recentActions(r *http.Request) ([]*store.RequestLog, string) {
	stats := ma.site.opts.Stats
	if stats == nil {
		return nil, ""
	}

	var filter string
	if id := r.URL.Query().Get("action"); id != "" {
		if _, ok := ma.table.Get(id); ok {
			filter = id
		}
	}

	logs, err := stats.GetRequestLogs(&store.RequestLogQuery{
		PathPrefix:  ma.ListURL(),
		ActionsOnly: true,
		Action:      filter,
		Limit:       recentActionsLimit,
	})
	if err != nil {
		log.Printf("Failed to load recent actions of %s: %v", ma.label(), err)
		return nil, filter
	}
	return logs, filter
}

func (ma *ModelAdmin) change(w http.ResponseWriter, r *http.Request) {
	pk, err := strconv.ParseInt(chi.URLParam(r, "pk"), 10, 64)
	if err != nil {
		apperrors.WriteError(w, http.StatusBadRequest, apperrors.ErrInvalidRequest, "Object id must be numeric")
		return
	}

	obj, err := ma.GetObject(r, pk)
	if err != nil {
		apperrors.Respond(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if err := renderPage(w, "change", ma.site.pageData(r, map[string]any{
		"Title":         obj.String(),
		"Meta":          ma.meta,
		"Plural":        ma.meta.Plural(),
		"Object":        obj,
		"ListURL":       ma.ListURL(),
		"Detail":        RenderObjectDetail(ma.plugin.Schema(), obj),
		"DetailButtons": ma.buttons(ma.DetailActions(r, obj), pk),
	})); err != nil {
		apperrors.Respond(w, r, err)
	}
}
