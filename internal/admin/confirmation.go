// ABOUTME: Two-step confirmation pages for actions that need extra input.
// ABOUTME: Renders a form, validates the marked resubmission, then runs the callback once.

package admin

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/2389/actionadmin/actions"
	"github.com/2389/actionadmin/internal/forms"
	"github.com/2389/actionadmin/internal/metrics"
)

const defaultConfirmTemplate = "intermediate_action"

// Confirmation states recorded in metrics
const (
	confirmShown   = "shown"
	confirmInvalid = "invalid"
	confirmApplied = "applied"
)

// Confirm runs the confirmation flow for the object pk. A POST carrying
// actions.ApplyField binds and validates the form; a valid form hands control
// to OnValid and its result is returned unchanged. Anything else renders the
// form page, with errors after an invalid submission.
func (ma *ModelAdmin) Confirm(r *http.Request, pk int64, c actions.Confirmation) (http.Handler, error) {
	obj, err := ma.GetObject(r, pk)
	if err != nil {
		return nil, err
	}

	newForm := c.NewForm
	if newForm == nil {
		newForm = func(actions.Object) forms.Form { return forms.Empty() }
	}
	form := newForm(obj)

	state := confirmShown
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("failed to parse confirmation form: %w", err)
		}
		if _, marked := r.PostForm[actions.ApplyField]; marked {
			form.Bind(r.PostForm)
			if form.Valid() {
				if c.OnValid == nil {
					return nil, fmt.Errorf("confirmation of %s.%s has no callback", ma.label(), c.Action)
				}
				result, err := c.OnValid(r, form, obj)
				if err == nil {
					metrics.ConfirmationsRendered.WithLabelValues(ma.label(), c.Action, confirmApplied).Inc()
				}
				return result, err
			}
			state = confirmInvalid
		}
	}
	metrics.ConfirmationsRendered.WithLabelValues(ma.label(), c.Action, state).Inc()

	title := actions.Humanize(c.Action)
	if a, ok := ma.table.Get(c.Action); ok {
		title = a.Title
	}
	postURL := r.URL.Path
	if c.Action != "" {
		if u, err := ma.ActionURL(c.Action, pk); err == nil {
			postURL = u
		}
	}

	page := c.Template
	if page == "" {
		page = defaultConfirmTemplate
	}

	var buf bytes.Buffer
	err = renderPage(&buf, page, ma.site.pageData(r, map[string]any{
		"Title":       title,
		"ActionID":    c.Action,
		"ActionTitle": title,
		"Form":        RenderFormFields(form),
		"HasErrors":   len(form.Errors()) > 0 && state == confirmInvalid,
		"ApplyField":  actions.ApplyField,
		"PostURL":     postURL,
		"AppLabel":    ma.meta.AppLabel,
		"Meta":        ma.meta,
		"Object":      obj,
		"ObjectURL":   ma.ObjectURL(obj.PrimaryKey()),
		"ListURL":     ma.ListURL(),
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to render confirmation page: %w", err)
	}

	return htmlResponse(buf.Bytes()), nil
}

// htmlResponse serves a pre-rendered page
func htmlResponse(body []byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})
}
