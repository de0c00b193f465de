// ABOUTME: Admin actions for support tickets.
// ABOUTME: Resolve, reopen, hide, escalate, purge, and CSV export.

package tickets

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2389/actionadmin/actions"
	"github.com/2389/actionadmin/internal/forms"
	"github.com/2389/actionadmin/internal/seed"
)

var (
	isResolved = actions.ObjectIs(func(t *Ticket) bool { return t.Resolved() })
	isHidden   = actions.ObjectIs(func(t *Ticket) bool { return t.Hidden })
)

func (p *TicketsPlugin) buildActions() actions.Table {
	return actions.MustTable(
		actions.New("resolve", p.resolve, actions.Row(), actions.Detail(), actions.Visible(actions.Not(isResolved))),
		actions.New("reopen", p.reopen, actions.Detail(), actions.Visible(isResolved)),
		actions.New("hide", p.hide, actions.Row(), actions.Visible(actions.Not(isHidden))),
		actions.New("escalate", p.escalate, actions.Detail(), actions.ShowMessage(false)),
		actions.New("purge_hidden", p.purgeHidden, actions.List(), actions.Visible(actions.HideInProd)),
		actions.New("export_csv", p.exportCSV, actions.List(), actions.Name("Export CSV"), actions.ShowMessage(false)),
	)
}

// ticket loads the target through the view so missing tickets become 404s
func ticket(v actions.View, r *http.Request, pk int64) (*Ticket, error) {
	obj, err := v.GetObject(r, pk)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*Ticket)
	if !ok {
		return nil, fmt.Errorf("object %d is %T, not a ticket", pk, obj)
	}
	return t, nil
}

func (p *TicketsPlugin) resolve(v actions.View, r *http.Request, pk int64) (http.Handler, error) {
	if _, err := ticket(v, r, pk); err != nil {
		return nil, err
	}
	return nil, p.store.SetStatus(pk, StatusResolved)
}

func (p *TicketsPlugin) reopen(v actions.View, r *http.Request, pk int64) (http.Handler, error) {
	if _, err := ticket(v, r, pk); err != nil {
		return nil, err
	}
	return nil, p.store.SetStatus(pk, StatusOpen)
}

func (p *TicketsPlugin) hide(v actions.View, r *http.Request, pk int64) (http.Handler, error) {
	if _, err := ticket(v, r, pk); err != nil {
		return nil, err
	}
	return nil, p.store.SetHidden(pk, true)
}

func escalationForm(obj actions.Object) forms.Form {
	choices := make([]forms.Choice, 0, len(seed.Priorities))
	for _, p := range seed.Priorities {
		choices = append(choices, forms.Choice{Value: p, Label: actions.Humanize(p)})
	}
	fields := []forms.Field{
		{Name: "reason", Kind: forms.KindTextarea, Required: true, MaxLength: 500, Help: "Shown to the on-call engineer."},
		{Name: "priority", Kind: forms.KindChoice, Required: true, Choices: choices},
	}
	t, ok := obj.(*Ticket)
	if ok && t.Hidden {
		fields = append(fields, forms.Field{Name: "unhide", Label: "Show in ticket list again", Kind: forms.KindCheckbox})
	}

	f := forms.New(fields...)
	if ok {
		f.Initial(map[string]string{"priority": t.Priority, "reason": t.EscalationReason})
	}
	return f
}

func (p *TicketsPlugin) escalate(v actions.View, r *http.Request, pk int64) (http.Handler, error) {
	return v.Confirm(r, pk, actions.Confirmation{
		Action:  "escalate",
		NewForm: escalationForm,
		OnValid: func(r *http.Request, f forms.Form, obj actions.Object) (http.Handler, error) {
			priority := f.Value("priority")
			if err := p.store.Escalate(pk, priority, f.Value("reason")); err != nil {
				return nil, err
			}
			if f.Bool("unhide") {
				if err := p.store.SetHidden(pk, false); err != nil {
					return nil, err
				}
			}
			v.MessageUser(r, fmt.Sprintf("Ticket %s escalated to %s", obj, priority))
			return nil, nil
		},
	})
}

func (p *TicketsPlugin) purgeHidden(v actions.View, r *http.Request, pk int64) (http.Handler, error) {
	n, err := p.store.PurgeHidden()
	if err != nil {
		return nil, err
	}
	v.MessageUser(r, fmt.Sprintf("Purged %d hidden tickets", n))
	return nil, nil
}

func (p *TicketsPlugin) exportCSV(v actions.View, r *http.Request, pk int64) (http.Handler, error) {
	tickets, err := p.store.ListTickets(0, 0)
	if err != nil {
		return nil, err
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="tickets.csv"`)

		cw := csv.NewWriter(w)
		cw.Write([]string{"id", "subject", "requester", "status", "priority", "hidden", "created_at"})
		for _, t := range tickets {
			cw.Write([]string{
				strconv.FormatInt(t.ID, 10), t.Subject, t.Requester, t.Status, t.Priority,
				yesNo(t.Hidden), t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			})
		}
		cw.Flush()
	}), nil
}
