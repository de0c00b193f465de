// ABOUTME: Tests for the two-step confirmation flow.
// ABOUTME: Checks that the callback runs exactly once, only after a valid marked submission.

package admin

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/2389/actionadmin/actions"
	"github.com/2389/actionadmin/internal/forms"
	"github.com/2389/actionadmin/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type refundFixture struct {
	handler   http.Handler
	callbacks int
	reason    string
	fail      error
}

func setupRefund(t *testing.T) *refundFixture {
	t.Helper()
	fx := &refundFixture{}
	refund := actions.New("refund", func(v actions.View, r *http.Request, pk int64) (http.Handler, error) {
		return v.Confirm(r, pk, actions.Confirmation{
			Action: "refund",
			NewForm: func(actions.Object) forms.Form {
				return forms.New(
					forms.Field{Name: "reason", Kind: forms.KindTextarea, Required: true},
					forms.Field{Name: "method", Kind: forms.KindChoice, Choices: []forms.Choice{
						{Value: "card", Label: "Card"},
						{Value: "credit", Label: "Store credit"},
					}},
				)
			},
			OnValid: func(r *http.Request, f forms.Form, obj actions.Object) (http.Handler, error) {
				fx.callbacks++
				fx.reason = f.Value("reason")
				if fx.fail != nil {
					return nil, fx.fail
				}
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusTeapot)
				}), nil
			},
		})
	}, actions.Detail(), actions.ShowMessage(false))

	p := newOrderPlugin(newOrderStore(&order{id: 8}), refund)
	_, fx.handler = setupSite(t, p, Options{Messages: setupTestStore(t)})
	return fx
}

func TestConfirm_FirstVisitShowsForm(t *testing.T) {
	for _, method := range []string{"GET", "POST"} {
		t.Run(method, func(t *testing.T) {
			fx := setupRefund(t)
			rr := do(t, fx.handler, method, "/admin/shop/order/refund/8/", "")

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			body := rr.Body.String()
			for _, want := range []string{`name="reason"`, `name="apply"`, `action="/admin/shop/order/refund/8/"`, "Order #8"} {
				if !strings.Contains(body, want) {
					t.Errorf("form page missing %q", want)
				}
			}
			if strings.Contains(body, "errorlist") {
				t.Error("first visit rendered validation errors")
			}
			if fx.callbacks != 0 {
				t.Errorf("callbacks = %d, want 0", fx.callbacks)
			}
		})
	}
}

func TestConfirm_InvalidSubmissionRedisplaysErrors(t *testing.T) {
	fx := setupRefund(t)
	rr := do(t, fx.handler, "POST", "/admin/shop/order/refund/8/", "apply=1&reason=&method=cash")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "This field is required.") {
		t.Error("missing required-field error")
	}
	if !strings.Contains(body, "Select a valid choice.") {
		t.Error("missing invalid-choice error")
	}
	if fx.callbacks != 0 {
		t.Errorf("callbacks = %d, want 0", fx.callbacks)
	}
}

func TestConfirm_ValidSubmissionRunsCallbackOnce(t *testing.T) {
	fx := setupRefund(t)
	rr := do(t, fx.handler, "POST", "/admin/shop/order/refund/8/", "apply=1&reason=damaged&method=card")

	if rr.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want callback's 418", rr.Code)
	}
	if fx.callbacks != 1 {
		t.Errorf("callbacks = %d, want 1", fx.callbacks)
	}
	if fx.reason != "damaged" {
		t.Errorf("reason = %q, want damaged", fx.reason)
	}
}

func TestConfirm_ValidFieldsWithoutMarkerDoNotApply(t *testing.T) {
	fx := setupRefund(t)
	rr := do(t, fx.handler, "POST", "/admin/shop/order/refund/8/", "reason=damaged&method=card")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if fx.callbacks != 0 {
		t.Errorf("callbacks = %d, want 0", fx.callbacks)
	}
}

func TestConfirm_MissingObject(t *testing.T) {
	fx := setupRefund(t)
	rr := do(t, fx.handler, "POST", "/admin/shop/order/refund/404/", "apply=1&reason=x")

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	if fx.callbacks != 0 {
		t.Errorf("callbacks = %d, want 0", fx.callbacks)
	}
}

func TestConfirm_AppliedCountedOnlyOnSuccess(t *testing.T) {
	applied := metrics.ConfirmationsRendered.WithLabelValues("shop.order", "refund", confirmApplied)
	fx := setupRefund(t)

	fx.fail = errors.New("refund rejected by gateway")
	before := testutil.ToFloat64(applied)
	if rr := do(t, fx.handler, "POST", "/admin/shop/order/refund/8/", "apply=1&reason=damaged&method=card"); rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if got := testutil.ToFloat64(applied); got != before {
		t.Errorf("applied = %v after a failed callback, want %v", got, before)
	}

	fx.fail = nil
	do(t, fx.handler, "POST", "/admin/shop/order/refund/8/", "apply=1&reason=damaged&method=card")
	if got := testutil.ToFloat64(applied); got != before+1 {
		t.Errorf("applied = %v after a successful callback, want %v", got, before+1)
	}
}
