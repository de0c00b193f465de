// ABOUTME: Tests for site registration, route generation, and URL reversal.
// ABOUTME: Covers route deduplication, collisions, and the staff guard.

package admin

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/2389/actionadmin/actions"
	"github.com/2389/actionadmin/plugins/core"
)

func routeNames(routes []Route) []string {
	names := make([]string, 0, len(routes))
	for _, rt := range routes {
		names = append(names, rt.Name)
	}
	return names
}

func TestRegister_GeneratesRoutes(t *testing.T) {
	site := NewSite(Options{})
	p := newOrderPlugin(newOrderStore(),
		actions.New("mark_paid", noop, actions.Row(), actions.Detail()),
		actions.New("recalculate", noop, actions.List()),
		actions.New("inert", noop),
	)
	if err := site.Register(p); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	want := map[string]string{
		"shop_order_changelist":  "/admin/shop/order/",
		"shop_order_change":      "/admin/shop/order/{pk:[0-9]+}/change/",
		"shop_order_mark_paid":   "/admin/shop/order/mark_paid/{pk:[0-9]+}/",
		"shop_order_recalculate": "/admin/shop/order/recalculate/",
	}
	routes := site.Routes()
	if len(routes) != len(want) {
		t.Fatalf("routes = %v, want %d entries", routeNames(routes), len(want))
	}
	for _, rt := range routes {
		if want[rt.Name] != rt.Pattern {
			t.Errorf("route %s pattern = %q, want %q", rt.Name, rt.Pattern, want[rt.Name])
		}
	}
}

func TestRegister_RowAndDetailShareOneRoute(t *testing.T) {
	site := NewSite(Options{})
	p := newOrderPlugin(newOrderStore(), actions.New("mark_paid", noop, actions.Row(), actions.Detail()))
	if err := site.Register(p); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	count := 0
	for _, rt := range site.Routes() {
		if rt.Action == "mark_paid" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("mark_paid has %d routes, want 1", count)
	}

	ma, _ := site.ModelAdmin("shop", "order")
	rowPath := ma.buttons(ma.RowActions(nil, nil), 7)[0].Path
	detailPath := ma.buttons(ma.DetailActions(nil, nil), 7)[0].Path
	if rowPath != detailPath {
		t.Errorf("row path %q != detail path %q", rowPath, detailPath)
	}

	got, err := site.Reverse("shop_order_mark_paid", 7)
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	if !strings.HasSuffix(got, "mark_paid/7/") {
		t.Errorf("Reverse() = %q, want suffix mark_paid/7/", got)
	}
}

func TestRegister_Collisions(t *testing.T) {
	tests := []struct {
		name  string
		first []actions.Action
		acts  []actions.Action
	}{
		{
			name: "builtin view name",
			acts: []actions.Action{actions.New("changelist", noop, actions.List())},
		},
		{
			name: "builtin change name with another arity",
			acts: []actions.Action{actions.New("change", noop, actions.List())},
		},
		{
			name:  "model registered twice",
			first: []actions.Action{actions.New("approve", noop, actions.Row())},
			acts:  []actions.Action{actions.New("approve", noop, actions.Row())},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := NewSite(Options{})
			if tt.first != nil {
				if err := site.Register(newOrderPlugin(newOrderStore(), tt.first...)); err != nil {
					t.Fatalf("first Register() error = %v", err)
				}
			}
			before := len(site.Routes())

			err := site.Register(newOrderPlugin(newOrderStore(), tt.acts...))
			if !errors.Is(err, ErrRouteCollision) {
				t.Fatalf("Register() error = %v, want ErrRouteCollision", err)
			}
			if got := len(site.Routes()); got != before {
				t.Errorf("failed registration added routes: %d -> %d", before, got)
			}
		})
	}
}

func TestRegister_ListAndObjectPlacementShareOneName(t *testing.T) {
	objects := newOrderStore(&order{id: 4})
	var gotPKs []int64
	approve := actions.New("approve", func(v actions.View, r *http.Request, pk int64) (http.Handler, error) {
		gotPKs = append(gotPKs, pk)
		return nil, nil
	}, actions.List(), actions.Row(), actions.Detail())
	site, h := setupSite(t, newOrderPlugin(objects, approve), Options{Messages: setupTestStore(t)})

	var patterns []string
	for _, rt := range site.Routes() {
		if rt.Name == "shop_order_approve" {
			patterns = append(patterns, rt.Pattern)
		}
	}
	if strings.Join(patterns, ",") != "/admin/shop/order/approve/,/admin/shop/order/approve/{pk:[0-9]+}/" {
		t.Fatalf("shop_order_approve patterns = %v, want list and object patterns", patterns)
	}

	list, err := site.Reverse("shop_order_approve")
	if err != nil || list != "/admin/shop/order/approve/" {
		t.Errorf("Reverse() without args = %q, %v", list, err)
	}
	obj, err := site.Reverse("shop_order_approve", 4)
	if err != nil || obj != "/admin/shop/order/approve/4/" {
		t.Errorf("Reverse() with pk = %q, %v", obj, err)
	}

	ma, _ := site.ModelAdmin("shop", "order")
	if got := ma.buttons(ma.ListActions(nil), 0)[0].Path; got != list {
		t.Errorf("list button path = %q, want %q", got, list)
	}
	if got := ma.buttons(ma.RowActions(nil, nil), 4)[0].Path; got != obj {
		t.Errorf("row button path = %q, want %q", got, obj)
	}

	if rr := do(t, h, "POST", list, ""); rr.Code != http.StatusFound || rr.Header().Get("Location") != "/admin/shop/order/" {
		t.Errorf("list invocation = %d %q, want redirect to changelist", rr.Code, rr.Header().Get("Location"))
	}
	if rr := do(t, h, "POST", obj, ""); rr.Code != http.StatusFound || rr.Header().Get("Location") != "/admin/shop/order/4/change/" {
		t.Errorf("object invocation = %d %q, want redirect to change page", rr.Code, rr.Header().Get("Location"))
	}
	if len(gotPKs) != 2 || gotPKs[0] != 0 || gotPKs[1] != 4 {
		t.Errorf("action saw pks %v, want [0 4]", gotPKs)
	}
}

func TestRegister_SeparateModelsDoNotCollide(t *testing.T) {
	site := NewSite(Options{})
	orders := newOrderPlugin(newOrderStore(), actions.New("approve", noop, actions.Row()))
	invoices := newOrderPlugin(newOrderStore(), actions.New("approve", noop, actions.Row()))
	invoices.name = "invoices"
	invoices.meta = core.ModelMeta{AppLabel: "shop", ModelName: "invoice"}

	if err := site.Register(orders); err != nil {
		t.Fatalf("Register(orders) error = %v", err)
	}
	if err := site.Register(invoices); err != nil {
		t.Fatalf("Register(invoices) error = %v", err)
	}

	if got := len(site.ModelAdmins()); got != 2 {
		t.Errorf("ModelAdmins() = %d, want 2", got)
	}
	if site.ModelAdmins()[0].Plugin().Name() != "invoices" {
		t.Error("ModelAdmins() not sorted by plugin name")
	}
}

func TestReverse(t *testing.T) {
	site := NewSite(Options{Prefix: "/backoffice/"})
	p := newOrderPlugin(newOrderStore(),
		actions.New("mark_paid", noop, actions.Row()),
		actions.New("recalculate", noop, actions.List()),
	)
	if err := site.Register(p); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name    string
		route   string
		args    []any
		want    string
		wantErr bool
	}{
		{"object action int64", "shop_order_mark_paid", []any{int64(12)}, "/backoffice/shop/order/mark_paid/12/", false},
		{"object action int", "shop_order_mark_paid", []any{3}, "/backoffice/shop/order/mark_paid/3/", false},
		{"object action string", "shop_order_mark_paid", []any{"44"}, "/backoffice/shop/order/mark_paid/44/", false},
		{"list action", "shop_order_recalculate", nil, "/backoffice/shop/order/recalculate/", false},
		{"change page", "shop_order_change", []any{int64(5)}, "/backoffice/shop/order/5/change/", false},
		{"unknown name", "shop_order_refund", nil, "", true},
		{"missing argument", "shop_order_mark_paid", nil, "", true},
		{"extra argument", "shop_order_recalculate", []any{1}, "", true},
		{"negative key", "shop_order_mark_paid", []any{-1}, "", true},
		{"non-numeric key", "shop_order_mark_paid", []any{"abc"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := site.Reverse(tt.route, tt.args...)
			if tt.wantErr {
				if !errors.Is(err, ErrNoReverseMatch) {
					t.Errorf("Reverse() error = %v, want ErrNoReverseMatch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Reverse() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Reverse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegisterRoutes_StaffGuard(t *testing.T) {
	p := newOrderPlugin(newOrderStore(&order{id: 1}), actions.New("mark_paid", noop, actions.Row()))
	_, h := setupSite(t, p, Options{Staff: []string{"alice"}})

	tests := []struct {
		name   string
		token  string
		path   string
		status int
	}{
		{"anonymous list", "", "/admin/shop/order/", http.StatusForbidden},
		{"anonymous action", "", "/admin/shop/order/mark_paid/1/", http.StatusForbidden},
		{"other user", "user:bob", "/admin/shop/order/", http.StatusForbidden},
		{"staff list", "user:alice", "/admin/shop/order/", http.StatusOK},
		{"static asset is public", "", "/admin/static/css/admin-actions.css", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest("GET", tt.path, "")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := serve(h, req)
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
		})
	}
}

func TestRegisterRoutes_ServesStylesheet(t *testing.T) {
	_, h := setupSite(t, newOrderPlugin(newOrderStore()), Options{})

	rr := do(t, h, "GET", "/admin/static/css/admin-actions.css", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), ".action-button") {
		t.Error("stylesheet does not define .action-button")
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("Content-Type = %q, want text/css", ct)
	}
}
