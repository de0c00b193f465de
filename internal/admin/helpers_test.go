// ABOUTME: Shared fixtures for admin tests: an in-memory order model and a mounted site.
// ABOUTME: Orders carry paid and hidden flags so visibility predicates have state to read.

package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/2389/actionadmin/actions"
	"github.com/2389/actionadmin/internal/auth"
	"github.com/2389/actionadmin/internal/store"
	"github.com/2389/actionadmin/plugins/core"
	"github.com/go-chi/chi/v5"
)

const testSession = "5f0c6c1e-8a57-4f0b-9a43-6d1b1d3c2a10"

type order struct {
	id     int64
	paid   bool
	hidden bool
}

func (o *order) PrimaryKey() int64 { return o.id }
func (o *order) String() string    { return fmt.Sprintf("Order #%d", o.id) }

// orderStore hands out copies so requests never share an order with update.
type orderStore struct {
	mu     sync.Mutex
	orders map[int64]*order
}

func newOrderStore(orders ...*order) *orderStore {
	s := &orderStore{orders: make(map[int64]*order)}
	for _, o := range orders {
		s.orders[o.id] = o
	}
	return s
}

func (s *orderStore) ListObjects(ctx context.Context, opts core.ListOptions) ([]actions.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var objs []actions.Object
	for i, id := range ids {
		if i < opts.Offset {
			continue
		}
		if opts.Limit > 0 && len(objs) == opts.Limit {
			break
		}
		cp := *s.orders[id]
		objs = append(objs, &cp)
	}
	return objs, nil
}

func (s *orderStore) GetObject(ctx context.Context, pk int64) (actions.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[pk]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *orderStore) update(pk int64, fn func(o *order)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[pk]; ok {
		fn(o)
	}
}

type orderPlugin struct {
	name    string
	meta    core.ModelMeta
	table   actions.Table
	objects *orderStore
}

func (p *orderPlugin) Name() string              { return p.name }
func (p *orderPlugin) Meta() core.ModelMeta      { return p.meta }
func (p *orderPlugin) Health() core.HealthStatus { return core.HealthStatus{Status: "healthy"} }
func (p *orderPlugin) Actions() actions.Table    { return p.table }
func (p *orderPlugin) Objects() core.ObjectStore { return p.objects }
func (p *orderPlugin) Seed(ctx context.Context, size string) (core.SeedData, error) {
	return core.SeedData{}, nil
}

func (p *orderPlugin) Schema() core.ModelSchema {
	return core.ModelSchema{Columns: []core.Column{
		{Name: "id", Value: func(obj actions.Object) string { return fmt.Sprint(obj.PrimaryKey()) }},
		{Name: "status", Value: func(obj actions.Object) string {
			if obj.(*order).paid {
				return "paid"
			}
			return "open"
		}},
	}}
}

var shopOrder = core.ModelMeta{AppLabel: "shop", ModelName: "order", VerboseName: "order"}

func newOrderPlugin(objects *orderStore, acts ...actions.Action) *orderPlugin {
	return &orderPlugin{
		name:    "orders",
		meta:    shopOrder,
		table:   actions.MustTable(acts...),
		objects: objects,
	}
}

// markPaid sets the paid flag of the target order
func markPaid(objects *orderStore) actions.Func {
	return func(v actions.View, r *http.Request, pk int64) (http.Handler, error) {
		if _, err := v.GetObject(r, pk); err != nil {
			return nil, err
		}
		objects.update(pk, func(o *order) { o.paid = true })
		return nil, nil
	}
}

func noop(actions.View, *http.Request, int64) (http.Handler, error) {
	return nil, nil
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// setupSite registers p on a fresh site and mounts it on a chi router
func setupSite(t *testing.T, p core.Plugin, opts Options) (*Site, http.Handler) {
	t.Helper()
	site := NewSite(opts)
	if err := site.Register(p); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	r := chi.NewRouter()
	r.Use(auth.Middleware)
	site.RegisterRoutes(r)
	return site, r
}

// newRequest builds a request carrying the shared test session
func newRequest(method, path, form string) *http.Request {
	var req *http.Request
	if form != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: testSession})
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func do(t *testing.T, h http.Handler, method, path, form string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(h, newRequest(method, path, form))
}
