package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dimaswib/go-shop-backend/internal/auth"
	"github.com/dimaswib/go-shop-backend/internal/catalog"
	"github.com/dimaswib/go-shop-backend/internal/orders"
)

// fakeLedger backs the handler tests without a database.
type fakeLedger struct {
	mu       sync.Mutex
	products map[string]*catalog.Product
	orders   map[string]*orders.Order
}

type fakeTx struct{ l *fakeLedger }

func (l *fakeLedger) WithinTx(_ context.Context, fn func(tx orders.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := map[string]int{}
	for id, p := range l.products {
		snapshot[id] = p.Stock
	}
	if err := fn(&fakeTx{l: l}); err != nil {
		for id, st := range snapshot {
			l.products[id].Stock = st
		}
		return err
	}
	return nil
}

func (t *fakeTx) ProductForUpdate(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := t.l.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (t *fakeTx) DecrementStock(_ context.Context, id string, qty int) error {
	p := t.l.products[id]
	if p.Stock < qty {
		return catalog.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (t *fakeTx) InsertOrder(_ context.Context, o *orders.Order) error {
	cp := *o
	t.l.orders[o.ID] = &cp
	return nil
}

func (l *fakeLedger) ByID(_ context.Context, id string) (*orders.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if o, ok := l.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, orders.ErrNotFound
}

func (l *fakeLedger) ByExternalID(context.Context, string) (*orders.Order, error) {
	return nil, orders.ErrNotFound
}

func (l *fakeLedger) ListAll(context.Context) ([]orders.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []orders.Order
	for _, o := range l.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (l *fakeLedger) ListByBuyer(_ context.Context, buyerID string) ([]orders.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []orders.Order
	for _, o := range l.orders {
		if o.BuyerID == buyerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (l *fakeLedger) UpdateStatus(_ context.Context, id string, st orders.Status) (*orders.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o, ok := l.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	o.Status = st
	cp := *o
	return &cp, nil
}

func newOrdersRouter(t *testing.T, l *fakeLedger) http.Handler {
	t.Helper()
	r := NewRouter(zap.NewNop())
	h := &OrdersHandler{
		Svc:     &orders.Service{Ledger: l, Log: zap.NewNop()},
		Service: "test",
	}
	h.Register(r, testTokens)
	return r
}

func bearer(t *testing.T, subject string, role auth.Role) string {
	t.Helper()
	tok, err := testTokens.Mint(subject, role, time.Now())
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestPlaceOrderEndpoint(t *testing.T) {
	l := &fakeLedger{
		products: map[string]*catalog.Product{"p1": {ID: "p1", PriceCents: 1000, Stock: 5}},
		orders:   map[string]*orders.Order{},
	}
	r := newOrdersRouter(t, l)

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"lines":[{"product_id":"p1","qty":3}]}`))
	req.Header.Set("Authorization", bearer(t, "buyer-1", auth.RoleBuyer))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var o orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, int64(3000), o.TotalCents)
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.Equal(t, 2, l.products["p1"].Stock)

	// second identical request exceeds the 2 remaining units
	req = httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"lines":[{"product_id":"p1","qty":3}]}`))
	req.Header.Set("Authorization", bearer(t, "buyer-1", auth.RoleBuyer))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, KindInsufficientStock, decodeErr(t, rec).Error.Kind)
	assert.Equal(t, 2, l.products["p1"].Stock)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	l := &fakeLedger{products: map[string]*catalog.Product{}, orders: map[string]*orders.Order{}}
	r := newOrdersRouter(t, l)

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"lines":[{"product_id":"ghost","qty":1}]}`))
	req.Header.Set("Authorization", bearer(t, "buyer-1", auth.RoleBuyer))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeErr(t, rec).Error.Detail, "ghost")
}

func TestPlaceOrderRequiresBuyerRole(t *testing.T) {
	l := &fakeLedger{products: map[string]*catalog.Product{}, orders: map[string]*orders.Order{}}
	r := newOrdersRouter(t, l)

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"lines":[{"product_id":"p1","qty":1}]}`))
	req.Header.Set("Authorization", bearer(t, "admin-1", auth.RoleAdmin))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetOrderOwnership(t *testing.T) {
	l := &fakeLedger{
		products: map[string]*catalog.Product{},
		orders: map[string]*orders.Order{
			"o1": {ID: "o1", BuyerID: "buyer-1", Status: orders.StatusPending},
		},
	}
	r := newOrdersRouter(t, l)

	// another buyer must not read it
	req := httptest.NewRequest(http.MethodGet, "/orders/o1", nil)
	req.Header.Set("Authorization", bearer(t, "buyer-2", auth.RoleBuyer))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the owner can
	req = httptest.NewRequest(http.MethodGet, "/orders/o1", nil)
	req.Header.Set("Authorization", bearer(t, "buyer-1", auth.RoleBuyer))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// and so can an admin
	req = httptest.NewRequest(http.MethodGet, "/orders/o1", nil)
	req.Header.Set("Authorization", bearer(t, "admin-1", auth.RoleAdmin))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	l := &fakeLedger{
		products: map[string]*catalog.Product{},
		orders: map[string]*orders.Order{
			"o1": {ID: "o1", BuyerID: "buyer-1", Status: orders.StatusPending},
		},
	}
	r := newOrdersRouter(t, l)

	req := httptest.NewRequest(http.MethodPut, "/orders/o1/status",
		strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set("Authorization", bearer(t, "admin-1", auth.RoleAdmin))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var o orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, orders.StatusShipped, o.Status)

	// unknown order id
	req = httptest.NewRequest(http.MethodPut, "/orders/nope/status",
		strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set("Authorization", bearer(t, "admin-1", auth.RoleAdmin))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// unknown status value
	req = httptest.NewRequest(http.MethodPut, "/orders/o1/status",
		strings.NewReader(`{"status":"refunded"}`))
	req.Header.Set("Authorization", bearer(t, "admin-1", auth.RoleAdmin))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// buyers cannot set status
	req = httptest.NewRequest(http.MethodPut, "/orders/o1/status",
		strings.NewReader(`{"status":"pending"}`))
	req.Header.Set("Authorization", bearer(t, "buyer-1", auth.RoleBuyer))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
