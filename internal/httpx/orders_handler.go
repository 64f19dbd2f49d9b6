package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/dimaswib/go-shop-backend/internal/auth"
	"github.com/dimaswib/go-shop-backend/internal/catalog"
	kafkax "github.com/dimaswib/go-shop-backend/internal/kafka"
	"github.com/dimaswib/go-shop-backend/internal/metrics"
	"github.com/dimaswib/go-shop-backend/internal/orders"
	"github.com/dimaswib/go-shop-backend/internal/redisx"
)

// Publisher is the event sink; satisfied by *kafkax.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

var _ Publisher = (*kafkax.Producer)(nil)

type OrdersHandler struct {
	Svc            *orders.Service
	Producer       Publisher // order.placed
	StatusProducer Publisher // order.status.changed
	Redis          *redis.Client
	Service        string
}

type placeOrderReq struct {
	Lines []orders.LineInput `json:"lines"`
}

func (h *OrdersHandler) Register(r *chi.Mux, tokens auth.Tokens) {
	r.Group(func(g chi.Router) {
		g.Use(RequireAuth(tokens))

		g.With(RequireRole(auth.RoleBuyer)).Post("/orders", h.place)
		g.With(RequireRole(auth.RoleBuyer)).Get("/orders/my", h.listMine)
		g.With(RequireRole(auth.RoleAdmin)).Get("/orders", h.listAll)
		g.With(RequireRole(auth.RoleAdmin)).Put("/orders/{id}/status", h.updateStatus)
		g.Get("/orders/{id}", h.get)
	})
}

func (h *OrdersHandler) place(w http.ResponseWriter, r *http.Request) {
	buyer, ok := principal(w, r)
	if !ok {
		return
	}
	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	externalID := r.Header.Get("Idempotency-Key")
	o, err := h.Svc.Place(ctx, buyer.ID, externalID, req.Lines)
	if err != nil {
		if errors.Is(err, catalog.ErrInsufficientStock) {
			metrics.StockRejectedTotal.Inc()
		}
		writeError(w, err)
		return
	}
	metrics.OrdersPlacedTotal.Inc()

	h.cacheStatus(ctx, o)
	if externalID != "" && h.Redis != nil {
		_ = h.Redis.Set(ctx, fmt.Sprintf(redisx.KeyIdemOrderPlace, externalID), o.ID, redisx.TTLIdempotency).Err()
	}
	h.publish(h.Producer, o, orders.EventOrderPlaced, orders.OrderPlacedPayload{
		OrderID:    o.ID,
		BuyerID:    o.BuyerID,
		Lines:      o.Lines,
		TotalCents: o.TotalCents,
	}, chimw.GetReqID(r.Context()))

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	os, err := h.Svc.ListAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if os == nil {
		os = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, os)
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	buyer, ok := principal(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	os, err := h.Svc.ListByBuyer(ctx, buyer.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if os == nil {
		os = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, os)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	// buyers may only read their own orders
	if caller.Role != auth.RoleAdmin && o.BuyerID != caller.ID {
		writeErrorKind(w, http.StatusForbidden, KindUnauthorized, "not your order")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, "invalid json")
		return
	}

	if _, err := orders.ParseStatus(req.Status); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.UpdateStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheStatus(ctx, o)
	h.publish(h.StatusProducer, o, orders.EventOrderStatusChanged, orders.OrderStatusChangedPayload{
		OrderID: o.ID,
		Status:  o.Status,
	}, chimw.GetReqID(r.Context()))

	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, o *orders.Order) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	body, _ := json.Marshal(map[string]any{"status": o.Status})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) publish(p Publisher, o *orders.Order, eventType string, payload any, traceID string) {
	if p == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
