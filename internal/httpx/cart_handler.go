package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dimaswib/go-shop-backend/internal/auth"
	"github.com/dimaswib/go-shop-backend/internal/cart"
)

// CartStore is what the handler needs from cart persistence.
type CartStore interface {
	Get(ctx context.Context, userID string) (cart.Lines, error)
	AddLine(ctx context.Context, userID, productID string, qty int) error
	SetLine(ctx context.Context, userID, productID string, qty int) error
	RemoveLine(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type CartHandler struct {
	Store  CartStore
	Tokens auth.Tokens
}

type cartLineReq struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type cartResp struct {
	Lines         cart.Lines `json:"lines"`
	SubtotalCents int64      `json:"subtotal_cents"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Group(func(g chi.Router) {
		g.Use(RequireAuth(h.Tokens), RequireRole(auth.RoleBuyer))
		g.Get("/cart", h.get)
		g.Post("/cart/items", h.add)
		g.Put("/cart/items/{productID}", h.set)
		g.Delete("/cart/items/{productID}", h.remove)
		g.Delete("/cart", h.clear)
	})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	buyer, ok := principal(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	lines, err := h.Store.Get(ctx, buyer.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if lines == nil {
		lines = cart.Lines{}
	}
	writeJSON(w, http.StatusOK, cartResp{Lines: lines, SubtotalCents: lines.SubtotalCents()})
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	buyer, ok := principal(w, r)
	if !ok {
		return
	}
	var req cartLineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, "product_id required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.AddLine(ctx, buyer.ID, req.ProductID, req.Qty); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithCart(ctx, w, buyer.ID)
}

func (h *CartHandler) set(w http.ResponseWriter, r *http.Request) {
	buyer, ok := principal(w, r)
	if !ok {
		return
	}
	var req struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.SetLine(ctx, buyer.ID, chi.URLParam(r, "productID"), req.Qty); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithCart(ctx, w, buyer.ID)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	buyer, ok := principal(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.RemoveLine(ctx, buyer.ID, chi.URLParam(r, "productID")); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithCart(ctx, w, buyer.ID)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	buyer, ok := principal(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Clear(ctx, buyer.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *CartHandler) respondWithCart(ctx context.Context, w http.ResponseWriter, userID string) {
	lines, err := h.Store.Get(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if lines == nil {
		lines = cart.Lines{}
	}
	writeJSON(w, http.StatusOK, cartResp{Lines: lines, SubtotalCents: lines.SubtotalCents()})
}
