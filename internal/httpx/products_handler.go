package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dimaswib/go-shop-backend/internal/auth"
	"github.com/dimaswib/go-shop-backend/internal/catalog"
)

type ProductsHandler struct {
	Repo   *catalog.Repo
	Tokens auth.Tokens
}

type productReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url"`
	Stock       int    `json:"stock"`
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)

	r.Group(func(g chi.Router) {
		g.Use(RequireAuth(h.Tokens), RequireRole(auth.RoleAdmin))
		g.Post("/products", h.create)
		g.Put("/products/{id}", h.update)
		g.Delete("/products/{id}", h.remove)
	})
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.ByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	admin, ok := principal(w, r)
	if !ok {
		return
	}
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, "invalid json")
		return
	}
	if req.Name == "" || req.PriceCents < 0 || req.Stock < 0 {
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, "name required; price and stock must be non-negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p := &catalog.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		AdminID:     admin.ID,
	}
	if err := h.Repo.Create(ctx, p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	admin, ok := principal(w, r)
	if !ok {
		return
	}
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, "invalid json")
		return
	}
	if req.Name == "" || req.PriceCents < 0 || req.Stock < 0 {
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, "name required; price and stock must be non-negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p := &catalog.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	}
	if err := h.Repo.Update(ctx, admin.ID, p); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.Repo.ByID(ctx, p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ProductsHandler) remove(w http.ResponseWriter, r *http.Request) {
	admin, ok := principal(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, admin.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
