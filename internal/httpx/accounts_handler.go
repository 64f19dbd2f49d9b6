package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dimaswib/go-shop-backend/internal/accounts"
	"github.com/dimaswib/go-shop-backend/internal/auth"
)

type AccountsHandler struct {
	Svc *accounts.Service
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token   string            `json:"token"`
	Account *accounts.Account `json:"account"`
}

func (h *AccountsHandler) Register(r *chi.Mux) {
	r.Post("/auth/register", h.register(auth.RoleBuyer))
	r.Post("/auth/login", h.login(auth.RoleBuyer))
	r.Post("/auth/admin/register", h.register(auth.RoleAdmin))
	r.Post("/auth/admin/login", h.login(auth.RoleAdmin))
}

func (h *AccountsHandler) register(role auth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorKind(w, http.StatusBadRequest, KindInvalid, "invalid json")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		a, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password, role)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

func (h *AccountsHandler) login(role auth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorKind(w, http.StatusBadRequest, KindInvalid, "invalid json")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		token, a, err := h.Svc.Login(ctx, req.Email, req.Password, role)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResp{Token: token, Account: a})
	}
}
