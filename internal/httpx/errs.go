package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dimaswib/go-shop-backend/internal/accounts"
	"github.com/dimaswib/go-shop-backend/internal/auth"
	"github.com/dimaswib/go-shop-backend/internal/cart"
	"github.com/dimaswib/go-shop-backend/internal/catalog"
	"github.com/dimaswib/go-shop-backend/internal/orders"
)

// Error kinds surfaced to clients. Every handler failure maps to one of
// these plus enough detail (which product, which order) to act on.
const (
	KindNotFound          = "NotFound"
	KindInsufficientStock = "InsufficientStock"
	KindUnauthenticated   = "Unauthenticated"
	KindUnauthorized      = "Unauthorized"
	KindInvalid           = "Invalid"
	KindConflict          = "Conflict"
	KindInternal          = "Internal"
)

type errBody struct {
	Error errDetail `json:"error"`
}

type errDetail struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorKind(w http.ResponseWriter, code int, kind, detail string) {
	writeJSON(w, code, errBody{Error: errDetail{Kind: kind, Detail: detail}})
}

// writeError translates domain errors into the wire taxonomy.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrInsufficientStock):
		writeErrorKind(w, http.StatusConflict, KindInsufficientStock, err.Error())
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, orders.ErrNotFound),
		errors.Is(err, cart.ErrLineNotFound):
		writeErrorKind(w, http.StatusNotFound, KindNotFound, err.Error())
	case errors.Is(err, catalog.ErrNotOwner):
		writeErrorKind(w, http.StatusForbidden, KindUnauthorized, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		writeErrorKind(w, http.StatusUnauthorized, KindUnauthenticated, err.Error())
	case errors.Is(err, accounts.ErrInvalidCredentials):
		writeErrorKind(w, http.StatusUnauthorized, KindUnauthenticated, err.Error())
	case errors.Is(err, accounts.ErrEmailTaken):
		writeErrorKind(w, http.StatusConflict, KindConflict, err.Error())
	case errors.Is(err, accounts.ErrInvalidInput),
		errors.Is(err, orders.ErrEmptyOrder),
		errors.Is(err, orders.ErrInvalidQty),
		errors.Is(err, cart.ErrInvalidQty):
		writeErrorKind(w, http.StatusBadRequest, KindInvalid, err.Error())
	default:
		writeErrorKind(w, http.StatusInternalServerError, KindInternal, err.Error())
	}
}
