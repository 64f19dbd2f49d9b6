package httpx

import (
	"net/http"
	"strings"

	"github.com/dimaswib/go-shop-backend/internal/auth"
)

// RequireAuth resolves the bearer token to a Principal before any
// protected handler runs.
func RequireAuth(tokens auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(raw, "Bearer ")
			if !ok || token == "" {
				writeErrorKind(w, http.StatusUnauthorized, KindUnauthenticated, "missing bearer token")
				return
			}
			p, err := tokens.Verify(token)
			if err != nil {
				writeErrorKind(w, http.StatusUnauthorized, KindUnauthenticated, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole gates a subtree on the caller's role; must sit inside
// RequireAuth.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFrom(r.Context())
			if !ok {
				writeErrorKind(w, http.StatusUnauthorized, KindUnauthenticated, "missing bearer token")
				return
			}
			if p.Role != role {
				writeErrorKind(w, http.StatusForbidden, KindUnauthorized, "requires role "+string(role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeErrorKind(w, http.StatusUnauthorized, KindUnauthenticated, "missing bearer token")
	}
	return p, ok
}
