package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimaswib/go-shop-backend/internal/auth"
)

var testTokens = auth.Tokens{Secret: []byte("test-secret"), TTL: time.Hour}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFrom(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(p.ID))
	})
}

func TestRequireAuthResolvesPrincipal(t *testing.T) {
	h := RequireAuth(testTokens)(protectedEcho(t))

	token, err := testTokens.Mint("buyer-7", auth.RoleBuyer, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "buyer-7", rec.Body.String())
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	h := RequireAuth(testTokens)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, KindUnauthenticated, decodeErr(t, rec).Error.Kind)
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	h := RequireAuth(testTokens)(protectedEcho(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	h := RequireAuth(testTokens)(RequireRole(auth.RoleAdmin)(protectedEcho(t)))

	buyerToken, err := testTokens.Mint("buyer-7", auth.RoleBuyer, time.Now())
	require.NoError(t, err)
	adminToken, err := testTokens.Mint("admin-1", auth.RoleAdmin, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+buyerToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, KindUnauthorized, decodeErr(t, rec).Error.Kind)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
