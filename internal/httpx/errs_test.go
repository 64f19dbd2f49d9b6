package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimaswib/go-shop-backend/internal/accounts"
	"github.com/dimaswib/go-shop-backend/internal/catalog"
	"github.com/dimaswib/go-shop-backend/internal/orders"
)

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) errBody {
	t.Helper()
	var body errBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteErrorTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		code int
		kind string
	}{
		{catalog.ErrProductNotFound, http.StatusNotFound, KindNotFound},
		{orders.ErrNotFound, http.StatusNotFound, KindNotFound},
		{catalog.ErrInsufficientStock, http.StatusConflict, KindInsufficientStock},
		{catalog.ErrNotOwner, http.StatusForbidden, KindUnauthorized},
		{accounts.ErrInvalidCredentials, http.StatusUnauthorized, KindUnauthenticated},
		{accounts.ErrEmailTaken, http.StatusConflict, KindConflict},
		{orders.ErrEmptyOrder, http.StatusBadRequest, KindInvalid},
		{orders.ErrInvalidQty, http.StatusBadRequest, KindInvalid},
		{fmt.Errorf("boom"), http.StatusInternalServerError, KindInternal},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		assert.Equal(t, tc.kind, decodeErr(t, rec).Error.Kind, tc.err.Error())
	}
}

func TestWriteErrorKeepsLineDetail(t *testing.T) {
	err := &orders.LineError{ProductID: "p-42", Available: 1, Err: catalog.ErrInsufficientStock}
	rec := httptest.NewRecorder()
	writeError(rec, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeErr(t, rec)
	assert.Equal(t, KindInsufficientStock, body.Error.Kind)
	assert.Contains(t, body.Error.Detail, "p-42")
}

func TestWriteErrorWrappedNotFoundNamesProduct(t *testing.T) {
	err := &orders.LineError{ProductID: "ghost", Err: catalog.ErrProductNotFound}
	rec := httptest.NewRecorder()
	writeError(rec, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeErr(t, rec).Error.Detail, "ghost")
}
