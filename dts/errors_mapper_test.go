package dts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// respondWith returns a live resty response carrying the given status and
// body, so mapHTTPError sees exactly what it would in production.
func respondWith(t *testing.T, status int, body string) *resty.Response {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	resp, err := resty.New().R().SetContext(context.Background()).Get(srv.URL)
	require.NoError(t, err)
	return resp
}

func TestMapHTTPError_Success(t *testing.T) {
	assert.NoError(t, mapHTTPError(respondWith(t, http.StatusOK, "{}")))
	assert.NoError(t, mapHTTPError(respondWith(t, http.StatusCreated, "{}")))
	assert.NoError(t, mapHTTPError(respondWith(t, http.StatusAccepted, "")))
}

func TestMapHTTPError_Sentinels(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusInternalServerError, ErrInternalServerError},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusServiceUnavailable, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := mapHTTPError(respondWith(t, tt.status, `{"code":400,"error":"detail"}`))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapHTTPError_ExtractsAPIErrorMessage(t *testing.T) {
	err := mapHTTPError(respondWith(t, http.StatusBadRequest, `{"code":400,"error":"unknown database"}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database")
}

func TestMapHTTPError_PlainTextBody(t *testing.T) {
	err := mapHTTPError(respondWith(t, http.StatusBadGateway, "upstream timeout"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestMapHTTPError_EmptyBodyUsesStatusText(t *testing.T) {
	err := mapHTTPError(respondWith(t, http.StatusNotFound, ""))

	require.Error(t, err)
	assert.Contains(t, err.Error(), http.StatusText(http.StatusNotFound))
}

func TestMapHTTPError_UnmappedStatus(t *testing.T) {
	err := mapHTTPError(respondWith(t, http.StatusTeapot, "short and stout"))

	require.Error(t, err)
	for _, sentinel := range []error{ErrBadRequest, ErrUnauthorized, ErrNotFound} {
		assert.False(t, errors.Is(err, sentinel))
	}
	assert.Contains(t, err.Error(), "418")
}
