package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-Id"))
	assert.Len(t, seen, 26, "ULIDs are 26 characters")

	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEqual(t, rr.Header().Get("X-Request-Id"), rr2.Header().Get("X-Request-Id"))
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}

func TestStatusResponseWriter(t *testing.T) {
	t.Run("explicit status", func(t *testing.T) {
		rr := httptest.NewRecorder()
		srw := &statusResponseWriter{ResponseWriter: rr, status: http.StatusOK}

		srw.WriteHeader(http.StatusTeapot)
		n, err := srw.Write([]byte("short"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusTeapot, srw.status)
		assert.Equal(t, 5, n)
		assert.Equal(t, int64(5), srw.bytes)
	})

	t.Run("implicit 200", func(t *testing.T) {
		rr := httptest.NewRecorder()
		srw := &statusResponseWriter{ResponseWriter: rr, status: http.StatusOK}

		_, err := srw.Write([]byte("ok"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, srw.status)
	})
}

func TestWithRequestLogging_PreservesResponse(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}), log)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/register", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}
