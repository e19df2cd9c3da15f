package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_MiddlewareCountsRequests(t *testing.T) {
	m := NewMetrics()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/water-prediction", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	h := m.Middleware(mux)

	for range 3 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/water-prediction", nil))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	}

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, scrape.Code)

	body := scrape.Body.String()
	assert.Contains(t, body, `agrigate_http_requests_total{method="POST",pattern="/api/water-prediction",status="400"} 3`)
	assert.Contains(t, body, "agrigate_http_request_duration_seconds")
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	m := NewMetrics()
	h := m.Middleware(http.NewServeMux())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/no-such-route", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `pattern="unmatched"`)
}
