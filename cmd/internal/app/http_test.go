package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrigate/cmd/internal/advisor"
	"agrigate/cmd/internal/agro"
	api "agrigate/cmd/internal/auth/api"
	"agrigate/cmd/internal/auth/token"
	"agrigate/cmd/internal/detect"
)

func TestRegisterHTTP_RoutesWired(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := token.NewManager(strings.Repeat("s", token.MinSecretBytes), time.Hour)
	require.NoError(t, err)

	gemini, err := advisor.NewClient(advisor.Config{URL: "http://127.0.0.1:0"})
	require.NoError(t, err)

	mux := http.NewServeMux()
	registerHTTP(mux, log, nil, NewMetrics(),
		api.NewHandler(log, nil, tokens, api.Config{}),
		agro.NewHandler(log, 0),
		advisor.NewHandler(log, gemini, 0),
		detect.NewHandler(log, nil),
	)

	t.Run("healthz", func(t *testing.T) {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok\n", rr.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	// Each module's routes answer (with a validation error) rather than 404.
	for _, path := range []string{
		"/register",
		"/login",
		"/api/water-prediction",
		"/api/fertilizer-recommendation",
		"/api/chatbot",
		"/api/disease-detection",
	} {
		t.Run(path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}")))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}
