package agro

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestWaterPredictionEndpoint(t *testing.T) {
	mux := newTestMux(t)

	area := 2.0
	temp := 30.0
	hum := 40.0
	rec := postJSON(t, mux, "/api/water-prediction", waterRequest{
		CropType: "Rice", SoilType: "Clay",
		Area: &area, Temperature: &temp, Humidity: &hum,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp WaterEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 27720, resp.WaterRequirement)
	assert.Equal(t, "Daily or maintain standing water", resp.Frequency)
}

func TestWaterPrediction_DefaultsApplied(t *testing.T) {
	mux := newTestMux(t)

	area := 1.0
	rec := postJSON(t, mux, "/api/water-prediction", waterRequest{
		CropType: "Wheat", SoilType: "Loamy", Area: &area,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp WaterEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, DefaultTemperature, resp.Temperature)
	assert.Equal(t, DefaultHumidity, resp.Humidity)
	assert.Equal(t, 6000, resp.WaterRequirement)
}

func TestWaterPrediction_RequiredFields(t *testing.T) {
	mux := newTestMux(t)

	area := 1.0
	tests := []struct {
		name string
		req  waterRequest
	}{
		{name: "missing crop", req: waterRequest{SoilType: "Clay", Area: &area}},
		{name: "missing soil", req: waterRequest{CropType: "Rice", Area: &area}},
		{name: "missing area", req: waterRequest{CropType: "Rice", SoilType: "Clay"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, mux, "/api/water-prediction", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp messageResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Required fields missing", resp.Message)
		})
	}
}

func TestWaterPrediction_MalformedBody(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/water-prediction", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWaterPrediction_MethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/water-prediction", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFertilizerRecommendationEndpoint(t *testing.T) {
	mux := newTestMux(t)

	rec := postJSON(t, mux, "/api/fertilizer-recommendation", fertilizerRequest{
		CropType: "Wheat", SoilType: "Sandy",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp FertilizerPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, DefaultNitrogen, resp.Nitrogen, "absent nutrients fall back to defaults")
	require.Len(t, resp.RecommendedFertilizers, 5)
	assert.Equal(t, "Urea (46% Nitrogen)", resp.RecommendedFertilizers[0].Name)
	assert.Equal(t, 226, resp.RecommendedFertilizers[0].Amount)
}

func TestFertilizerRecommendation_ZeroIsNotAbsent(t *testing.T) {
	mux := newTestMux(t)

	zero := 0.0
	rec := postJSON(t, mux, "/api/fertilizer-recommendation", fertilizerRequest{
		CropType: "Rice", SoilType: "Loamy",
		Nitrogen: &zero, Phosphorus: &zero, Potassium: &zero,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp FertilizerPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp.Nitrogen, "explicit zero must not be replaced by the default")
}

func TestFertilizerRecommendation_RequiredFields(t *testing.T) {
	mux := newTestMux(t)

	rec := postJSON(t, mux, "/api/fertilizer-recommendation", fertilizerRequest{CropType: "Rice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Required fields missing", resp.Message)
}
