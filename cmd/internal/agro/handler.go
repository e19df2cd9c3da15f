package agro

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// Handler serves the estimation endpoints. The computations are pure, so
// the handler only parses, validates, and serializes.
type Handler struct {
	log          *slog.Logger
	maxBodyBytes int64
}

// NewHandler constructs an estimation Handler.
func NewHandler(log *slog.Logger, maxBodyBytes int64) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{log: log, maxBodyBytes: maxBodyBytes}
}

// Register wires estimation routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/water-prediction", h.handleWaterPrediction)
	mux.HandleFunc("/api/fertilizer-recommendation", h.handleFertilizerRecommendation)
}

type messageResponse struct {
	Message string `json:"message"`
}

// Request bodies use pointers to distinguish "absent" from zero, because
// absent conditions fall back to documented defaults.
type waterRequest struct {
	CropType    string   `json:"cropType"`
	SoilType    string   `json:"soilType"`
	Area        *float64 `json:"area"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

type fertilizerRequest struct {
	CropType   string   `json:"cropType"`
	SoilType   string   `json:"soilType"`
	Nitrogen   *float64 `json:"nitrogen"`
	Phosphorus *float64 `json:"phosphorus"`
	Potassium  *float64 `json:"potassium"`
}

func (h *Handler) handleWaterPrediction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req waterRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Required fields missing"})
		return
	}
	if strings.TrimSpace(req.CropType) == "" || strings.TrimSpace(req.SoilType) == "" || req.Area == nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Required fields missing"})
		return
	}

	in := WaterInput{
		CropType:    req.CropType,
		SoilType:    req.SoilType,
		Area:        *req.Area,
		Temperature: valueOr(req.Temperature, DefaultTemperature),
		Humidity:    valueOr(req.Humidity, DefaultHumidity),
	}

	h.writeJSON(w, http.StatusOK, EstimateWater(in))
}

func (h *Handler) handleFertilizerRecommendation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req fertilizerRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Required fields missing"})
		return
	}
	if strings.TrimSpace(req.CropType) == "" || strings.TrimSpace(req.SoilType) == "" {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Required fields missing"})
		return
	}

	in := FertilizerInput{
		CropType:   req.CropType,
		SoilType:   req.SoilType,
		Nitrogen:   valueOr(req.Nitrogen, DefaultNitrogen),
		Phosphorus: valueOr(req.Phosphorus, DefaultPhosphorus),
		Potassium:  valueOr(req.Potassium, DefaultPotassium),
	}

	h.writeJSON(w, http.StatusOK, RecommendFertilizer(in))
}

// ---- helpers ----

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	return json.NewDecoder(body).Decode(dst)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
