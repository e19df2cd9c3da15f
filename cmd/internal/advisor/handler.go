package advisor

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// Handler serves the chatbot proxy endpoint.
type Handler struct {
	log          *slog.Logger
	gen          Generator
	maxBodyBytes int64
}

// NewHandler constructs a chatbot Handler around any Generator.
func NewHandler(log *slog.Logger, gen Generator, maxBodyBytes int64) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{log: log, gen: gen, maxBodyBytes: maxBodyBytes}
}

// Register wires the chatbot route onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/chatbot", h.handleChatbot)
}

type chatRequest struct {
	UserInput string `json:"user_input"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleChatbot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := h.decode(w, r, &req); err != nil || strings.TrimSpace(req.UserInput) == "" {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "User input is required"})
		return
	}

	text, err := h.gen.Generate(r.Context(), req.UserInput)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyResponse):
			h.log.Error("chatbot.generate.empty", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Could not extract text from the API response"})
		default:
			h.log.Error("chatbot.generate.fail", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Text generation failed"})
		}
		return
	}

	h.writeJSON(w, http.StatusOK, chatResponse{Response: text})
}

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
