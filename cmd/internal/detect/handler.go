package detect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// maxUploadBytes caps the accepted image size (16 MiB).
const maxUploadBytes = 16 << 20

// allowedExtensions is the upload extension allow-list.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Handler serves the disease detection endpoint.
type Handler struct {
	log        *slog.Logger
	classifier Classifier
}

// NewHandler constructs a detection Handler around any Classifier.
func NewHandler(log *slog.Logger, classifier Classifier) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if classifier == nil {
		classifier = StubClassifier{}
	}
	return &Handler{log: log, classifier: classifier}
}

// Register wires the detection route onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/disease-detection", h.handleDetection)
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleDetection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "No image uploaded"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	// The multipart parser files a part under Value, not File, when its
	// filename is empty: that is the "field submitted, nothing selected"
	// shape browsers send for an untouched file input.
	headers := r.MultipartForm.File["uploaded_image"]
	if len(headers) == 0 {
		if _, present := r.MultipartForm.Value["uploaded_image"]; present {
			h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "No image selected"})
			return
		}
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "No image uploaded"})
		return
	}

	header := headers[0]
	filename := strings.TrimSpace(header.Filename)
	if filename == "" {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "No image selected"})
		return
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid file format. Only JPG, JPEG, and PNG are allowed"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "No image uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	res, err := h.classifier.Classify(r.Context(), Input{
		Filename: filename,
		Prompt:   r.FormValue("user_prompt"),
		Image:    file,
	})
	if err != nil {
		h.log.Error("detect.classify.fail", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Error during disease detection"})
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
