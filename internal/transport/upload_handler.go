package transport

import (
	"io"
	"net/http"

	"artgens/internal/imagestore"
	"artgens/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadBytes caps image uploads at 10 MiB
const maxUploadBytes = 10 << 20

// UploadResponse returns the CDN-hosted URL of an uploaded image
type UploadResponse struct {
	ImageURL string `json:"image_url"`
}

// UploadHandler forwards image bytes to the CDN and returns the hosted URL.
// The bytes are never stored locally.
type UploadHandler struct {
	uploader imagestore.Uploader
	logger   *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploader imagestore.Uploader, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// RegisterRoutes registers the upload route
func (h *UploadHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/api/upload", h.Upload)
	})
}

// Upload accepts a multipart image and responds with its hosted URL
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read image")
		return
	}

	url, err := h.uploader.Upload(r.Context(), data, header.Filename)
	if err != nil {
		h.logger.Error("Image upload failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, UploadResponse{ImageURL: url})
}
