package transport

import (
	"errors"
	"net/http"

	"artgens/internal/domain"
	"artgens/internal/middleware"
	"artgens/internal/repository"
	"artgens/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateArtworkRequest represents the artwork creation payload
type CreateArtworkRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	ImageURL    string   `json:"image_url"`
	CategoryIDs []string `json:"category_ids"`
}

// UpdateArtworkRequest carries a partial update; absent fields keep their value
type UpdateArtworkRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
}

// CreateArtworkResponse returns the id of a newly listed artwork
type CreateArtworkResponse struct {
	ArtworkID string `json:"artwork_id"`
}

// ArtworkHandler handles HTTP requests for the catalog
type ArtworkHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewArtworkHandler creates a new ArtworkHandler
func NewArtworkHandler(catalogService service.CatalogService, logger *zap.Logger) *ArtworkHandler {
	return &ArtworkHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *ArtworkHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/api/artworks", h.List)
	r.Get("/api/artworks/{id}", h.Get)
	r.Get("/api/categories", h.Categories)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/api/artworks", h.Create)
		r.Put("/api/artworks/{id}", h.Update)
		r.Delete("/api/artworks/{id}", h.Delete)
	})
}

// List returns every artwork with artist names and like counts
func (h *ArtworkHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.catalogService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list artworks", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list artworks")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// Get returns one artwork with the artist's bio and like count
func (h *ArtworkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrArtworkNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "artwork not found")
			return
		}
		h.logger.Error("Failed to get artwork", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get artwork")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// Create lists a new artwork for the authenticated artist
func (h *ArtworkHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	isArtist, _ := middleware.GetIsArtist(r.Context())

	var req CreateArtworkRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Artwork validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Malformed category ids are dropped the same way unknown ones are
	categoryIDs := make([]uuid.UUID, 0, len(req.CategoryIDs))
	for _, raw := range req.CategoryIDs {
		if id, err := uuid.Parse(raw); err == nil {
			categoryIDs = append(categoryIDs, id)
		}
	}

	artist := &domain.User{ID: userID, IsArtist: isArtist}
	artwork, err := h.catalogService.Create(r.Context(), artist, service.ArtworkInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		ImageURL:    req.ImageURL,
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotArtist):
			middleware.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrMissingTitle), errors.Is(err, service.ErrNegativePrice):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create artwork", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create artwork")
		}
		return
	}

	h.logger.Info("Artwork created",
		zap.String("artwork_id", artwork.ID.String()),
		zap.String("artist_id", userID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, CreateArtworkResponse{ArtworkID: artwork.ID.String()})
}

// Update applies a partial update to one of the caller's artworks
func (h *ArtworkHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateArtworkRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.catalogService.Update(r.Context(), userID, id, repository.ArtworkUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrArtworkNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "artwork not found")
		case errors.Is(err, service.ErrNotOwner):
			middleware.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrMissingTitle), errors.Is(err, service.ErrNegativePrice):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to update artwork", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update artwork")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "artwork updated"})
}

// Delete removes one of the caller's artworks and everything referencing it
func (h *ArtworkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.catalogService.Delete(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrArtworkNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "artwork not found")
		case errors.Is(err, service.ErrNotOwner):
			middleware.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			h.logger.Error("Failed to delete artwork", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete artwork")
		}
		return
	}

	h.logger.Info("Artwork deleted", zap.String("artwork_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "artwork deleted"})
}

// Categories returns the seeded category list
func (h *ArtworkHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.Categories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// parseIDParam reads the {id} route parameter, answering 404 on malformed ids
// so unknown and unparseable ids are indistinguishable
func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}
