package transport

import (
	"errors"
	"net/http"

	"artgens/internal/middleware"
	"artgens/internal/repository"
	"artgens/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddCommentRequest represents the comment creation payload
type AddCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// ToggleLikeResponse reports the liked state after a toggle
type ToggleLikeResponse struct {
	Liked bool `json:"liked"`
}

// SocialHandler handles HTTP requests for likes and comments
type SocialHandler struct {
	socialService service.SocialService
	logger        *zap.Logger
}

// NewSocialHandler creates a new SocialHandler
func NewSocialHandler(socialService service.SocialService, logger *zap.Logger) *SocialHandler {
	return &SocialHandler{
		socialService: socialService,
		logger:        logger,
	}
}

// RegisterRoutes registers all social routes
func (h *SocialHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/api/artworks/{id}/comments", h.ListComments)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/api/artworks/{id}/like", h.ToggleLike)
		r.Post("/api/artworks/{id}/comments", h.AddComment)
	})
}

// ToggleLike flips the caller's liked state on an artwork
func (h *SocialHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	artworkID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	liked, err := h.socialService.ToggleLike(r.Context(), userID, artworkID)
	if err != nil {
		if errors.Is(err, repository.ErrArtworkNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "artwork not found")
			return
		}
		h.logger.Error("Failed to toggle like", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	status := http.StatusOK
	if liked {
		status = http.StatusCreated
	}
	middleware.RespondWithJSON(w, status, ToggleLikeResponse{Liked: liked})
}

// ListComments returns an artwork's comments oldest first
func (h *SocialHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	artworkID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	comments, err := h.socialService.ListComments(r.Context(), artworkID)
	if err != nil {
		if errors.Is(err, repository.ErrArtworkNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "artwork not found")
			return
		}
		h.logger.Error("Failed to list comments", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, comments)
}

// AddComment appends a comment to an artwork
func (h *SocialHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	artworkID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.socialService.AddComment(r.Context(), userID, artworkID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyComment):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrArtworkNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "artwork not found")
		default:
			h.logger.Error("Failed to add comment", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add comment")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, comment)
}
