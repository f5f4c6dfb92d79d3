package transport

import (
	"errors"
	"net/http"

	"artgens/internal/middleware"
	"artgens/internal/repository"
	"artgens/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart payload
type AddToCartRequest struct {
	ArtworkID string `json:"artwork_id" validate:"required,uuid"`
}

// CartHandler handles HTTP requests for cart and checkout operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes; every one requires authentication
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/api/cart", h.List)
		r.Post("/api/cart", h.Add)
		r.Delete("/api/cart/{id}", h.Remove)
		r.Post("/api/cart/checkout", h.Checkout)
	})
}

// List returns the caller's cart entries
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := h.cartService.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Add puts an artwork into the caller's cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	artworkID, err := uuid.Parse(req.ArtworkID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid artwork id")
		return
	}

	if err := h.cartService.Add(r.Context(), userID, artworkID); err != nil {
		switch {
		case errors.Is(err, repository.ErrArtworkNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "artwork not found")
		case errors.Is(err, repository.ErrArtworkSold):
			middleware.RespondWithError(w, http.StatusConflict, "artwork already sold")
		case errors.Is(err, repository.ErrAlreadyInCart):
			middleware.RespondWithError(w, http.StatusConflict, "artwork already in cart")
		default:
			h.logger.Error("Failed to add to cart", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "added to cart"})
}

// Remove deletes one of the caller's cart entries
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	itemID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.cartService.Remove(r.Context(), userID, itemID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
			return
		}
		h.logger.Error("Failed to remove from cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove from cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "removed from cart"})
}

// Checkout consumes the caller's whole cart atomically
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.cartService.Checkout(r.Context(), userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrCartEmpty):
			middleware.RespondWithError(w, http.StatusConflict, "cart is empty")
		case errors.Is(err, repository.ErrArtworkSold):
			middleware.RespondWithError(w, http.StatusConflict, "an artwork in the cart was already sold")
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	h.logger.Info("Checkout completed", zap.String("user_id", userID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "payment successful"})
}
