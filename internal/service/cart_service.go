package service

import (
	"context"
	"fmt"
	"time"

	"artgens/internal/domain"
	"artgens/internal/repository"

	"github.com/google/uuid"
)

// CartService defines the interface for cart and checkout business logic
type CartService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*domain.CartItemView, error)
	Add(ctx context.Context, userID, artworkID uuid.UUID) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Checkout(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	artworkRepo repository.ArtworkRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, artworkRepo repository.ArtworkRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		artworkRepo: artworkRepo,
	}
}

// List returns the caller's cart entries joined with artwork details
func (s *cartService) List(ctx context.Context, userID uuid.UUID) ([]*domain.CartItemView, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	return items, nil
}

// Add puts an unsold artwork into the caller's cart. A sold artwork or a
// duplicate pair is rejected; the storage layer guards both under concurrency.
func (s *cartService) Add(ctx context.Context, userID, artworkID uuid.UUID) error {
	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ArtworkID: artworkID,
		CreatedAt: time.Now(),
	}

	if err := s.cartRepo.Add(ctx, item); err != nil {
		switch err {
		case repository.ErrArtworkNotFound, repository.ErrArtworkSold, repository.ErrAlreadyInCart:
			return err
		}
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	return nil
}

// Remove deletes one of the caller's cart entries. Entries belonging to other
// users are indistinguishable from missing ones.
func (s *cartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.cartRepo.Remove(ctx, userID, itemID); err != nil {
		if err == repository.ErrCartItemNotFound {
			return err
		}
		return fmt.Errorf("failed to remove from cart: %w", err)
	}
	return nil
}

// Checkout atomically marks every carted artwork sold and empties the cart.
// Either all entries are consumed or none are.
func (s *cartService) Checkout(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.Checkout(ctx, userID); err != nil {
		switch err {
		case repository.ErrCartEmpty, repository.ErrArtworkSold:
			return err
		}
		return fmt.Errorf("failed to checkout: %w", err)
	}
	return nil
}
