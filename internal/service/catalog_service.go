package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artgens/internal/domain"
	"artgens/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNotArtist      = errors.New("only artists can list artworks")
	ErrNotOwner       = errors.New("only the owning artist can modify this artwork")
	ErrMissingTitle   = errors.New("title is required")
	ErrNegativePrice  = errors.New("price must be a non-negative number")
)

// ArtworkInput carries the fields accepted when creating an artwork
type ArtworkInput struct {
	Title       string
	Description string
	Price       float64
	ImageURL    string
	CategoryIDs []uuid.UUID
}

// CatalogService defines the interface for artwork catalog business logic
type CatalogService interface {
	List(ctx context.Context) ([]*domain.ArtworkView, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ArtworkView, error)
	Create(ctx context.Context, artist *domain.User, input ArtworkInput) (*domain.Artwork, error)
	Update(ctx context.Context, userID, id uuid.UUID, upd repository.ArtworkUpdate) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Categories(ctx context.Context) ([]*domain.Category, error)
}

type catalogService struct {
	artworkRepo  repository.ArtworkRepository
	categoryRepo repository.CategoryRepository
	includeSold  bool
}

// NewCatalogService creates a new instance of CatalogService. includeSold
// controls whether sold pieces appear in listings.
func NewCatalogService(
	artworkRepo repository.ArtworkRepository,
	categoryRepo repository.CategoryRepository,
	includeSold bool,
) CatalogService {
	return &catalogService{
		artworkRepo:  artworkRepo,
		categoryRepo: categoryRepo,
		includeSold:  includeSold,
	}
}

// List returns all artworks in insertion order with artist names and like counts
func (s *catalogService) List(ctx context.Context) ([]*domain.ArtworkView, error) {
	views, err := s.artworkRepo.List(ctx, s.includeSold)
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	return views, nil
}

// Get returns a single artwork view including the artist's bio
func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*domain.ArtworkView, error) {
	view, err := s.artworkRepo.FindViewByID(ctx, id)
	if err != nil {
		if err == repository.ErrArtworkNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get artwork: %w", err)
	}
	return view, nil
}

// Create lists a new artwork. The caller must be an artist; title is required
// and price must be non-negative. Unknown category ids are silently dropped.
// The artist is fixed at creation and never changes.
func (s *catalogService) Create(ctx context.Context, artist *domain.User, input ArtworkInput) (*domain.Artwork, error) {
	if !artist.IsArtist {
		return nil, ErrNotArtist
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrMissingTitle
	}
	if input.Price < 0 {
		return nil, ErrNegativePrice
	}

	artwork := &domain.Artwork{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		IsSold:      false,
		ArtistID:    artist.ID,
		CreatedAt:   time.Now(),
	}

	if err := s.artworkRepo.Create(ctx, artwork, input.CategoryIDs); err != nil {
		return nil, fmt.Errorf("failed to create artwork: %w", err)
	}

	return artwork, nil
}

// Update applies a partial update after checking ownership. Fields left nil
// retain their prior value; a supplied price is re-validated.
func (s *catalogService) Update(ctx context.Context, userID, id uuid.UUID, upd repository.ArtworkUpdate) error {
	if upd.Price != nil && *upd.Price < 0 {
		return ErrNegativePrice
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return ErrMissingTitle
	}

	if err := s.requireOwner(ctx, userID, id); err != nil {
		return err
	}

	if err := s.artworkRepo.Update(ctx, id, upd); err != nil {
		if err == repository.ErrArtworkNotFound {
			return err
		}
		return fmt.Errorf("failed to update artwork: %w", err)
	}

	return nil
}

// Delete removes an artwork and all its dependent rows after checking ownership
func (s *catalogService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.requireOwner(ctx, userID, id); err != nil {
		return err
	}

	if err := s.artworkRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrArtworkNotFound {
			return err
		}
		return fmt.Errorf("failed to delete artwork: %w", err)
	}

	return nil
}

// Categories returns the seeded category list
func (s *catalogService) Categories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) requireOwner(ctx context.Context, userID, id uuid.UUID) error {
	artwork, err := s.artworkRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrArtworkNotFound {
			return err
		}
		return fmt.Errorf("failed to find artwork: %w", err)
	}

	if artwork.ArtistID != userID {
		return ErrNotOwner
	}

	return nil
}
