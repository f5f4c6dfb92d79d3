package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"artgens/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrArtworkNotFound = errors.New("artwork not found")
)

// ArtworkUpdate carries a partial update; nil fields keep their prior value
type ArtworkUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	ImageURL    *string
}

// ArtworkRepository defines the interface for artwork data access
type ArtworkRepository interface {
	Create(ctx context.Context, artwork *domain.Artwork, categoryIDs []uuid.UUID) error
	Update(ctx context.Context, id uuid.UUID, upd ArtworkUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Artwork, error)
	FindViewByID(ctx context.Context, id uuid.UUID) (*domain.ArtworkView, error)
	List(ctx context.Context, includeSold bool) ([]*domain.ArtworkView, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type artworkRepository struct {
	db *sql.DB
}

// NewArtworkRepository creates a new instance of ArtworkRepository
func NewArtworkRepository(db *sql.DB) ArtworkRepository {
	return &artworkRepository{db: db}
}

// Create inserts a new artwork and its category links in a single transaction.
// Category ids that do not exist are silently skipped.
func (r *artworkRepository) Create(ctx context.Context, artwork *domain.Artwork, categoryIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertArtwork := `
		INSERT INTO artworks (id, title, description, price, image_url, is_sold, artist_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.ExecContext(
		ctx,
		insertArtwork,
		artwork.ID,
		artwork.Title,
		artwork.Description,
		artwork.Price,
		artwork.ImageURL,
		artwork.IsSold,
		artwork.ArtistID,
		artwork.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create artwork: %w", err)
	}

	linkCategory := `
		INSERT INTO artwork_categories (artwork_id, category_id)
		SELECT $1, id FROM categories WHERE id = $2
	`

	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx, linkCategory, artwork.ID, categoryID); err != nil {
			return fmt.Errorf("failed to link category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit artwork creation: %w", err)
	}

	return nil
}

// Update applies a partial update; fields left nil retain their prior value
func (r *artworkRepository) Update(ctx context.Context, id uuid.UUID, upd ArtworkUpdate) error {
	query := `
		UPDATE artworks
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    price = COALESCE($4, price),
		    image_url = COALESCE($5, image_url)
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, upd.Title, upd.Description, upd.Price, upd.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to update artwork: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrArtworkNotFound
	}

	return nil
}

// Delete removes an artwork together with its likes, comments, cart entries
// and category links in a single transaction, so no orphan rows survive.
func (r *artworkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	dependents := []string{
		`DELETE FROM likes WHERE artwork_id = $1`,
		`DELETE FROM comments WHERE artwork_id = $1`,
		`DELETE FROM cart_items WHERE artwork_id = $1`,
		`DELETE FROM artwork_categories WHERE artwork_id = $1`,
	}

	for _, stmt := range dependents {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete artwork dependents: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM artworks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete artwork: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrArtworkNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit artwork deletion: %w", err)
	}

	return nil
}

// FindByID retrieves an artwork by ID using parameterized queries
func (r *artworkRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Artwork, error) {
	query := `
		SELECT id, title, description, price, image_url, is_sold, artist_id, created_at
		FROM artworks
		WHERE id = $1
	`

	artwork := &domain.Artwork{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&artwork.ID,
		&artwork.Title,
		&artwork.Description,
		&artwork.Price,
		&artwork.ImageURL,
		&artwork.IsSold,
		&artwork.ArtistID,
		&artwork.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrArtworkNotFound
		}
		return nil, fmt.Errorf("failed to find artwork by ID: %w", err)
	}

	return artwork, nil
}

// FindViewByID retrieves an artwork joined with its artist and live like count
func (r *artworkRepository) FindViewByID(ctx context.Context, id uuid.UUID) (*domain.ArtworkView, error) {
	query := `
		SELECT a.id, a.title, a.description, a.price, a.image_url, a.is_sold,
		       a.artist_id, a.created_at,
		       u.username, u.bio,
		       (SELECT COUNT(*) FROM likes l WHERE l.artwork_id = a.id)
		FROM artworks a
		JOIN users u ON u.id = a.artist_id
		WHERE a.id = $1
	`

	view := &domain.ArtworkView{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&view.ID,
		&view.Title,
		&view.Description,
		&view.Price,
		&view.ImageURL,
		&view.IsSold,
		&view.ArtistID,
		&view.CreatedAt,
		&view.ArtistName,
		&view.ArtistBio,
		&view.LikesCount,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrArtworkNotFound
		}
		return nil, fmt.Errorf("failed to find artwork view by ID: %w", err)
	}

	categoryIDs, err := r.categoryIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	view.CategoryIDs = categoryIDs

	return view, nil
}

// List retrieves all artworks in insertion order, joined with artist names and
// like counts. Sold pieces are filtered out when includeSold is false.
func (r *artworkRepository) List(ctx context.Context, includeSold bool) ([]*domain.ArtworkView, error) {
	query := `
		SELECT a.id, a.title, a.description, a.price, a.image_url, a.is_sold,
		       a.artist_id, a.created_at,
		       u.username,
		       (SELECT COUNT(*) FROM likes l WHERE l.artwork_id = a.id)
		FROM artworks a
		JOIN users u ON u.id = a.artist_id
	`
	if !includeSold {
		query += ` WHERE a.is_sold = FALSE`
	}
	query += ` ORDER BY a.created_at ASC, a.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	defer rows.Close()

	views := []*domain.ArtworkView{}
	for rows.Next() {
		view := &domain.ArtworkView{}
		err := rows.Scan(
			&view.ID,
			&view.Title,
			&view.Description,
			&view.Price,
			&view.ImageURL,
			&view.IsSold,
			&view.ArtistID,
			&view.CreatedAt,
			&view.ArtistName,
			&view.LikesCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artwork: %w", err)
		}
		views = append(views, view)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating artworks: %w", err)
	}

	return views, nil
}

// Exists reports whether an artwork with the given id is present
func (r *artworkRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM artworks WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check artwork existence: %w", err)
	}
	return exists, nil
}

func (r *artworkRepository) categoryIDs(ctx context.Context, artworkID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category_id FROM artwork_categories WHERE artwork_id = $1`, artworkID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artwork categories: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan category id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating artwork categories: %w", err)
	}

	return ids, nil
}
