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
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrAlreadyInCart    = errors.New("artwork already in cart")
	ErrArtworkSold      = errors.New("artwork already sold")
	ErrCartEmpty        = errors.New("cart is empty")
)

// CartRepository defines the interface for cart data access
type CartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItemView, error)
	Add(ctx context.Context, item *domain.CartItem) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Checkout(ctx context.Context, userID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// ListByUser retrieves the user's cart entries joined with artwork details
func (r *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItemView, error) {
	query := `
		SELECT c.id, a.id, a.title, a.price, a.image_url
		FROM cart_items c
		JOIN artworks a ON a.id = c.artwork_id
		WHERE c.user_id = $1
		ORDER BY c.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []*domain.CartItemView{}
	for rows.Next() {
		item := &domain.CartItemView{}
		if err := rows.Scan(&item.ID, &item.ArtworkID, &item.Title, &item.Price, &item.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// Add inserts a cart entry only while the referenced artwork is unsold. The
// guard runs inside the insert itself so a sale committed between the caller's
// existence check and this statement still rejects the add.
func (r *cartRepository) Add(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, artwork_id, created_at)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (SELECT 1 FROM artworks WHERE id = $3 AND is_sold = FALSE)
	`

	result, err := r.db.ExecContext(ctx, query, item.ID, item.UserID, item.ArtworkID, item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_cart_items_user_artwork") {
			return ErrAlreadyInCart
		}
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		exists, err := r.artworkExists(ctx, item.ArtworkID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrArtworkNotFound
		}
		return ErrArtworkSold
	}

	return nil
}

// Remove deletes a cart entry scoped to its owner. A missing row and a row
// owned by someone else produce the same not-found result.
func (r *cartRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	query := `
		DELETE FROM cart_items
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// Checkout marks every artwork in the user's cart sold and clears the cart in
// one transaction. Each artwork is claimed with a conditional update checked
// by affected-row count, so of two concurrent checkouts touching the same
// artwork exactly one commits; the other observes is_sold = TRUE and rolls
// back whole with ErrArtworkSold.
func (r *cartRepository) Checkout(ctx context.Context, userID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT artwork_id FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	artworkIDs := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan cart entry: %w", err)
		}
		artworkIDs = append(artworkIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating cart entries: %w", err)
	}
	rows.Close()

	if len(artworkIDs) == 0 {
		return ErrCartEmpty
	}

	claim := `
		UPDATE artworks
		SET is_sold = TRUE
		WHERE id = $1 AND is_sold = FALSE
	`

	for _, artworkID := range artworkIDs {
		result, err := tx.ExecContext(ctx, claim, artworkID)
		if err != nil {
			return fmt.Errorf("failed to mark artwork sold: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrArtworkSold
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout: %w", err)
	}

	return nil
}

func (r *cartRepository) artworkExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM artworks WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check artwork existence: %w", err)
	}
	return exists, nil
}
