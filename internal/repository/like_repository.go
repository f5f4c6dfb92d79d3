package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LikeRepository defines the interface for like data access
type LikeRepository interface {
	Toggle(ctx context.Context, userID, artworkID uuid.UUID) (liked bool, err error)
	CountByArtwork(ctx context.Context, artworkID uuid.UUID) (int, error)
}

type likeRepository struct {
	db *sql.DB
}

// NewLikeRepository creates a new instance of LikeRepository
func NewLikeRepository(db *sql.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle flips the liked state for a (user, artwork) pair. The unique
// constraint on the pair is the arbiter under concurrency: a delete that
// removes a row means unliked; otherwise an insert with ON CONFLICT DO NOTHING
// leaves exactly one row whether this call or a concurrent one created it.
func (r *likeRepository) Toggle(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	deleteQuery := `
		DELETE FROM likes
		WHERE user_id = $1 AND artwork_id = $2
	`

	result, err := r.db.ExecContext(ctx, deleteQuery, userID, artworkID)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return false, nil
	}

	insertQuery := `
		INSERT INTO likes (id, user_id, artwork_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, artwork_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, insertQuery, uuid.New(), userID, artworkID, time.Now()); err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}

	return true, nil
}

// CountByArtwork returns the live like count for an artwork
func (r *likeRepository) CountByArtwork(ctx context.Context, artworkID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE artwork_id = $1`, artworkID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
