package repository

import (
	"context"
	"database/sql"
	"fmt"

	"artgens/internal/domain"

	"github.com/google/uuid"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.CommentView, error)
	ListByArtwork(ctx context.Context, artworkID uuid.UUID) ([]*domain.CommentView, error)
}

type commentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create appends a comment and returns it joined with the author's username
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.CommentView, error) {
	query := `
		INSERT INTO comments (id, content, user_id, artwork_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		comment.ID,
		comment.Content,
		comment.UserID,
		comment.ArtworkID,
		comment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	view := &domain.CommentView{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}

	err = r.db.QueryRowContext(ctx, `SELECT username FROM users WHERE id = $1`, comment.UserID).Scan(&view.Author)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment author: %w", err)
	}

	return view, nil
}

// ListByArtwork retrieves an artwork's comments in creation order, oldest first
func (r *commentRepository) ListByArtwork(ctx context.Context, artworkID uuid.UUID) ([]*domain.CommentView, error) {
	query := `
		SELECT c.id, c.content, u.username, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.artwork_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, artworkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.CommentView{}
	for rows.Next() {
		comment := &domain.CommentView{}
		if err := rows.Scan(&comment.ID, &comment.Content, &comment.Author, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
