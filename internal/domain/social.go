package domain

import (
	"time"

	"github.com/google/uuid"
)

// Like marks a (user, artwork) pair; the row's existence is the liked state
type Like struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ArtworkID uuid.UUID `json:"artwork_id" db:"artwork_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Comment is an append-only remark on an artwork
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ArtworkID uuid.UUID `json:"artwork_id" db:"artwork_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CommentView is a comment joined with its author's username
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
