package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem records a user's intent to purchase an artwork; checkout consumes it
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ArtworkID uuid.UUID `json:"artwork_id" db:"artwork_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CartItemView is a cart item joined with the artwork it references
type CartItemView struct {
	ID        uuid.UUID `json:"id"`
	ArtworkID uuid.UUID `json:"artwork_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"image_url"`
}
