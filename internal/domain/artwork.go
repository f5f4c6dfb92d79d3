package domain

import (
	"time"

	"github.com/google/uuid"
)

// Artwork represents a piece listed for sale by an artist
type Artwork struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	IsSold      bool      `json:"is_sold" db:"is_sold"`
	ArtistID    uuid.UUID `json:"artist_id" db:"artist_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Category represents an artwork category, seeded at startup
type Category struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// ArtworkView is an artwork joined with its artist and a live like count
type ArtworkView struct {
	Artwork
	ArtistName  string      `json:"artist_name" db:"artist_name"`
	ArtistBio   string      `json:"artist_bio,omitempty" db:"artist_bio"`
	LikesCount  int         `json:"likes_count" db:"likes_count"`
	CategoryIDs []uuid.UUID `json:"category_ids,omitempty"`
}
