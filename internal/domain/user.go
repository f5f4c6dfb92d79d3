package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account, either a buyer or an artist
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsArtist     bool      `json:"is_artist" db:"is_artist"`
	Bio          string    `json:"bio" db:"bio"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
