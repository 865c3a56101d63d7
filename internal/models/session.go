package models

import "time"

// Session represents an authenticated browser. The ID is the SHA-256 hex
// digest of the bearer token; the plaintext token is never persisted, so a
// leaked sessions table cannot be replayed.
type Session struct {
	ID        string    `gorm:"primarykey;size:64" json:"id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
