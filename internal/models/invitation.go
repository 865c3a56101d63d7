package models

import "time"

// Invitation invites an email address into a teamspace. Only the SHA-256
// hex digest of the invite token is stored. An invitation is consumed at
// most once: acceptance increments Attempts and sets AcceptedAt inside one
// transaction.
type Invitation struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	TeamspaceID uint64        `gorm:"index;not null" json:"teamspace_id"`
	Email       string        `gorm:"type:varchar(255);not null" json:"email"`
	Role        TeamspaceRole `gorm:"type:varchar(20);not null" json:"role"`
	TokenHash   string        `gorm:"size:64;uniqueIndex;not null" json:"-"`
	InvitedBy   uint64        `gorm:"not null" json:"invited_by"`
	Attempts    int           `gorm:"not null;default:0" json:"-"`
	ExpiresAt   time.Time     `gorm:"index;not null" json:"expires_at"`
	AcceptedAt  *time.Time    `json:"accepted_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`

	// Relations
	Teamspace Teamspace `gorm:"foreignKey:TeamspaceID" json:"teamspace,omitempty"`
}
