package models

import "time"

// AuditLogEntry records a security-relevant action inside a teamspace.
// Detail must never contain raw emails, IPs, tokens, or hashes.
type AuditLogEntry struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	TeamspaceID uint64    `gorm:"index;not null" json:"teamspace_id"`
	ActorID     uint64    `gorm:"not null" json:"actor_id"`
	Action      string    `gorm:"type:varchar(100);not null" json:"action"`
	Detail      string    `gorm:"type:text" json:"detail"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	// Relations
	Teamspace Teamspace `gorm:"foreignKey:TeamspaceID" json:"teamspace,omitempty"`
	Actor     User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
