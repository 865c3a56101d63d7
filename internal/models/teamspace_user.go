package models

import "time"

type TeamspaceUser struct {
	TeamspaceID uint64        `gorm:"primarykey" json:"teamspace_id"`
	UserID      uint64        `gorm:"primarykey" json:"user_id"`
	Role        TeamspaceRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt    time.Time     `json:"joined_at"`

	// Relations
	Teamspace Teamspace `gorm:"foreignKey:TeamspaceID" json:"teamspace,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
