package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an identity record. Email is stored lowercased and is immutable
// after creation. PasswordHash never leaves the auth boundary.
type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Sessions   []Session       `gorm:"foreignKey:UserID" json:"-"`
	Teamspaces []TeamspaceUser `gorm:"foreignKey:UserID" json:"-"`
	Projects   []ProjectUser   `gorm:"foreignKey:UserID" json:"-"`
}
