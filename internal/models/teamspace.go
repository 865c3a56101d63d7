package models

import (
	"time"

	"gorm.io/gorm"
)

type Teamspace struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members  []TeamspaceUser `gorm:"foreignKey:TeamspaceID" json:"members,omitempty"`
	Projects []Project       `gorm:"foreignKey:TeamspaceID" json:"projects,omitempty"`
}
