package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	TeamspaceID uint64         `gorm:"not null;uniqueIndex:idx_projects_teamspace_slug" json:"teamspace_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_projects_teamspace_slug" json:"slug"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Teamspace Teamspace     `gorm:"foreignKey:TeamspaceID" json:"teamspace,omitempty"`
	Members   []ProjectUser `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Videos    []Video       `gorm:"foreignKey:ProjectID" json:"videos,omitempty"`
}
