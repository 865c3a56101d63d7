package models

import (
	"time"

	"gorm.io/gorm"
)

type VideoStatus string

const (
	VideoStatusIdea       VideoStatus = "IDEA"
	VideoStatusScripting  VideoStatus = "SCRIPTING"
	VideoStatusProduction VideoStatus = "PRODUCTION"
	VideoStatusPublished  VideoStatus = "PUBLISHED"
)

type Video struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	ProjectID   uint64         `gorm:"index;not null" json:"project_id"`
	CategoryID  *uint64        `gorm:"index" json:"category_id,omitempty"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      VideoStatus    `gorm:"type:varchar(20);not null;default:'IDEA'" json:"status"`
	PublishAt   *time.Time     `json:"publish_at,omitempty"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project   Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Category  *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Creator   User       `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Documents []Document `gorm:"foreignKey:VideoID" json:"documents,omitempty"`
}
