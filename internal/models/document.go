package models

import (
	"time"

	"gorm.io/gorm"
)

type DocumentKind string

const (
	DocumentKindScript      DocumentKind = "SCRIPT"
	DocumentKindDescription DocumentKind = "DESCRIPTION"
	DocumentKindNotes       DocumentKind = "NOTES"
)

// Document is a versioned text document attached to a video. Version starts
// at 1 and increments by exactly one per successful update; writers must
// present the version they read.
type Document struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	ProjectID uint64         `gorm:"index;not null" json:"project_id"`
	VideoID   uint64         `gorm:"index;not null" json:"video_id"`
	Kind      DocumentKind   `gorm:"type:varchar(20);not null;default:'SCRIPT'" json:"kind"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Content   string         `gorm:"type:text" json:"content"`
	Version   int            `gorm:"not null;default:1" json:"version"`
	EditorID  uint64         `gorm:"not null" json:"editor_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project   Project            `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Video     Video              `gorm:"foreignKey:VideoID" json:"video,omitempty"`
	Revisions []DocumentRevision `gorm:"foreignKey:DocumentID" json:"revisions,omitempty"`
}

// DocumentRevision snapshots a document's content as it was before an
// update or restore. History is additive and never rewritten.
type DocumentRevision struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	DocumentID uint64    `gorm:"index;not null" json:"document_id"`
	Version    int       `gorm:"not null" json:"version"`
	Content    string    `gorm:"type:text" json:"content"`
	EditorID   uint64    `gorm:"not null" json:"editor_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Document Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
}
