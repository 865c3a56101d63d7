package dto

import (
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
)

// DocumentDTO is the public shape of a versioned document
type DocumentDTO struct {
	ID        uint64              `json:"id"`
	VideoID   uint64              `json:"video_id"`
	Kind      models.DocumentKind `json:"kind"`
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	Version   int                 `json:"version"`
	EditorID  uint64              `json:"editor_id"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// DocumentConflictDTO carries the server's current state so a client that
// lost an optimistic-concurrency race can reconcile.
type DocumentConflictDTO struct {
	CurrentVersion int    `json:"current_version"`
	CurrentContent string `json:"current_content"`
}

// RevisionDTO is the public shape of a document revision
type RevisionDTO struct {
	ID        uint64    `json:"id"`
	Version   int       `json:"version"`
	Content   string    `json:"content"`
	EditorID  uint64    `json:"editor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDocumentDTO converts a document to its public shape
func ToDocumentDTO(doc models.Document) DocumentDTO {
	return DocumentDTO{
		ID:        doc.ID,
		VideoID:   doc.VideoID,
		Kind:      doc.Kind,
		Title:     doc.Title,
		Content:   doc.Content,
		Version:   doc.Version,
		EditorID:  doc.EditorID,
		UpdatedAt: doc.UpdatedAt,
	}
}

// ToRevisionDTO converts a revision to its public shape
func ToRevisionDTO(revision models.DocumentRevision) RevisionDTO {
	return RevisionDTO{
		ID:        revision.ID,
		Version:   revision.Version,
		Content:   revision.Content,
		EditorID:  revision.EditorID,
		CreatedAt: revision.CreatedAt,
	}
}
