package repository

import (
	"errors"

	"github.com/storyreel/storyreel-api/internal/database"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

// ErrRevisionNotFound is returned when a restore targets a revision that
// does not belong to the document.
var ErrRevisionNotFound = errors.New("document repository: revision not found")

// errConflictRollback aborts the transaction so the revision snapshot is
// discarded when the compare-and-swap loses a race.
var errConflictRollback = errors.New("document repository: version conflict")

// GormDocumentRepository is a GORM implementation of DocumentRepository,
// bound to one project at construction.
type GormDocumentRepository struct {
	db        *gorm.DB
	projectID uint64
}

// NewDocumentRepository creates a DocumentRepository scoped to a project.
func NewDocumentRepository(db *gorm.DB, projectID uint64) (DocumentRepository, error) {
	if projectID == 0 {
		return nil, ErrMissingTenantID
	}
	return &GormDocumentRepository{db: db, projectID: projectID}, nil
}

// Create creates a document at version 1
func (r *GormDocumentRepository) Create(doc *models.Document) error {
	doc.ProjectID = r.projectID
	doc.Version = 1
	return r.db.Create(doc).Error
}

// FindByID finds a document within the scoped project
func (r *GormDocumentRepository) FindByID(id uint64) (*models.Document, error) {
	return findScopedDocument(r.db, r.projectID, id)
}

// ListByVideo lists a video's documents within the scoped project
func (r *GormDocumentRepository) ListByVideo(videoID uint64) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.Where("project_id = ? AND video_id = ?", r.projectID, videoID).
		Order("created_at ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateWithVersion serializes concurrent writers with a transactional
// compare-and-swap on the version column: a revision snapshotting the
// pre-update state is inserted, then the row is updated only where its
// version still equals expectedVersion. The loser of a race observes a
// version mismatch and receives the current row instead of a write.
func (r *GormDocumentRepository) UpdateWithVersion(id uint64, expectedVersion int, title, content string, editorID uint64) (*DocumentUpdate, error) {
	var result *DocumentUpdate

	err := r.db.Transaction(func(tx *gorm.DB) error {
		doc, err := findScopedDocument(tx, r.projectID, id)
		if err != nil {
			return err
		}

		if doc.Version != expectedVersion {
			result = &DocumentUpdate{Document: doc, VersionMatch: false}
			return nil
		}

		revision := &models.DocumentRevision{
			DocumentID: doc.ID,
			Version:    doc.Version,
			Content:    doc.Content,
			EditorID:   doc.EditorID,
		}
		if err := tx.Create(revision).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Document{}).
			Where("id = ? AND project_id = ? AND version = ?", doc.ID, r.projectID, expectedVersion).
			Updates(map[string]interface{}{
				"title":     title,
				"content":   content,
				"version":   doc.Version + 1,
				"editor_id": editorID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent writer committed between our read and the
			// compare-and-swap; roll back the snapshot and report a conflict
			// with the row they wrote.
			current, err := findScopedDocument(r.db, r.projectID, id)
			if err != nil {
				return err
			}
			result = &DocumentUpdate{Document: current, VersionMatch: false}
			return errConflictRollback
		}

		updated, err := findScopedDocument(tx, r.projectID, id)
		if err != nil {
			return err
		}
		result = &DocumentUpdate{Document: updated, VersionMatch: true}
		return nil
	})

	if err != nil {
		if errors.Is(err, errConflictRollback) && result != nil {
			return result, nil
		}
		return nil, err
	}

	return result, nil
}

// ListRevisions lists a document's revisions, newest version first
func (r *GormDocumentRepository) ListRevisions(documentID uint64, params utils.PaginationParams) ([]models.DocumentRevision, int64, error) {
	if _, err := r.FindByID(documentID); err != nil {
		return nil, 0, err
	}

	query := r.db.Model(&models.DocumentRevision{}).Where("document_id = ?", documentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var revisions []models.DocumentRevision
	err := query.
		Order("version DESC").
		Scopes(database.Paginate(params)).
		Find(&revisions).Error
	if err != nil {
		return nil, 0, err
	}

	return revisions, total, nil
}

// Restore writes a past revision's content back as a new version. The
// current state is snapshotted first, so history only ever grows.
func (r *GormDocumentRepository) Restore(id, revisionID, editorID uint64) (*models.Document, error) {
	var restored *models.Document

	err := r.db.Transaction(func(tx *gorm.DB) error {
		doc, err := findScopedDocument(tx, r.projectID, id)
		if err != nil {
			return err
		}

		var revision models.DocumentRevision
		if err := tx.Where("id = ? AND document_id = ?", revisionID, doc.ID).
			First(&revision).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRevisionNotFound
			}
			return err
		}

		snapshot := &models.DocumentRevision{
			DocumentID: doc.ID,
			Version:    doc.Version,
			Content:    doc.Content,
			EditorID:   doc.EditorID,
		}
		if err := tx.Create(snapshot).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Document{}).
			Where("id = ? AND project_id = ? AND version = ?", doc.ID, r.projectID, doc.Version).
			Updates(map[string]interface{}{
				"content":   revision.Content,
				"version":   doc.Version + 1,
				"editor_id": editorID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errConflictRollback
		}

		restored, err = findScopedDocument(tx, r.projectID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return restored, nil
}

// Delete soft deletes a document within the scoped project
func (r *GormDocumentRepository) Delete(id uint64) error {
	return r.db.Where("project_id = ? AND id = ?", r.projectID, id).
		Delete(&models.Document{}).Error
}

func findScopedDocument(db *gorm.DB, projectID, id uint64) (*models.Document, error) {
	var doc models.Document
	err := db.Where("project_id = ? AND id = ?", projectID, id).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
