package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storyreel/storyreel-api/internal/dto"
	apierrors "github.com/storyreel/storyreel-api/internal/errors"
	"github.com/storyreel/storyreel-api/internal/middleware"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

// DocumentHandler manages versioned documents within the resolved
// project, including optimistic-concurrency updates and revision history.
type DocumentHandler struct{}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{}
}

func documentRepo(c *gin.Context) (repository.DocumentRepository, bool) {
	repo, exists := middleware.GetDocumentRepo(c)
	if !exists {
		apierrors.InternalError(c, "")
		return nil, false
	}
	return repo, true
}

// Create creates a document at version 1 under a video in the project.
func (h *DocumentHandler) Create(c *gin.Context) {
	type CreateDocumentRequest struct {
		VideoID uint64              `json:"video_id" binding:"required"`
		Kind    models.DocumentKind `json:"kind" binding:"omitempty"`
		Title   string              `json:"title" binding:"required,max=255"`
		Content string              `json:"content"`
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	contentRepo, ok := contentRepo(c)
	if !ok {
		return
	}
	repo, ok := documentRepo(c)
	if !ok {
		return
	}

	// The video must live in this project; a foreign video id reads as
	// missing.
	if _, err := contentRepo.FindVideo(req.VideoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "")
			return
		}
		log.Printf("failed to find video: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = models.DocumentKindScript
	}

	doc := &models.Document{
		VideoID:  req.VideoID,
		Kind:     kind,
		Title:    req.Title,
		Content:  req.Content,
		EditorID: userID,
	}
	if err := repo.Create(doc); err != nil {
		log.Printf("failed to create document: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentDTO(*doc))
}

// Get returns a document in the project.
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	repo, ok := documentRepo(c)
	if !ok {
		return
	}

	doc, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "")
			return
		}
		log.Printf("failed to find document: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentDTO(*doc))
}

// ListByVideo returns a video's documents.
func (h *DocumentHandler) ListByVideo(c *gin.Context) {
	videoID, ok := pathID(c, "id")
	if !ok {
		return
	}

	repo, ok := documentRepo(c)
	if !ok {
		return
	}

	docs, err := repo.ListByVideo(videoID)
	if err != nil {
		log.Printf("failed to list documents: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	result := make([]dto.DocumentDTO, len(docs))
	for i, doc := range docs {
		result[i] = dto.ToDocumentDTO(doc)
	}

	c.JSON(http.StatusOK, result)
}

// Update applies an optimistic-concurrency update. A stale
// expected_version yields CONFLICT carrying the server's current version
// and content so the client can reconcile and retry.
func (h *DocumentHandler) Update(c *gin.Context) {
	type UpdateDocumentRequest struct {
		ExpectedVersion int    `json:"expected_version" binding:"required,min=1"`
		Title           string `json:"title" binding:"required,max=255"`
		Content         string `json:"content"`
	}

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	repo, ok := documentRepo(c)
	if !ok {
		return
	}

	result, err := repo.UpdateWithVersion(id, req.ExpectedVersion, req.Title, req.Content, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "")
			return
		}
		log.Printf("failed to update document: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	if !result.VersionMatch {
		apierrors.ConflictWithDetails(c, "Document was modified by someone else", dto.DocumentConflictDTO{
			CurrentVersion: result.Document.Version,
			CurrentContent: result.Document.Content,
		})
		return
	}

	if auditRepo, ok := middleware.GetAuditRepo(c); ok {
		if err := auditRepo.Record(userID, "document.updated", result.Document.Title); err != nil {
			log.Printf("failed to record audit entry: %v", err)
		}
	}

	c.JSON(http.StatusOK, dto.ToDocumentDTO(*result.Document))
}

// ListRevisions returns a document's revisions, newest version first.
func (h *DocumentHandler) ListRevisions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	repo, ok := documentRepo(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	revisions, total, err := repo.ListRevisions(id, params)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "")
			return
		}
		log.Printf("failed to list revisions: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	result := make([]dto.RevisionDTO, len(revisions))
	for i, revision := range revisions {
		result[i] = dto.ToRevisionDTO(revision)
	}

	c.JSON(http.StatusOK, gin.H{
		"revisions": result,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Restore writes a past revision's content back as a new version.
func (h *DocumentHandler) Restore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	revisionID, ok := pathID(c, "revision_id")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	repo, ok := documentRepo(c)
	if !ok {
		return
	}

	doc, err := repo.Restore(id, revisionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, repository.ErrRevisionNotFound):
			apierrors.NotFound(c, "")
		default:
			log.Printf("failed to restore document: %v", err)
			apierrors.InternalError(c, "")
		}
		return
	}

	if auditRepo, ok := middleware.GetAuditRepo(c); ok {
		if err := auditRepo.Record(userID, "document.restored", doc.Title); err != nil {
			log.Printf("failed to record audit entry: %v", err)
		}
	}

	c.JSON(http.StatusOK, dto.ToDocumentDTO(*doc))
}

// Delete soft deletes a document.
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	repo, ok := documentRepo(c)
	if !ok {
		return
	}

	if err := repo.Delete(id); err != nil {
		log.Printf("failed to delete document: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
