package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/storyreel/storyreel-api/internal/errors"
	"github.com/storyreel/storyreel-api/internal/middleware"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

// VideoHandler manages videos and categories within the resolved project.
// All data access goes through the project-scoped content repository the
// middleware attached.
type VideoHandler struct{}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler() *VideoHandler {
	return &VideoHandler{}
}

func contentRepo(c *gin.Context) (repository.ContentRepository, bool) {
	repo, exists := middleware.GetContentRepo(c)
	if !exists {
		apierrors.InternalError(c, "")
		return nil, false
	}
	return repo, true
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

// List returns the project's videos, newest first.
func (h *VideoHandler) List(c *gin.Context) {
	repo, ok := contentRepo(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	videos, total, err := repo.ListVideos(params)
	if err != nil {
		log.Printf("failed to list videos: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"videos": videos,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// Create creates a video in the project.
func (h *VideoHandler) Create(c *gin.Context) {
	type CreateVideoRequest struct {
		Title       string     `json:"title" binding:"required,max=255"`
		Description string     `json:"description"`
		CategoryID  *uint64    `json:"category_id"`
		PublishAt   *time.Time `json:"publish_at"`
	}

	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	repo, ok := contentRepo(c)
	if !ok {
		return
	}

	video := &models.Video{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		PublishAt:   req.PublishAt,
		Status:      models.VideoStatusIdea,
		CreatorID:   userID,
	}
	if err := repo.CreateVideo(video); err != nil {
		log.Printf("failed to create video: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, video)
}

// Get returns a video in the project. A video in another project yields
// the same NOT_FOUND as a missing one.
func (h *VideoHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	repo, ok := contentRepo(c)
	if !ok {
		return
	}

	video, err := repo.FindVideo(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "")
			return
		}
		log.Printf("failed to find video: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, video)
}

// Update patches a video's metadata.
func (h *VideoHandler) Update(c *gin.Context) {
	type UpdateVideoRequest struct {
		Title       *string             `json:"title" binding:"omitempty,max=255"`
		Description *string             `json:"description"`
		Status      *models.VideoStatus `json:"status"`
		CategoryID  *uint64             `json:"category_id"`
		PublishAt   *time.Time          `json:"publish_at"`
	}

	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	repo, ok := contentRepo(c)
	if !ok {
		return
	}

	video, err := repo.FindVideo(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "")
			return
		}
		log.Printf("failed to find video: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	if req.Title != nil {
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.Status != nil {
		video.Status = *req.Status
	}
	if req.CategoryID != nil {
		video.CategoryID = req.CategoryID
	}
	if req.PublishAt != nil {
		video.PublishAt = req.PublishAt
	}

	if err := repo.UpdateVideo(video); err != nil {
		log.Printf("failed to update video: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, video)
}

// Delete soft deletes a video.
func (h *VideoHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	repo, ok := contentRepo(c)
	if !ok {
		return
	}

	if err := repo.DeleteVideo(id); err != nil {
		log.Printf("failed to delete video: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}

// ListCategories returns the project's categories.
func (h *VideoHandler) ListCategories(c *gin.Context) {
	repo, ok := contentRepo(c)
	if !ok {
		return
	}

	categories, err := repo.ListCategories()
	if err != nil {
		log.Printf("failed to list categories: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateCategory creates a category in the project.
func (h *VideoHandler) CreateCategory(c *gin.Context) {
	type CreateCategoryRequest struct {
		Name string `json:"name" binding:"required,max=100"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	repo, ok := contentRepo(c)
	if !ok {
		return
	}

	category := &models.Category{Name: req.Name}
	if err := repo.CreateCategory(category); err != nil {
		log.Printf("failed to create category: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// DeleteCategory soft deletes a category.
func (h *VideoHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	repo, ok := contentRepo(c)
	if !ok {
		return
	}

	if err := repo.DeleteCategory(id); err != nil {
		log.Printf("failed to delete category: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
