package repository

import (
	"github.com/storyreel/storyreel-api/internal/database"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

// GormContentRepository is a GORM implementation of ContentRepository,
// bound to one project at construction. Every query carries the project
// predicate; rows in other projects come back as record-not-found.
type GormContentRepository struct {
	db        *gorm.DB
	projectID uint64
}

// NewContentRepository creates a ContentRepository scoped to a project.
func NewContentRepository(db *gorm.DB, projectID uint64) (ContentRepository, error) {
	if projectID == 0 {
		return nil, ErrMissingTenantID
	}
	return &GormContentRepository{db: db, projectID: projectID}, nil
}

// CreateVideo creates a video in the scoped project
func (r *GormContentRepository) CreateVideo(video *models.Video) error {
	video.ProjectID = r.projectID
	return r.db.Create(video).Error
}

// FindVideo finds a video within the scoped project
func (r *GormContentRepository) FindVideo(id uint64) (*models.Video, error) {
	var video models.Video
	err := r.db.Preload("Category").
		Where("videos.project_id = ?", r.projectID).
		Where("videos.id = ?", id).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// ListVideos lists the scoped project's videos, newest first
func (r *GormContentRepository) ListVideos(params utils.PaginationParams) ([]models.Video, int64, error) {
	query := r.db.Model(&models.Video{}).Where("videos.project_id = ?", r.projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var videos []models.Video
	err := query.
		Order("videos.created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// UpdateVideo updates a video within the scoped project
func (r *GormContentRepository) UpdateVideo(video *models.Video) error {
	if _, err := r.FindVideo(video.ID); err != nil {
		return err
	}
	video.ProjectID = r.projectID
	return r.db.Save(video).Error
}

// DeleteVideo soft deletes a video within the scoped project
func (r *GormContentRepository) DeleteVideo(id uint64) error {
	return r.db.Where("project_id = ? AND id = ?", r.projectID, id).
		Delete(&models.Video{}).Error
}

// CreateCategory creates a category in the scoped project
func (r *GormContentRepository) CreateCategory(category *models.Category) error {
	category.ProjectID = r.projectID
	return r.db.Create(category).Error
}

// ListCategories lists the scoped project's categories
func (r *GormContentRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("project_id = ?", r.projectID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteCategory soft deletes a category within the scoped project
func (r *GormContentRepository) DeleteCategory(id uint64) error {
	return r.db.Where("project_id = ? AND id = ?", r.projectID, id).
		Delete(&models.Category{}).Error
}
