package repository

import (
	"github.com/storyreel/storyreel-api/internal/database"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

// GormAuditLogRepository is a GORM implementation of AuditLogRepository,
// bound to one teamspace at construction.
type GormAuditLogRepository struct {
	db          *gorm.DB
	teamspaceID uint64
}

// NewAuditLogRepository creates an AuditLogRepository scoped to a teamspace.
func NewAuditLogRepository(db *gorm.DB, teamspaceID uint64) (AuditLogRepository, error) {
	if teamspaceID == 0 {
		return nil, ErrMissingTenantID
	}
	return &GormAuditLogRepository{db: db, teamspaceID: teamspaceID}, nil
}

// Record inserts an audit entry for the scoped teamspace
func (r *GormAuditLogRepository) Record(actorID uint64, action, detail string) error {
	entry := &models.AuditLogEntry{
		TeamspaceID: r.teamspaceID,
		ActorID:     actorID,
		Action:      action,
		Detail:      detail,
	}
	return r.db.Create(entry).Error
}

// List returns the scoped teamspace's entries, newest first
func (r *GormAuditLogRepository) List(params utils.PaginationParams) ([]models.AuditLogEntry, int64, error) {
	query := r.db.Model(&models.AuditLogEntry{}).Where("teamspace_id = ?", r.teamspaceID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditLogEntry
	err := query.
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
