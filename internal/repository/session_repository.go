package repository

import (
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
	"gorm.io/gorm"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Create persists a new session
func (r *GormSessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// FindWithUser loads a session and its owning user
func (r *GormSessionRepository) FindWithUser(id string) (*models.Session, *models.User, error) {
	var session models.Session
	if err := r.db.Preload("User").Where("id = ?", id).First(&session).Error; err != nil {
		return nil, nil, err
	}

	user := session.User
	return &session, &user, nil
}

// UpdateExpiry extends a session's expiry in place
func (r *GormSessionRepository) UpdateExpiry(id string, expiresAt time.Time) error {
	return r.db.Model(&models.Session{}).
		Where("id = ?", id).
		Update("expires_at", expiresAt).Error
}

// Delete removes a session; deleting a missing session is a no-op
func (r *GormSessionRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Session{}).Error
}

// DeleteByUser removes all sessions belonging to a user
func (r *GormSessionRepository) DeleteByUser(userID uint64) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

// DeleteByUserExcept removes all of a user's sessions except one
func (r *GormSessionRepository) DeleteByUserExcept(userID uint64, keepID string) error {
	return r.db.Where("user_id = ? AND id <> ?", userID, keepID).Delete(&models.Session{}).Error
}
