package repository

import (
	"errors"
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
	"gorm.io/gorm"
)

const maxInviteAttempts = 5

var (
	// ErrInviteExpired is returned when an invitation is past its expiry.
	ErrInviteExpired = errors.New("invitation repository: invitation expired")
	// ErrInviteConsumed is returned when an invitation was already accepted.
	ErrInviteConsumed = errors.New("invitation repository: invitation already accepted")
	// ErrInviteAttemptsExceeded is returned when an invitation saw too many
	// acceptance attempts.
	ErrInviteAttemptsExceeded = errors.New("invitation repository: too many attempts")
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create persists a new invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// FindByTokenHash finds an invitation by its token digest
func (r *GormInvitationRepository) FindByTokenHash(tokenHash string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Where("token_hash = ?", tokenHash).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// Consume marks an invitation accepted exactly once. The attempt counter
// is incremented as its own committed statement before validity is
// checked, so the increment survives when the rest is rejected and a
// failed acceptance still burns an attempt. Two concurrent accepts
// cannot both succeed: acceptedAt is set with an IS NULL guard.
func (r *GormInvitationRepository) Consume(id uint64) (*models.Invitation, error) {
	burn := r.db.Model(&models.Invitation{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1"))
	if burn.Error != nil {
		return nil, burn.Error
	}
	if burn.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var consumed *models.Invitation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var invitation models.Invitation
		if err := tx.Where("id = ?", id).First(&invitation).Error; err != nil {
			return err
		}

		if invitation.AcceptedAt != nil {
			return ErrInviteConsumed
		}
		if time.Now().After(invitation.ExpiresAt) {
			return ErrInviteExpired
		}
		if invitation.Attempts > maxInviteAttempts {
			return ErrInviteAttemptsExceeded
		}

		now := time.Now()
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND accepted_at IS NULL", id).
			Update("accepted_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInviteConsumed
		}

		invitation.AcceptedAt = &now
		consumed = &invitation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return consumed, nil
}
