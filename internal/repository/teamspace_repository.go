package repository

import (
	"fmt"
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
	"gorm.io/gorm"
)

// GormTeamspaceRepository is a GORM implementation of TeamspaceRepository
type GormTeamspaceRepository struct {
	db *gorm.DB
}

// NewTeamspaceRepository creates a new TeamspaceRepository
func NewTeamspaceRepository(db *gorm.DB) TeamspaceRepository {
	return &GormTeamspaceRepository{db: db}
}

// CreateWithOwner creates a teamspace, its default project, and the owner
// membership in one transaction.
func (r *GormTeamspaceRepository) CreateWithOwner(teamspace *models.Teamspace, project *models.Project, ownerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(teamspace).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTeamspace, err)
		}

		project.TeamspaceID = teamspace.ID
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		member := &models.TeamspaceUser{
			TeamspaceID: teamspace.ID,
			UserID:      ownerID,
			Role:        models.TeamspaceRoleOwner,
			JoinedAt:    time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateMembership, err)
		}

		return nil
	})
}

// FindBySlug finds a teamspace by its unique slug
func (r *GormTeamspaceRepository) FindBySlug(slug string) (*models.Teamspace, error) {
	var teamspace models.Teamspace
	if err := r.db.Where("slug = ?", slug).First(&teamspace).Error; err != nil {
		return nil, err
	}
	return &teamspace, nil
}

// FindMember finds a specific teamspace membership
func (r *GormTeamspaceRepository) FindMember(teamspaceID, userID uint64) (*models.TeamspaceUser, error) {
	var member models.TeamspaceUser
	if err := r.db.Where("teamspace_id = ? AND user_id = ?", teamspaceID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// AddMember adds a member to a teamspace
func (r *GormTeamspaceRepository) AddMember(member *models.TeamspaceUser) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a teamspace
func (r *GormTeamspaceRepository) RemoveMember(teamspaceID, userID uint64) error {
	return r.db.Where("teamspace_id = ? AND user_id = ?", teamspaceID, userID).
		Delete(&models.TeamspaceUser{}).Error
}

// ListMembers lists all members of a teamspace
func (r *GormTeamspaceRepository) ListMembers(teamspaceID uint64) ([]models.TeamspaceUser, error) {
	var members []models.TeamspaceUser
	if err := r.db.Preload("User").
		Where("teamspace_id = ?", teamspaceID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsForUser lists all teamspaces a user is a member of
func (r *GormTeamspaceRepository) ListMembershipsForUser(userID uint64) ([]models.TeamspaceUser, error) {
	var memberships []models.TeamspaceUser
	if err := r.db.Preload("Teamspace").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// FirstMembershipForUser returns the user's sole membership in
// single-tenant deployments.
func (r *GormTeamspaceRepository) FirstMembershipForUser(userID uint64) (*models.TeamspaceUser, error) {
	var member models.TeamspaceUser
	if err := r.db.Preload("Teamspace").
		Where("user_id = ?", userID).
		Order("teamspace_id ASC").
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// First returns the oldest teamspace
func (r *GormTeamspaceRepository) First() (*models.Teamspace, error) {
	var teamspace models.Teamspace
	if err := r.db.Order("id ASC").First(&teamspace).Error; err != nil {
		return nil, err
	}
	return &teamspace, nil
}

// Count returns the number of teamspaces
func (r *GormTeamspaceRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Teamspace{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
