package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateTeamspace is returned when creating a teamspace fails inside the registration transaction.
	ErrCreateTeamspace = errors.New("user repository: create teamspace failed")
	// ErrCreateProject is returned when creating the default project fails inside the registration transaction.
	ErrCreateProject = errors.New("user repository: create project failed")
	// ErrCreateMembership is returned when creating the membership fails inside the registration transaction.
	ErrCreateMembership = errors.New("user repository: create membership failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email, normalizing case first
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePasswordHash replaces a user's password hash
func (r *GormUserRepository) UpdatePasswordHash(userID uint64, hash string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}

// CreateWithTeamspace creates a user, a teamspace with a default project,
// and the membership atomically.
func (r *GormUserRepository) CreateWithTeamspace(user *models.User, teamspace *models.Teamspace, project *models.Project, role models.TeamspaceRole) error {
	user.Email = strings.ToLower(user.Email)

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		if err := tx.Create(teamspace).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTeamspace, err)
		}

		project.TeamspaceID = teamspace.ID
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		member := &models.TeamspaceUser{
			TeamspaceID: teamspace.ID,
			UserID:      user.ID,
			Role:        role,
			JoinedAt:    time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateMembership, err)
		}

		return nil
	})
}

// CreateWithMembership creates a user and attaches them to an existing
// teamspace atomically.
func (r *GormUserRepository) CreateWithMembership(user *models.User, teamspaceID uint64, role models.TeamspaceRole) error {
	user.Email = strings.ToLower(user.Email)

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		member := &models.TeamspaceUser{
			TeamspaceID: teamspaceID,
			UserID:      user.ID,
			Role:        role,
			JoinedAt:    time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateMembership, err)
		}

		return nil
	})
}
