package repository

import (
	"github.com/storyreel/storyreel-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository. It
// is bound to one teamspace; every query carries the teamspace predicate.
type GormProjectRepository struct {
	db          *gorm.DB
	teamspaceID uint64
}

// NewProjectRepository creates a ProjectRepository scoped to a teamspace.
func NewProjectRepository(db *gorm.DB, teamspaceID uint64) (ProjectRepository, error) {
	if teamspaceID == 0 {
		return nil, ErrMissingTenantID
	}
	return &GormProjectRepository{db: db, teamspaceID: teamspaceID}, nil
}

func (r *GormProjectRepository) scoped() *gorm.DB {
	return r.db.Where("projects.teamspace_id = ?", r.teamspaceID)
}

// Create creates a project inside the scoped teamspace
func (r *GormProjectRepository) Create(project *models.Project) error {
	project.TeamspaceID = r.teamspaceID
	return r.db.Create(project).Error
}

// FindByID finds a project within the scoped teamspace. A project in
// another teamspace yields record-not-found, indistinguishable from a
// missing row.
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.scoped().Where("projects.id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindBySlug finds a project by slug within the scoped teamspace
func (r *GormProjectRepository) FindBySlug(slug string) (*models.Project, error) {
	var project models.Project
	if err := r.scoped().Where("projects.slug = ?", slug).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List lists the scoped teamspace's projects
func (r *GormProjectRepository) List() ([]models.Project, error) {
	var projects []models.Project
	if err := r.scoped().Order("projects.created_at ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindMember finds a project-level membership, verifying through the join
// that the project belongs to the scoped teamspace.
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectUser, error) {
	var member models.ProjectUser
	err := r.db.
		Joins("JOIN projects ON projects.id = project_users.project_id").
		Where("projects.teamspace_id = ?", r.teamspaceID).
		Where("project_users.project_id = ? AND project_users.user_id = ?", projectID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// UpsertMember adds or updates a project-level membership
func (r *GormProjectRepository) UpsertMember(member *models.ProjectUser) error {
	if _, err := r.FindByID(member.ProjectID); err != nil {
		return err
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role_override"}),
		}).
		Create(member).Error
}

// RemoveMember removes a project-level membership
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	if _, err := r.FindByID(projectID); err != nil {
		return err
	}

	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectUser{}).Error
}
