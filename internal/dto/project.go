package dto

import (
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
)

// ProjectDTO is the public shape of a project
type ProjectDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectDetailDTO pairs a project with the caller's effective role
type ProjectDetailDTO struct {
	ProjectDTO
	EffectiveRole models.ProjectRole `json:"effective_role"`
}

// ToProjectDTO converts a project to its public shape
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		Slug:      project.Slug,
		CreatedAt: project.CreatedAt,
	}
}

// ToProjectDetailDTO converts a project plus effective role to a detail DTO
func ToProjectDetailDTO(project models.Project, role models.ProjectRole) ProjectDetailDTO {
	return ProjectDetailDTO{
		ProjectDTO:    ToProjectDTO(project),
		EffectiveRole: role,
	}
}
