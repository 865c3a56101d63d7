package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storyreel/storyreel-api/internal/database"
	"github.com/storyreel/storyreel-api/internal/dto"
	apierrors "github.com/storyreel/storyreel-api/internal/errors"
	"github.com/storyreel/storyreel-api/internal/middleware"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

// ProjectHandler manages projects and project-level memberships within
// the resolved teamspace.
type ProjectHandler struct{}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

func projectRepoForTeamspace(c *gin.Context) (repository.ProjectRepository, bool) {
	teamspace, exists := middleware.GetTeamspace(c)
	if !exists {
		apierrors.InternalError(c, "")
		return nil, false
	}

	repo, err := repository.NewProjectRepository(database.GetDB(), teamspace.ID)
	if err != nil {
		apierrors.InternalError(c, "")
		return nil, false
	}
	return repo, true
}

// List returns the teamspace's projects.
func (h *ProjectHandler) List(c *gin.Context) {
	repo, ok := projectRepoForTeamspace(c)
	if !ok {
		return
	}

	projects, err := repo.List()
	if err != nil {
		log.Printf("failed to list projects: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	result := make([]dto.ProjectDTO, len(projects))
	for i, project := range projects {
		result[i] = dto.ToProjectDTO(project)
	}

	c.JSON(http.StatusOK, result)
}

// Create creates a project in the teamspace. Route guards restrict this
// to teamspace admins.
func (h *ProjectHandler) Create(c *gin.Context) {
	type CreateProjectRequest struct {
		Name string `json:"name" binding:"required,max=255"`
		Slug string `json:"slug" binding:"omitempty,max=100"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}
	if !utils.ValidSlug(slug) {
		apierrors.BadRequest(c, "Invalid project slug")
		return
	}

	repo, ok := projectRepoForTeamspace(c)
	if !ok {
		return
	}

	if _, err := repo.FindBySlug(slug); err == nil {
		apierrors.Conflict(c, "A project with this slug already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("failed to check project slug: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	project := &models.Project{Name: req.Name, Slug: slug}
	if err := repo.Create(project); err != nil {
		log.Printf("failed to create project: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// Get returns the resolved project with the caller's effective role.
func (h *ProjectHandler) Get(c *gin.Context) {
	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}
	role, exists := middleware.GetEffectiveRole(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*project, role))
}

// SetMember adds or updates a project-level membership, optionally with a
// role override. Route guards restrict this to teamspace admins.
func (h *ProjectHandler) SetMember(c *gin.Context) {
	type SetMemberRequest struct {
		RoleOverride *models.ProjectRole `json:"role_override"`
	}

	var req SetMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.RoleOverride != nil && !req.RoleOverride.Valid() {
		apierrors.BadRequest(c, "Invalid role override")
		return
	}

	memberID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}

	repo, ok := projectRepoForTeamspace(c)
	if !ok {
		return
	}

	member := &models.ProjectUser{
		ProjectID:    project.ID,
		UserID:       memberID,
		RoleOverride: req.RoleOverride,
	}
	if err := repo.UpsertMember(member); err != nil {
		log.Printf("failed to set project member: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	if auditRepo, ok := middleware.GetAuditRepo(c); ok {
		actorID, _ := middleware.GetUserID(c)
		if err := auditRepo.Record(actorID, "project.member_set", project.Slug); err != nil {
			log.Printf("failed to record audit entry: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member updated"})
}

// RemoveMember removes a project-level membership. Route guards restrict
// this to teamspace admins.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}

	repo, ok := projectRepoForTeamspace(c)
	if !ok {
		return
	}

	if err := repo.RemoveMember(project.ID, memberID); err != nil {
		log.Printf("failed to remove project member: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
