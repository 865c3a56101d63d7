package middleware

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/storyreel/storyreel-api/internal/constants"
	"github.com/storyreel/storyreel-api/internal/database"
	apierrors "github.com/storyreel/storyreel-api/internal/errors"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

// ResolveProject resolves the :project slug within the already-resolved
// teamspace, computes the caller's effective role, and attaches
// project-scoped repositories to the context. It must run after
// ResolveTeamspace. A missing project is NOT_FOUND; a project the caller
// holds no grant for is FORBIDDEN, since teamspace membership already
// entitles them to know it exists.
func ResolveProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		teamspace, exists := GetTeamspace(c)
		if !exists {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		teamspaceRole, exists := GetTeamspaceRole(c)
		if !exists {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		slug := c.Param("project")
		if !utils.ValidSlug(slug) {
			apierrors.BadRequest(c, "Invalid project slug")
			c.Abort()
			return
		}

		projects, err := repository.NewProjectRepository(database.GetDB(), teamspace.ID)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		project, err := projects.FindBySlug(slug)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("project lookup failed: %v", err)
			}
			respondAccessError(c, resolveAccessError(false, true))
			return
		}

		var member *models.ProjectUser
		if m, err := projects.FindMember(project.ID, userID); err == nil {
			member = m
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("project membership lookup failed: %v", err)
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		role := models.CalculateEffectiveRole(teamspaceRole, member)
		if role == nil {
			respondAccessError(c, resolveAccessError(true, true))
			return
		}

		contentRepo, err := repository.NewContentRepository(database.GetDB(), project.ID)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		documentRepo, err := repository.NewDocumentRepository(database.GetDB(), project.ID)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, *project)
		c.Set(constants.ContextKeyEffectiveRole, *role)
		c.Set(constants.ContextKeyContentRepo, contentRepo)
		c.Set(constants.ContextKeyDocumentRepo, documentRepo)
		c.Next()
	}
}

// RequireProjectRole gates a route on a minimum effective project role.
func RequireProjectRole(min models.ProjectRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetEffectiveRole(c)
		if !exists {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		if !role.AtLeast(min) {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetProject retrieves the resolved project from context
func GetProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}

	project, ok := value.(models.Project)
	if !ok {
		return nil, false
	}
	return &project, true
}

// GetEffectiveRole retrieves the caller's effective project role from context
func GetEffectiveRole(c *gin.Context) (models.ProjectRole, bool) {
	value, exists := c.Get(constants.ContextKeyEffectiveRole)
	if !exists {
		return "", false
	}

	role, ok := value.(models.ProjectRole)
	return role, ok
}

// GetContentRepo retrieves the project-scoped content repository from context
func GetContentRepo(c *gin.Context) (repository.ContentRepository, bool) {
	value, exists := c.Get(constants.ContextKeyContentRepo)
	if !exists {
		return nil, false
	}

	repo, ok := value.(repository.ContentRepository)
	return repo, ok
}

// GetDocumentRepo retrieves the project-scoped document repository from context
func GetDocumentRepo(c *gin.Context) (repository.DocumentRepository, bool) {
	value, exists := c.Get(constants.ContextKeyDocumentRepo)
	if !exists {
		return nil, false
	}

	repo, ok := value.(repository.DocumentRepository)
	return repo, ok
}
