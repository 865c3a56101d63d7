package middleware

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/storyreel/storyreel-api/internal/config"
	"github.com/storyreel/storyreel-api/internal/constants"
	"github.com/storyreel/storyreel-api/internal/database"
	apierrors "github.com/storyreel/storyreel-api/internal/errors"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

// ResolveTeamspace resolves the request's teamspace and the caller's
// membership in it. In multi-tenant mode the teamspace comes from the
// :teamspace slug; in single-tenant mode it is the caller's sole
// membership and no slug is needed. An unknown slug and a slug the caller
// is not a member of produce the identical NOT_FOUND.
func ResolveTeamspace(teamspaces repository.TeamspaceRepository, tenancyMode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var (
			teamspace *models.Teamspace
			member    *models.TeamspaceUser
		)

		if tenancyMode == config.TenancySingle {
			membership, err := teamspaces.FirstMembershipForUser(userID)
			if err != nil {
				respondAccessError(c, resolveAccessError(false, false))
				return
			}
			teamspace = &membership.Teamspace
			member = membership
		} else {
			slug := c.Param("teamspace")
			if !utils.ValidSlug(slug) {
				apierrors.BadRequest(c, "Invalid teamspace slug")
				c.Abort()
				return
			}

			ts, err := teamspaces.FindBySlug(slug)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					log.Printf("teamspace lookup failed: %v", err)
				}
				respondAccessError(c, resolveAccessError(false, false))
				return
			}

			m, err := teamspaces.FindMember(ts.ID, userID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					log.Printf("membership lookup failed: %v", err)
				}
				respondAccessError(c, resolveAccessError(true, false))
				return
			}

			teamspace = ts
			member = m
		}

		auditRepo, err := repository.NewAuditLogRepository(database.GetDB(), teamspace.ID)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTeamspace, *teamspace)
		c.Set(constants.ContextKeyTeamspaceRole, member.Role)
		c.Set(constants.ContextKeyAuditRepo, auditRepo)
		c.Next()
	}
}

// RequireTeamspaceRole gates a route on a minimum teamspace role.
func RequireTeamspaceRole(min models.TeamspaceRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetTeamspaceRole(c)
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

// GetTeamspace retrieves the resolved teamspace from context
func GetTeamspace(c *gin.Context) (*models.Teamspace, bool) {
	value, exists := c.Get(constants.ContextKeyTeamspace)
	if !exists {
		return nil, false
	}

	teamspace, ok := value.(models.Teamspace)
	if !ok {
		return nil, false
	}
	return &teamspace, true
}

// GetTeamspaceRole retrieves the caller's teamspace role from context
func GetTeamspaceRole(c *gin.Context) (models.TeamspaceRole, bool) {
	value, exists := c.Get(constants.ContextKeyTeamspaceRole)
	if !exists {
		return "", false
	}

	role, ok := value.(models.TeamspaceRole)
	return role, ok
}

// GetAuditRepo retrieves the teamspace-scoped audit repository from context
func GetAuditRepo(c *gin.Context) (repository.AuditLogRepository, bool) {
	value, exists := c.Get(constants.ContextKeyAuditRepo)
	if !exists {
		return nil, false
	}

	repo, ok := value.(repository.AuditLogRepository)
	return repo, ok
}
