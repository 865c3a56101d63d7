package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storyreel/storyreel-api/internal/dto"
	apierrors "github.com/storyreel/storyreel-api/internal/errors"
	"github.com/storyreel/storyreel-api/internal/middleware"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

// TeamspaceHandler serves teamspace-level reads: listings, detail, and
// the audit log.
type TeamspaceHandler struct {
	teamspaces repository.TeamspaceRepository
}

// NewTeamspaceHandler creates a new TeamspaceHandler.
func NewTeamspaceHandler(teamspaces repository.TeamspaceRepository) *TeamspaceHandler {
	return &TeamspaceHandler{teamspaces: teamspaces}
}

// Create provisions an additional teamspace with a default project and
// the caller as owner. Multi-tenant deployments only.
func (h *TeamspaceHandler) Create(c *gin.Context) {
	type CreateTeamspaceRequest struct {
		Name string `json:"name" binding:"required,max=255"`
		Slug string `json:"slug" binding:"omitempty,max=100"`
	}

	var req CreateTeamspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}
	if !utils.ValidSlug(slug) {
		apierrors.BadRequest(c, "Invalid teamspace slug")
		return
	}

	if _, err := h.teamspaces.FindBySlug(slug); err == nil {
		apierrors.Conflict(c, "A teamspace with this slug already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("failed to check teamspace slug: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	teamspace := &models.Teamspace{Name: req.Name, Slug: slug}
	project := &models.Project{Name: "General", Slug: "general"}
	if err := h.teamspaces.CreateWithOwner(teamspace, project, userID); err != nil {
		log.Printf("failed to create teamspace: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamspaceDTO(*teamspace))
}

// List returns the teamspaces the caller belongs to with their role in
// each.
func (h *TeamspaceHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.teamspaces.ListMembershipsForUser(userID)
	if err != nil {
		log.Printf("failed to list memberships: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	result := make([]dto.TeamspaceWithRoleDTO, len(memberships))
	for i, membership := range memberships {
		result[i] = dto.ToTeamspaceWithRoleDTO(membership)
	}

	c.JSON(http.StatusOK, result)
}

// Get returns the resolved teamspace with its members and the caller's
// role.
func (h *TeamspaceHandler) Get(c *gin.Context) {
	teamspace, exists := middleware.GetTeamspace(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}
	role, exists := middleware.GetTeamspaceRole(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}

	members, err := h.teamspaces.ListMembers(teamspace.ID)
	if err != nil {
		log.Printf("failed to list members: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamspaceDetailDTO(*teamspace, members, role))
}

// AuditLog returns the teamspace's audit entries, newest first.
func (h *TeamspaceHandler) AuditLog(c *gin.Context) {
	auditRepo, exists := middleware.GetAuditRepo(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	entries, total, err := auditRepo.List(params)
	if err != nil {
		log.Printf("failed to list audit entries: %v", err)
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
