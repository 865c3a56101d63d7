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
	"github.com/storyreel/storyreel-api/internal/services"
)

// InvitationHandler issues teamspace invitations and accepts them.
type InvitationHandler struct {
	invitationService *services.InvitationService
	sessionService    *services.SessionService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService *services.InvitationService, sessionService *services.SessionService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		sessionService:    sessionService,
	}
}

// Create issues an invitation into the resolved teamspace. Route guards
// restrict this to owners.
func (h *InvitationHandler) Create(c *gin.Context) {
	type CreateInviteRequest struct {
		Email string               `json:"email" binding:"required,email"`
		Role  models.TeamspaceRole `json:"role" binding:"required"`
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	teamspace, exists := middleware.GetTeamspace(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	invitation, token, err := h.invitationService.CreateInvite(teamspace, req.Email, req.Role, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInviteEmail), errors.Is(err, services.ErrInviteRole):
			apierrors.BadRequest(c, err.Error())
		default:
			log.Printf("failed to create invitation: %v", err)
			apierrors.InternalError(c, "")
		}
		return
	}

	if auditRepo, ok := middleware.GetAuditRepo(c); ok {
		if err := auditRepo.Record(userID, "invitation.created", string(req.Role)); err != nil {
			log.Printf("failed to record audit entry: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         invitation.ID,
		"role":       invitation.Role,
		"expires_at": invitation.ExpiresAt,
		"token":      token,
	})
}

// Accept consumes an invitation token and signs the accepting user in.
// Public route; every failure mode returns the same generic error.
func (h *InvitationHandler) Accept(c *gin.Context) {
	type AcceptInviteRequest struct {
		Token    string `json:"token" binding:"required"`
		Name     string `json:"name" binding:"omitempty,max=255"`
		Password string `json:"password" binding:"omitempty"`
	}

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.invitationService.AcceptInvite(req.Token, req.Name, req.Password)
	if err != nil {
		var policyErr *services.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			apierrors.BadRequestWithDetails(c, "Password does not meet policy", policyErr.Violations)
		case errors.Is(err, services.ErrInviteInvalid):
			apierrors.BadRequest(c, services.ErrInviteInvalid.Error())
		default:
			log.Printf("failed to accept invitation: %v", err)
			apierrors.InternalError(c, "")
		}
		return
	}

	http.SetCookie(c.Writer, h.sessionService.NewSessionCookie(result.Token))

	c.JSON(http.StatusOK, dto.ToUserDTO(*result.User))
}
