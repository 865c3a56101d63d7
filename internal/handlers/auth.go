package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storyreel/storyreel-api/internal/constants"
	"github.com/storyreel/storyreel-api/internal/dto"
	apierrors "github.com/storyreel/storyreel-api/internal/errors"
	"github.com/storyreel/storyreel-api/internal/middleware"
	"github.com/storyreel/storyreel-api/internal/ratelimit"
	"github.com/storyreel/storyreel-api/internal/services"
)

// registeredMessage is returned for every registration outcome, taken or
// not, so the response body never reveals whether an email already has an
// account.
const registeredMessage = "Registration successful"

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService    *services.AuthService
	sessionService *services.SessionService
	limiter        *ratelimit.Limiter
	trustProxy     bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, sessionService *services.SessionService, limiter *ratelimit.Limiter, trustProxy bool) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
		limiter:        limiter,
		trustProxy:     trustProxy,
	}
}

// Register creates a new account. An already-registered email yields the
// identical success response.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email         string `json:"email" binding:"required,email"`
		Name          string `json:"name" binding:"required,max=255"`
		Password      string `json:"password" binding:"required"`
		TeamspaceName string `json:"teamspace_name" binding:"omitempty,max=255"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ip := ratelimit.ClientIP(c, h.trustProxy)
	if !h.allow(c, ratelimit.RegistrationKey(ip), ratelimit.RuleRegistration) {
		return
	}

	result, err := h.authService.Register(services.RegisterInput{
		Email:         req.Email,
		Name:          req.Name,
		Password:      req.Password,
		TeamspaceName: req.TeamspaceName,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if !result.Existing {
		http.SetCookie(c.Writer, h.sessionService.NewSessionCookie(result.Token))
	}

	c.JSON(http.StatusCreated, gin.H{"message": registeredMessage})
}

// Login authenticates a user and issues a session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ip := ratelimit.ClientIP(c, h.trustProxy)
	if !h.allow(c, ratelimit.LoginKey(ip, req.Email), ratelimit.RuleLogin) {
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	http.SetCookie(c.Writer, h.sessionService.NewSessionCookie(result.Token))

	c.JSON(http.StatusOK, dto.ToUserDTO(*result.User))
}

// Logout invalidates the current session and clears the cookie. It never
// errors, even without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(constants.SessionCookieName); err == nil {
		h.authService.Logout(token)
	}

	http.SetCookie(c.Writer, h.sessionService.ClearSessionCookie())

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ChangePassword rotates the caller's password and signs out every other
// browser.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	sessionID, _ := middleware.GetSessionID(c)

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if !h.allow(c, ratelimit.PasswordResetKey(user.Email), ratelimit.RulePasswordReset) {
		return
	}

	err := h.authService.ChangePassword(userID, sessionID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// allow runs a rate-limit check and writes the 429 response on rejection.
func (h *AuthHandler) allow(c *gin.Context, key string, rule ratelimit.Rule) bool {
	err := h.limiter.Check(c.Request.Context(), key, rule)
	if err == nil {
		return true
	}

	var rlErr *ratelimit.Error
	if errors.As(err, &rlErr) {
		apierrors.TooManyRequests(c, rlErr.RetryAfterSeconds())
	} else {
		apierrors.InternalError(c, "")
	}
	return false
}

func respondAuthError(c *gin.Context, err error) {
	var policyErr *services.PasswordPolicyError

	switch {
	case errors.As(err, &policyErr):
		apierrors.BadRequestWithDetails(c, "Password does not meet policy", policyErr.Violations)
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "")
	default:
		log.Printf("auth operation failed: %v", err)
		apierrors.InternalError(c, "")
	}
}
