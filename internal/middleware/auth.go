package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/storyreel/storyreel-api/internal/constants"
	apierrors "github.com/storyreel/storyreel-api/internal/errors"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/services"
)

// RequireAuth resolves the session cookie to a user. Any malformed,
// unknown, or expired token aborts with the same UNAUTHORIZED response.
func RequireAuth(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(constants.SessionCookieName)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		session, user, err := sessions.Validate(token)
		if err != nil || session == nil || user == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, *user)
		c.Set(constants.ContextKeySessionID, session.ID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	return id, ok
}

// GetUser retrieves the current user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(models.User)
	if !ok {
		return nil, false
	}
	return &user, true
}

// GetSessionID retrieves the current session ID from context
func GetSessionID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeySessionID)
	if !exists {
		return "", false
	}

	id, ok := value.(string)
	return id, ok
}
