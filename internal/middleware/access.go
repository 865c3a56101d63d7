package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/storyreel/storyreel-api/internal/errors"
)

// resolveAccessError is the single policy point deciding NOT_FOUND versus
// FORBIDDEN for tenancy resolution failures. A resource that does not
// resolve, or whose surrounding tenant the caller has no confirmed
// standing in, is NOT_FOUND so probers learn nothing from the response.
// FORBIDDEN is reserved for resources the caller is entitled to know
// exist but lacks a grant for.
func resolveAccessError(exists, memberOfParent bool) string {
	if !exists || !memberOfParent {
		return apierrors.ErrCodeNotFound
	}
	return apierrors.ErrCodeForbidden
}

func respondAccessError(c *gin.Context, code string) {
	switch code {
	case apierrors.ErrCodeForbidden:
		apierrors.Forbidden(c, "")
	default:
		apierrors.NotFound(c, "")
	}
	c.Abort()
}
