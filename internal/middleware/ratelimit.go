package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/storyreel/storyreel-api/internal/errors"
	"github.com/storyreel/storyreel-api/internal/ratelimit"
)

// RateLimit throttles a route group by client IP under the given rule.
func RateLimit(limiter *ratelimit.Limiter, rule ratelimit.Rule, trustProxyHeaders bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ratelimit.ClientIP(c, trustProxyHeaders)

		if err := limiter.Check(c.Request.Context(), ratelimit.APIKey(ip), rule); err != nil {
			var rlErr *ratelimit.Error
			if errors.As(err, &rlErr) {
				apierrors.TooManyRequests(c, rlErr.RetryAfterSeconds())
				c.Abort()
				return
			}
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
