package ratelimit

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Rule describes a fixed-window budget.
type Rule struct {
	Limit  int64
	Window time.Duration
}

// Default rules per operation.
var (
	RuleLogin         = Rule{Limit: 5, Window: time.Minute}
	RuleRegistration  = Rule{Limit: 3, Window: time.Hour}
	RulePasswordReset = Rule{Limit: 3, Window: time.Hour}
	RuleAPI           = Rule{Limit: 100, Window: time.Minute}
)

// Limiter enforces fixed-window budgets per composite key on top of a
// pluggable Store.
type Limiter struct {
	store Store

	// failClosed rejects requests when the store is unreachable. The
	// default is fail-open: a store outage must not lock out every user.
	failClosed bool
}

// New creates a Limiter.
func New(store Store, failClosed bool) *Limiter {
	return &Limiter{store: store, failClosed: failClosed}
}

// Check records one hit for the key and returns *Error once the count
// exceeds the rule's limit. Store failures follow the configured fail
// mode and are logged without the key's identifying parts.
func (l *Limiter) Check(ctx context.Context, key string, rule Rule) error {
	count, resetAt, err := l.store.Increment(ctx, key, rule.Window)
	if err != nil {
		log.Printf("rate limit store unavailable (fail-closed=%v)", l.failClosed)
		if l.failClosed {
			return &Error{RetryAfter: rule.Window}
		}
		return nil
	}

	if count > rule.Limit {
		return &Error{RetryAfter: time.Until(resetAt)}
	}

	return nil
}

// Reset clears the window for a key, e.g. after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}

// Composite keys. Combining IP and identity narrows the blast radius of
// both credential stuffing and targeted lockout.

func LoginKey(ip, email string) string {
	return fmt.Sprintf("login:%s:%s", ip, strings.ToLower(email))
}

func RegistrationKey(ip string) string {
	return fmt.Sprintf("registration:%s", ip)
}

func PasswordResetKey(email string) string {
	return fmt.Sprintf("password-reset:%s", strings.ToLower(email))
}

func APIKey(ip string) string {
	return fmt.Sprintf("api:%s", ip)
}

// untrustedIP is the placeholder used when proxy headers are not trusted;
// believing X-Forwarded-For without a real proxy in front makes the limit
// trivially spoofable.
const untrustedIP = "untrusted"

// ClientIP resolves the caller's IP for rate-limit keys.
func ClientIP(c *gin.Context, trustProxyHeaders bool) string {
	if !trustProxyHeaders {
		return untrustedIP
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return untrustedIP
}
