package services

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/storyreel/storyreel-api/internal/constants"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/utils"
)

const (
	// sessionTokenBytes gives 256 bits of entropy per token.
	sessionTokenBytes = 32

	// SessionLifetime is the absolute lifetime of a session.
	SessionLifetime = 30 * 24 * time.Hour

	// sessionRenewalWindow is the tail of a session's life during which a
	// successful validation extends the expiry in place.
	sessionRenewalWindow = 7 * 24 * time.Hour
)

// Tokens use lowercase base32 without padding, cookie-safe with no
// escaping concerns.
var tokenEncoding = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// SessionService issues, validates, renews, and revokes opaque session
// tokens. Only token digests reach storage.
type SessionService struct {
	sessions repository.SessionRepository

	// secureCookies marks cookies Secure; enabled in production.
	secureCookies bool
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions repository.SessionRepository, secureCookies bool) *SessionService {
	return &SessionService{
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

// GenerateToken returns a cryptographically random opaque token.
func (s *SessionService) GenerateToken() (string, error) {
	raw := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return tokenEncoding.EncodeToString(raw), nil
}

// Create issues a fresh session for the user and returns the plaintext
// token alongside the stored record. The token exists only here and in the
// cookie.
func (s *SessionService) Create(userID uint64) (string, *models.Session, error) {
	token, err := s.GenerateToken()
	if err != nil {
		return "", nil, err
	}

	session := &models.Session{
		ID:        utils.HashToken(token),
		UserID:    userID,
		ExpiresAt: time.Now().Add(SessionLifetime),
	}
	if err := s.sessions.Create(session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	return token, session, nil
}

// Validate resolves a bearer token to its session and user. Malformed,
// unknown, and expired tokens all come back as (nil, nil, nil): callers
// cannot distinguish why authentication failed. Detecting an expired
// session deletes it; a validation inside the renewal window extends the
// expiry in place without reissuing the token.
func (s *SessionService) Validate(token string) (*models.Session, *models.User, error) {
	if token == "" {
		return nil, nil, nil
	}

	session, user, err := s.sessions.FindWithUser(utils.HashToken(token))
	if err != nil {
		return nil, nil, nil
	}

	now := time.Now()
	if now.After(session.ExpiresAt) {
		if err := s.sessions.Delete(session.ID); err != nil {
			log.Printf("failed to delete expired session: %v", err)
		}
		return nil, nil, nil
	}

	if session.ExpiresAt.Sub(now) < sessionRenewalWindow {
		// Best-effort sliding renewal; a lost race between two concurrent
		// requests just means one extension wins.
		extended := now.Add(SessionLifetime)
		if err := s.sessions.UpdateExpiry(session.ID, extended); err != nil {
			log.Printf("failed to renew session: %v", err)
		} else {
			session.ExpiresAt = extended
		}
	}

	return session, user, nil
}

// Invalidate deletes a session by id. Idempotent.
func (s *SessionService) Invalidate(sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// InvalidateByToken deletes the session a bearer token refers to.
func (s *SessionService) InvalidateByToken(token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(utils.HashToken(token))
}

// InvalidateAllExcept deletes all of a user's sessions but one, e.g. after
// a password change keeps the current browser signed in.
func (s *SessionService) InvalidateAllExcept(userID uint64, keepID string) error {
	return s.sessions.DeleteByUserExcept(userID, keepID)
}

// InvalidateAll deletes every session a user owns.
func (s *SessionService) InvalidateAll(userID uint64) error {
	return s.sessions.DeleteByUser(userID)
}

// NewSessionCookie builds the Set-Cookie value carrying a session token.
func (s *SessionService) NewSessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionLifetime / time.Second),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie builds the cookie that removes the session cookie.
func (s *SessionService) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
