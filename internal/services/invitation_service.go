package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/password"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

const inviteLifetime = 7 * 24 * time.Hour

var (
	// ErrInviteInvalid covers unknown, expired, consumed, and
	// over-attempted invitations; callers get one generic failure so the
	// token space cannot be probed.
	ErrInviteInvalid = errors.New("invitation is invalid or has expired")
	ErrInviteRole    = errors.New("invitation role must be admin, editor, or viewer")
	ErrInviteEmail   = errors.New("invitation email is required")
)

// InvitationService creates and consumes teamspace invitations.
type InvitationService struct {
	invitations repository.InvitationRepository
	teamspaces  repository.TeamspaceRepository
	users       repository.UserRepository
	sessions    *SessionService
	mailer      InviteMailer
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(invitations repository.InvitationRepository, teamspaces repository.TeamspaceRepository, users repository.UserRepository, sessions *SessionService, mailer InviteMailer) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		teamspaces:  teamspaces,
		users:       users,
		sessions:    sessions,
		mailer:      mailer,
	}
}

// CreateInvite issues an invitation into a teamspace. Only the token's
// digest is persisted; the plaintext token travels to the recipient via
// the mailer and is returned for the response.
func (s *InvitationService) CreateInvite(teamspace *models.Teamspace, email string, role models.TeamspaceRole, inviterID uint64) (*models.Invitation, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", ErrInviteEmail
	}
	if !role.Valid() || role == models.TeamspaceRoleOwner {
		return nil, "", ErrInviteRole
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate invite token: %w", err)
	}

	invitation := &models.Invitation{
		TeamspaceID: teamspace.ID,
		Email:       email,
		Role:        role,
		TokenHash:   utils.HashToken(token),
		InvitedBy:   inviterID,
		ExpiresAt:   time.Now().Add(inviteLifetime),
	}
	if err := s.invitations.Create(invitation); err != nil {
		return nil, "", fmt.Errorf("failed to create invitation: %w", err)
	}

	// Fire-and-forget delivery; a mail failure must not block the response.
	go func(email, name, token string) {
		if err := s.mailer.SendInvite(email, name, token); err != nil {
			log.Printf("failed to deliver invitation for teamspace %d: %v", teamspace.ID, err)
		}
	}(email, teamspace.Name, token)

	return invitation, token, nil
}

// AcceptResult is the outcome of a successful invitation acceptance.
type AcceptResult struct {
	User    *models.User
	Token   string
	Session *models.Session
}

// AcceptInvite consumes an invitation exactly once. A new user is created
// when the invited email has no account, otherwise the existing account is
// attached to the teamspace. Every failure mode maps to ErrInviteInvalid.
func (s *InvitationService) AcceptInvite(token, name, newPassword string) (*AcceptResult, error) {
	invitation, err := s.invitations.FindByTokenHash(utils.HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteInvalid
		}
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}

	consumed, err := s.invitations.Consume(invitation.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInviteExpired),
			errors.Is(err, repository.ErrInviteConsumed),
			errors.Is(err, repository.ErrInviteAttemptsExceeded):
			return nil, ErrInviteInvalid
		default:
			return nil, fmt.Errorf("failed to consume invitation: %w", err)
		}
	}

	user, err := s.users.FindByEmail(consumed.Email)
	switch {
	case err == nil:
		if _, err := s.teamspaces.FindMember(consumed.TeamspaceID, user.ID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check membership: %w", err)
			}
			member := &models.TeamspaceUser{
				TeamspaceID: consumed.TeamspaceID,
				UserID:      user.ID,
				Role:        consumed.Role,
			}
			if err := s.teamspaces.AddMember(member); err != nil {
				return nil, fmt.Errorf("failed to add member: %w", err)
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if violations := password.Validate(newPassword); len(violations) > 0 {
			return nil, &PasswordPolicyError{Violations: violations}
		}
		hash, err := password.Hash(newPassword)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}

		displayName := strings.TrimSpace(name)
		if displayName == "" {
			displayName = consumed.Email
		}

		user = &models.User{
			Email:        consumed.Email,
			Name:         displayName,
			PasswordHash: hash,
		}
		if err := s.users.CreateWithMembership(user, consumed.TeamspaceID, consumed.Role); err != nil {
			return nil, ErrFailedToCreateUser
		}
	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	sessionToken, session, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, err
	}

	return &AcceptResult{User: user, Token: sessionToken, Session: session}, nil
}
