package services

import (
	"testing"
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type invitationTestEnv struct {
	db        *gorm.DB
	service   *InvitationService
	teamspace *models.Teamspace
}

func setupInvitationTestEnv(t *testing.T) invitationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Teamspace{},
		&models.TeamspaceUser{},
		&models.Project{},
		&models.ProjectUser{},
		&models.Invitation{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	teamspace := &models.Teamspace{Name: "Studio", Slug: "studio"}
	require.NoError(t, db.Create(teamspace).Error)

	sessions := NewSessionService(repository.NewSessionRepository(db), false)
	service := NewInvitationService(
		repository.NewInvitationRepository(db),
		repository.NewTeamspaceRepository(db),
		repository.NewUserRepository(db),
		sessions,
		LogMailer{},
	)

	return invitationTestEnv{db: db, service: service, teamspace: teamspace}
}

func TestInvitationService_CreateInvite(t *testing.T) {
	env := setupInvitationTestEnv(t)

	invitation, token, err := env.service.CreateInvite(env.teamspace, "Invitee@Example.com", models.TeamspaceRoleEditor, 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "invitee@example.com", invitation.Email)
	require.True(t, invitation.ExpiresAt.After(time.Now()))

	// Only the digest is stored.
	require.Equal(t, utils.HashToken(token), invitation.TokenHash)
	require.NotEqual(t, token, invitation.TokenHash)
}

func TestInvitationService_CreateInviteRejectsBadInput(t *testing.T) {
	env := setupInvitationTestEnv(t)

	_, _, err := env.service.CreateInvite(env.teamspace, "  ", models.TeamspaceRoleEditor, 1)
	require.ErrorIs(t, err, ErrInviteEmail)

	// Ownership is never granted by invitation.
	_, _, err = env.service.CreateInvite(env.teamspace, "invitee@example.com", models.TeamspaceRoleOwner, 1)
	require.ErrorIs(t, err, ErrInviteRole)

	_, _, err = env.service.CreateInvite(env.teamspace, "invitee@example.com", models.TeamspaceRole("superuser"), 1)
	require.ErrorIs(t, err, ErrInviteRole)
}

func TestInvitationService_AcceptCreatesUser(t *testing.T) {
	env := setupInvitationTestEnv(t)

	_, token, err := env.service.CreateInvite(env.teamspace, "invitee@example.com", models.TeamspaceRoleEditor, 1)
	require.NoError(t, err)

	result, err := env.service.AcceptInvite(token, "Invitee", "a long and sturdy passphrase")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "invitee@example.com", result.User.Email)

	var membership models.TeamspaceUser
	require.NoError(t, env.db.Where("teamspace_id = ? AND user_id = ?", env.teamspace.ID, result.User.ID).First(&membership).Error)
	require.Equal(t, models.TeamspaceRoleEditor, membership.Role)
}

func TestInvitationService_AcceptAttachesExistingUser(t *testing.T) {
	env := setupInvitationTestEnv(t)

	existing := &models.User{Email: "invitee@example.com", Name: "Invitee", PasswordHash: "x"}
	require.NoError(t, env.db.Create(existing).Error)

	_, token, err := env.service.CreateInvite(env.teamspace, "invitee@example.com", models.TeamspaceRoleViewer, 1)
	require.NoError(t, err)

	// Name and password are ignored for an existing account.
	result, err := env.service.AcceptInvite(token, "", "")
	require.NoError(t, err)
	require.Equal(t, existing.ID, result.User.ID)

	var membership models.TeamspaceUser
	require.NoError(t, env.db.Where("teamspace_id = ? AND user_id = ?", env.teamspace.ID, existing.ID).First(&membership).Error)
	require.Equal(t, models.TeamspaceRoleViewer, membership.Role)
}

func TestInvitationService_AcceptFailuresAreGeneric(t *testing.T) {
	env := setupInvitationTestEnv(t)

	// Unknown token.
	_, err := env.service.AcceptInvite("no-such-token", "", "a long and sturdy passphrase")
	require.ErrorIs(t, err, ErrInviteInvalid)

	// Consumed token.
	_, token, err := env.service.CreateInvite(env.teamspace, "invitee@example.com", models.TeamspaceRoleEditor, 1)
	require.NoError(t, err)
	_, err = env.service.AcceptInvite(token, "Invitee", "a long and sturdy passphrase")
	require.NoError(t, err)
	_, err = env.service.AcceptInvite(token, "Invitee", "a long and sturdy passphrase")
	require.ErrorIs(t, err, ErrInviteInvalid)

	// Expired token.
	_, expiredToken, err := env.service.CreateInvite(env.teamspace, "late@example.com", models.TeamspaceRoleEditor, 1)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.Invitation{}).
		Where("token_hash = ?", utils.HashToken(expiredToken)).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)
	_, err = env.service.AcceptInvite(expiredToken, "Late", "a long and sturdy passphrase")
	require.ErrorIs(t, err, ErrInviteInvalid)
}

func TestInvitationService_AcceptNewUserNeedsPolicyPassword(t *testing.T) {
	env := setupInvitationTestEnv(t)

	_, token, err := env.service.CreateInvite(env.teamspace, "invitee@example.com", models.TeamspaceRoleEditor, 1)
	require.NoError(t, err)

	_, err = env.service.AcceptInvite(token, "Invitee", "short")
	var policyErr *PasswordPolicyError
	require.ErrorAs(t, err, &policyErr)
}
