package services

import (
	"testing"

	"github.com/storyreel/storyreel-api/internal/config"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db      *gorm.DB
	service *AuthService
}

func setupAuthTestEnv(t *testing.T, tenancyMode string) authTestEnv {
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
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	teamspaceRepo := repository.NewTeamspaceRepository(db)
	sessionService := NewSessionService(repository.NewSessionRepository(db), false)

	return authTestEnv{
		db:      db,
		service: NewAuthService(userRepo, teamspaceRepo, sessionService, tenancyMode),
	}
}

func TestAuthService_Register(t *testing.T) {
	env := setupAuthTestEnv(t, config.TenancyMulti)

	result, err := env.service.Register(RegisterInput{
		Email:    "Alice@Example.com",
		Name:     "Alice",
		Password: "a long and sturdy passphrase",
	})
	require.NoError(t, err)
	require.False(t, result.Existing)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "alice@example.com", result.User.Email)

	// Registration provisions a teamspace with a default project and the
	// owner membership.
	var teamspace models.Teamspace
	require.NoError(t, env.db.First(&teamspace).Error)

	var project models.Project
	require.NoError(t, env.db.Where("teamspace_id = ?", teamspace.ID).First(&project).Error)
	require.Equal(t, "general", project.Slug)

	var membership models.TeamspaceUser
	require.NoError(t, env.db.Where("teamspace_id = ? AND user_id = ?", teamspace.ID, result.User.ID).First(&membership).Error)
	require.Equal(t, models.TeamspaceRoleOwner, membership.Role)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t, config.TenancyMulti)

	_, err := env.service.Register(RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "a long and sturdy passphrase",
	})
	require.NoError(t, err)

	// Case differences do not bypass the uniqueness check.
	result, err := env.service.Register(RegisterInput{
		Email:    "ALICE@example.com",
		Name:     "Impostor",
		Password: "a different sturdy passphrase",
	})
	require.NoError(t, err)
	require.True(t, result.Existing)
	require.Nil(t, result.User)
	require.Empty(t, result.Token)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAuthService_RegisterPasswordPolicy(t *testing.T) {
	env := setupAuthTestEnv(t, config.TenancyMulti)

	_, err := env.service.Register(RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "short",
	})

	var policyErr *PasswordPolicyError
	require.ErrorAs(t, err, &policyErr)
	require.NotEmpty(t, policyErr.Violations)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAuthService_RegisterSingleTenant(t *testing.T) {
	env := setupAuthTestEnv(t, config.TenancySingle)

	first, err := env.service.Register(RegisterInput{
		Email:    "founder@example.com",
		Name:     "Founder",
		Password: "a long and sturdy passphrase",
	})
	require.NoError(t, err)

	second, err := env.service.Register(RegisterInput{
		Email:    "colleague@example.com",
		Name:     "Colleague",
		Password: "another sturdy passphrase",
	})
	require.NoError(t, err)

	// One teamspace; the founder owns it, later registrants join as editors.
	var count int64
	require.NoError(t, env.db.Model(&models.Teamspace{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	var founderMembership, colleagueMembership models.TeamspaceUser
	require.NoError(t, env.db.Where("user_id = ?", first.User.ID).First(&founderMembership).Error)
	require.NoError(t, env.db.Where("user_id = ?", second.User.ID).First(&colleagueMembership).Error)
	require.Equal(t, models.TeamspaceRoleOwner, founderMembership.Role)
	require.Equal(t, models.TeamspaceRoleEditor, colleagueMembership.Role)
}

func TestAuthService_Login(t *testing.T) {
	env := setupAuthTestEnv(t, config.TenancyMulti)

	_, err := env.service.Register(RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "a long and sturdy passphrase",
	})
	require.NoError(t, err)

	result, err := env.service.Login(LoginInput{
		Email:    "alice@example.com",
		Password: "a long and sturdy passphrase",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "alice@example.com", result.User.Email)
}

func TestAuthService_LoginFailuresAreUniform(t *testing.T) {
	env := setupAuthTestEnv(t, config.TenancyMulti)

	_, err := env.service.Register(RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "a long and sturdy passphrase",
	})
	require.NoError(t, err)

	// Unknown email and wrong password surface the identical error.
	_, unknownErr := env.service.Login(LoginInput{
		Email:    "nobody@example.com",
		Password: "a long and sturdy passphrase",
	})
	_, wrongErr := env.service.Login(LoginInput{
		Email:    "alice@example.com",
		Password: "not the password",
	})

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := setupAuthTestEnv(t, config.TenancyMulti)

	reg, err := env.service.Register(RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "a long and sturdy passphrase",
	})
	require.NoError(t, err)

	other, err := env.service.Login(LoginInput{
		Email:    "alice@example.com",
		Password: "a long and sturdy passphrase",
	})
	require.NoError(t, err)

	err = env.service.ChangePassword(reg.User.ID, reg.Session.ID, "not the password", "brand new sturdy passphrase")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	err = env.service.ChangePassword(reg.User.ID, reg.Session.ID, "a long and sturdy passphrase", "brand new sturdy passphrase")
	require.NoError(t, err)

	// The current session survives; every other one is revoked.
	session, _, err := env.service.sessions.Validate(reg.Token)
	require.NoError(t, err)
	require.NotNil(t, session)

	revoked, _, err := env.service.sessions.Validate(other.Token)
	require.NoError(t, err)
	require.Nil(t, revoked)

	_, err = env.service.Login(LoginInput{
		Email:    "alice@example.com",
		Password: "brand new sturdy passphrase",
	})
	require.NoError(t, err)
}
