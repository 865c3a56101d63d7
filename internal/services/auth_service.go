package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/storyreel/storyreel-api/internal/config"
	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/password"
	"github.com/storyreel/storyreel-api/internal/repository"
	"github.com/storyreel/storyreel-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRequired        = errors.New("email is required")
	ErrNameRequired         = errors.New("name is required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrNoTeamspace          = errors.New("no teamspace exists for this deployment")
)

// PasswordPolicyError carries every policy violation for a rejected
// password.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return "password does not meet policy: " + strings.Join(e.Violations, "; ")
}

// AuthService implements the identity-establishing operations:
// registration, login, logout, and password change.
type AuthService struct {
	users      repository.UserRepository
	teamspaces repository.TeamspaceRepository
	sessions   *SessionService

	tenancyMode string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, teamspaces repository.TeamspaceRepository, sessions *SessionService, tenancyMode string) *AuthService {
	return &AuthService{
		users:       users,
		teamspaces:  teamspaces,
		sessions:    sessions,
		tenancyMode: tenancyMode,
	}
}

// RegisterInput represents the required information to create an account.
type RegisterInput struct {
	Email         string
	Name          string
	Password      string
	TeamspaceName string
}

// RegisterResult is the outcome of a registration. Existing is true when
// the email was already taken; callers must respond with the exact same
// shape as a fresh registration so the difference is unobservable.
type RegisterResult struct {
	User     *models.User
	Token    string
	Session  *models.Session
	Existing bool
}

// Register creates a new account. In multi-tenant mode every registrant
// gets a fresh teamspace with a default project and the owner role. In
// single-tenant mode the first ever registrant creates the sole teamspace;
// later registrants join it as editors.
func (s *AuthService) Register(input RegisterInput) (*RegisterResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	if violations := password.Validate(input.Password); len(violations) > 0 {
		return nil, &PasswordPolicyError{Violations: violations}
	}

	if _, err := s.users.FindByEmail(email); err == nil {
		// The fresh path pays a full argon2 hash below; burn the same
		// work here so the two outcomes are not separable by latency.
		password.DummyVerify(input.Password)
		return &RegisterResult{Existing: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	if err := s.createUserWithTenancy(user, input.TeamspaceName); err != nil {
		return nil, err
	}

	token, session, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{User: user, Token: token, Session: session}, nil
}

func (s *AuthService) createUserWithTenancy(user *models.User, teamspaceName string) error {
	if s.tenancyMode == config.TenancySingle {
		count, err := s.teamspaces.Count()
		if err != nil {
			return fmt.Errorf("failed to count teamspaces: %w", err)
		}

		if count > 0 {
			sole, err := s.soleTeamspace()
			if err != nil {
				return err
			}
			// Later registrants join the sole teamspace with a lower
			// default role.
			if err := s.users.CreateWithMembership(user, sole.ID, models.TeamspaceRoleEditor); err != nil {
				return ErrFailedToCreateUser
			}
			return nil
		}
	}

	name := strings.TrimSpace(teamspaceName)
	if name == "" {
		name = user.Name + "'s Team"
	}

	slug, err := s.uniqueSlug(name)
	if err != nil {
		return err
	}

	teamspace := &models.Teamspace{Name: name, Slug: slug}
	project := &models.Project{Name: "General", Slug: "general"}

	if err := s.users.CreateWithTeamspace(user, teamspace, project, models.TeamspaceRoleOwner); err != nil {
		return ErrFailedToCreateUser
	}

	return nil
}

func (s *AuthService) soleTeamspace() (*models.Teamspace, error) {
	teamspace, err := s.teamspaces.First()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoTeamspace
		}
		return nil, fmt.Errorf("failed to resolve teamspace: %w", err)
	}
	return teamspace, nil
}

func (s *AuthService) uniqueSlug(name string) (string, error) {
	slug := utils.Slugify(name)
	if slug == "" {
		slug = "teamspace"
	}

	candidate := slug
	for i := 0; i < 5; i++ {
		_, err := s.teamspaces.FindBySlug(candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}

		suffix, err := utils.GenerateInviteToken()
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%s", slug, suffix[:6])
	}

	return "", fmt.Errorf("failed to derive a unique slug")
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User    *models.User
	Token   string
	Session *models.Session
}

// Login verifies credentials and issues a session. An unknown email burns
// a dummy hash verification so its latency matches a wrong-password
// failure, and both produce the identical ErrInvalidCredentials.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			password.DummyVerify(input.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !password.Verify(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	token, session, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Token: token, Session: session}, nil
}

// Logout invalidates the session a bearer token refers to. Best effort:
// a missing or bogus token is not an error.
func (s *AuthService) Logout(token string) {
	_ = s.sessions.InvalidateByToken(token)
}

// ChangePassword verifies the current password, applies the policy to the
// new one, rehashes, and invalidates every other session the user owns.
func (s *AuthService) ChangePassword(userID uint64, currentSessionID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !password.Verify(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	if violations := password.Validate(newPassword); len(violations) > 0 {
		return &PasswordPolicyError{Violations: violations}
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return ErrFailedToHashPassword
	}

	if err := s.users.UpdatePasswordHash(userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.sessions.InvalidateAllExcept(userID, currentSessionID)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
