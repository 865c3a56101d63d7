package repository

import (
	"errors"
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
	"github.com/storyreel/storyreel-api/internal/utils"
)

// ErrMissingTenantID is returned when a scoped repository is constructed
// without a tenant id. Scoped repositories are the only path to
// tenant-owned rows; an unscoped instance must never exist.
var ErrMissingTenantID = errors.New("repository: tenant id is required")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by case-normalized email
	FindByEmail(email string) (*models.User, error)

	// UpdatePasswordHash replaces a user's password hash
	UpdatePasswordHash(userID uint64, hash string) error

	// CreateWithTeamspace creates a user, a teamspace with a default
	// project, and the owner membership within a single transaction.
	CreateWithTeamspace(user *models.User, teamspace *models.Teamspace, project *models.Project, role models.TeamspaceRole) error

	// CreateWithMembership creates a user and attaches them to an existing
	// teamspace within a single transaction.
	CreateWithMembership(user *models.User, teamspaceID uint64, role models.TeamspaceRole) error
}

// SessionRepository defines the interface for session data access. IDs are
// token digests; plaintext tokens never reach this layer.
type SessionRepository interface {
	// Create persists a new session
	Create(session *models.Session) error

	// FindWithUser loads a session and its owning user
	FindWithUser(id string) (*models.Session, *models.User, error)

	// UpdateExpiry extends a session's expiry in place
	UpdateExpiry(id string, expiresAt time.Time) error

	// Delete removes a session; deleting a missing session is a no-op
	Delete(id string) error

	// DeleteByUser removes all sessions belonging to a user
	DeleteByUser(userID uint64) error

	// DeleteByUserExcept removes all of a user's sessions except one
	DeleteByUserExcept(userID uint64, keepID string) error
}

// TeamspaceRepository defines the interface for teamspace and membership
// data access
type TeamspaceRepository interface {
	// CreateWithOwner creates a teamspace, its default project, and the
	// owner membership within a single transaction
	CreateWithOwner(teamspace *models.Teamspace, project *models.Project, ownerID uint64) error

	// FindBySlug finds a teamspace by its unique slug
	FindBySlug(slug string) (*models.Teamspace, error)

	// FindMember finds a specific teamspace membership
	FindMember(teamspaceID, userID uint64) (*models.TeamspaceUser, error)

	// AddMember adds a member to a teamspace
	AddMember(member *models.TeamspaceUser) error

	// RemoveMember removes a member from a teamspace
	RemoveMember(teamspaceID, userID uint64) error

	// ListMembers lists all members of a teamspace
	ListMembers(teamspaceID uint64) ([]models.TeamspaceUser, error)

	// ListMembershipsForUser lists all teamspaces a user belongs to
	ListMembershipsForUser(userID uint64) ([]models.TeamspaceUser, error)

	// FirstMembershipForUser returns the user's sole membership in
	// single-tenant deployments
	FirstMembershipForUser(userID uint64) (*models.TeamspaceUser, error)

	// Count returns the number of teamspaces
	Count() (int64, error)

	// First returns the oldest teamspace; the sole one in single-tenant
	// deployments
	First() (*models.Teamspace, error)
}

// ProjectRepository is scoped to one teamspace at construction; every
// query carries the teamspace predicate.
type ProjectRepository interface {
	// Create creates a project inside the scoped teamspace
	Create(project *models.Project) error

	// FindByID finds a project within the scoped teamspace
	FindByID(id uint64) (*models.Project, error)

	// FindBySlug finds a project by slug within the scoped teamspace
	FindBySlug(slug string) (*models.Project, error)

	// List lists the scoped teamspace's projects
	List() ([]models.Project, error)

	// FindMember finds a project-level membership
	FindMember(projectID, userID uint64) (*models.ProjectUser, error)

	// UpsertMember adds or updates a project-level membership
	UpsertMember(member *models.ProjectUser) error

	// RemoveMember removes a project-level membership
	RemoveMember(projectID, userID uint64) error
}

// ContentRepository is scoped to one project at construction and owns the
// project's videos and categories.
type ContentRepository interface {
	// CreateVideo creates a video in the scoped project
	CreateVideo(video *models.Video) error

	// FindVideo finds a video within the scoped project
	FindVideo(id uint64) (*models.Video, error)

	// ListVideos lists the scoped project's videos, newest first
	ListVideos(params utils.PaginationParams) ([]models.Video, int64, error)

	// UpdateVideo updates a video within the scoped project
	UpdateVideo(video *models.Video) error

	// DeleteVideo soft deletes a video within the scoped project
	DeleteVideo(id uint64) error

	// CreateCategory creates a category in the scoped project
	CreateCategory(category *models.Category) error

	// ListCategories lists the scoped project's categories
	ListCategories() ([]models.Category, error)

	// DeleteCategory soft deletes a category within the scoped project
	DeleteCategory(id uint64) error
}

// DocumentUpdate is the outcome of an optimistic-concurrency update. When
// VersionMatch is false no write happened and Document holds the server's
// current row for reconciliation.
type DocumentUpdate struct {
	Document     *models.Document
	VersionMatch bool
}

// DocumentRepository is scoped to one project at construction.
type DocumentRepository interface {
	// Create creates a document at version 1
	Create(doc *models.Document) error

	// FindByID finds a document within the scoped project
	FindByID(id uint64) (*models.Document, error)

	// ListByVideo lists a video's documents within the scoped project
	ListByVideo(videoID uint64) ([]models.Document, error)

	// UpdateWithVersion applies an optimistic-concurrency update: the write
	// happens only when expectedVersion matches the current row, and the
	// pre-update state is snapshotted as a revision in the same transaction.
	UpdateWithVersion(id uint64, expectedVersion int, title, content string, editorID uint64) (*DocumentUpdate, error)

	// ListRevisions lists a document's revisions, newest version first
	ListRevisions(documentID uint64, params utils.PaginationParams) ([]models.DocumentRevision, int64, error)

	// Restore writes a past revision's content back as a new version,
	// snapshotting the current state first. History is additive.
	Restore(id, revisionID, editorID uint64) (*models.Document, error)

	// Delete soft deletes a document within the scoped project
	Delete(id uint64) error
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create persists a new invitation
	Create(invitation *models.Invitation) error

	// FindByTokenHash finds an invitation by its token digest
	FindByTokenHash(tokenHash string) (*models.Invitation, error)

	// Consume marks an invitation accepted exactly once: the attempt
	// counter increment, the validity checks, and the acceptedAt write all
	// happen in one transaction.
	Consume(id uint64) (*models.Invitation, error)
}

// AuditLogRepository is scoped to one teamspace at construction.
type AuditLogRepository interface {
	// Record inserts an audit entry for the scoped teamspace
	Record(actorID uint64, action, detail string) error

	// List returns the scoped teamspace's entries, newest first
	List(params utils.PaginationParams) ([]models.AuditLogEntry, int64, error)
}
