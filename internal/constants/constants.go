package constants

// Session cookie
const (
	SessionCookieName = "session"
)

// Context keys
const (
	ContextKeyUserID        = "user_id"
	ContextKeyUser          = "user"
	ContextKeySessionID     = "session_id"
	ContextKeyTeamspace     = "teamspace"
	ContextKeyTeamspaceRole = "teamspace_role"
	ContextKeyProject       = "project"
	ContextKeyEffectiveRole = "effective_role"
	ContextKeyContentRepo   = "content_repo"
	ContextKeyDocumentRepo  = "document_repo"
	ContextKeyAuditRepo     = "audit_repo"
)

// Password policy
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
