package models

// TeamspaceRole is the role a user holds across an entire teamspace.
type TeamspaceRole string

const (
	TeamspaceRoleOwner  TeamspaceRole = "owner"
	TeamspaceRoleAdmin  TeamspaceRole = "admin"
	TeamspaceRoleEditor TeamspaceRole = "editor"
	TeamspaceRoleViewer TeamspaceRole = "viewer"
)

// ProjectRole is the narrower role space used inside a project. There is no
// project-level admin.
type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "owner"
	ProjectRoleEditor ProjectRole = "editor"
	ProjectRoleViewer ProjectRole = "viewer"
)

var teamspaceRoleLevels = map[TeamspaceRole]int{
	TeamspaceRoleViewer: 1,
	TeamspaceRoleEditor: 2,
	TeamspaceRoleAdmin:  3,
	TeamspaceRoleOwner:  4,
}

var projectRoleLevels = map[ProjectRole]int{
	ProjectRoleViewer: 1,
	ProjectRoleEditor: 2,
	ProjectRoleOwner:  3,
}

// Level returns the numeric rank of the role; unknown roles rank below
// every valid role so comparisons fail closed.
func (r TeamspaceRole) Level() int {
	return teamspaceRoleLevels[r]
}

// Valid reports whether the role is one of the defined teamspace roles.
func (r TeamspaceRole) Valid() bool {
	_, ok := teamspaceRoleLevels[r]
	return ok
}

// AtLeast reports whether the role ranks at or above min.
func (r TeamspaceRole) AtLeast(min TeamspaceRole) bool {
	return r.Level() >= min.Level() && r.Level() > 0
}

// Level returns the numeric rank of the role; unknown roles rank below
// every valid role.
func (r ProjectRole) Level() int {
	return projectRoleLevels[r]
}

// Valid reports whether the role is one of the defined project roles.
func (r ProjectRole) Valid() bool {
	_, ok := projectRoleLevels[r]
	return ok
}

// AtLeast reports whether the role ranks at or above min.
func (r ProjectRole) AtLeast(min ProjectRole) bool {
	return r.Level() >= min.Level() && r.Level() > 0
}

// MapTeamspaceRole maps a teamspace role into the narrower project role
// space. The mapping is total: admin has no project equivalent and maps to
// owner; anything unrecognized maps to viewer so a new teamspace role can
// never slip through with elevated project access.
func MapTeamspaceRole(role TeamspaceRole) ProjectRole {
	switch role {
	case TeamspaceRoleOwner, TeamspaceRoleAdmin:
		return ProjectRoleOwner
	case TeamspaceRoleEditor:
		return ProjectRoleEditor
	case TeamspaceRoleViewer:
		return ProjectRoleViewer
	default:
		return ProjectRoleViewer
	}
}

// CalculateEffectiveRole computes the role a caller actually holds on a
// project. Teamspace admins and owners are always project owners, so an
// administrator can never be locked out of a resource in their own
// teamspace. Otherwise a project membership grants its override when set,
// or the mapped teamspace role. Without a project membership a non-admin
// has no grant and the result is nil.
func CalculateEffectiveRole(teamspaceRole TeamspaceRole, member *ProjectUser) *ProjectRole {
	if teamspaceRole == TeamspaceRoleAdmin || teamspaceRole == TeamspaceRoleOwner {
		role := ProjectRoleOwner
		return &role
	}

	if member == nil {
		return nil
	}

	if member.RoleOverride != nil && member.RoleOverride.Valid() {
		role := *member.RoleOverride
		return &role
	}

	role := MapTeamspaceRole(teamspaceRole)
	return &role
}
