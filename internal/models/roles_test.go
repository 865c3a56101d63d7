package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func override(role ProjectRole) *ProjectUser {
	return &ProjectUser{RoleOverride: &role}
}

func TestCalculateEffectiveRole(t *testing.T) {
	tests := []struct {
		name          string
		teamspaceRole TeamspaceRole
		member        *ProjectUser
		want          *ProjectRole
	}{
		{
			name:          "teamspace owner is project owner without membership",
			teamspaceRole: TeamspaceRoleOwner,
			member:        nil,
			want:          rolePtr(ProjectRoleOwner),
		},
		{
			name:          "teamspace admin is project owner even with a lower override",
			teamspaceRole: TeamspaceRoleAdmin,
			member:        override(ProjectRoleViewer),
			want:          rolePtr(ProjectRoleOwner),
		},
		{
			name:          "override beats the mapped teamspace role",
			teamspaceRole: TeamspaceRoleEditor,
			member:        override(ProjectRoleViewer),
			want:          rolePtr(ProjectRoleViewer),
		},
		{
			name:          "override can grant above the mapped role",
			teamspaceRole: TeamspaceRoleViewer,
			member:        override(ProjectRoleOwner),
			want:          rolePtr(ProjectRoleOwner),
		},
		{
			name:          "membership without override falls back to the mapped role",
			teamspaceRole: TeamspaceRoleEditor,
			member:        &ProjectUser{},
			want:          rolePtr(ProjectRoleEditor),
		},
		{
			name:          "invalid override falls back to the mapped role",
			teamspaceRole: TeamspaceRoleViewer,
			member:        override(ProjectRole("superuser")),
			want:          rolePtr(ProjectRoleViewer),
		},
		{
			name:          "non-admin without membership has no grant",
			teamspaceRole: TeamspaceRoleEditor,
			member:        nil,
			want:          nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateEffectiveRole(tt.teamspaceRole, tt.member)
			require.Equal(t, tt.want, got)
		})
	}
}

func rolePtr(role ProjectRole) *ProjectRole {
	return &role
}

func TestMapTeamspaceRoleIsTotal(t *testing.T) {
	require.Equal(t, ProjectRoleOwner, MapTeamspaceRole(TeamspaceRoleOwner))
	require.Equal(t, ProjectRoleOwner, MapTeamspaceRole(TeamspaceRoleAdmin))
	require.Equal(t, ProjectRoleEditor, MapTeamspaceRole(TeamspaceRoleEditor))
	require.Equal(t, ProjectRoleViewer, MapTeamspaceRole(TeamspaceRoleViewer))

	// Roles added later must never gain elevated project access by default.
	require.Equal(t, ProjectRoleViewer, MapTeamspaceRole(TeamspaceRole("auditor")))
}

func TestRoleAtLeast(t *testing.T) {
	require.True(t, TeamspaceRoleOwner.AtLeast(TeamspaceRoleAdmin))
	require.True(t, TeamspaceRoleAdmin.AtLeast(TeamspaceRoleAdmin))
	require.False(t, TeamspaceRoleEditor.AtLeast(TeamspaceRoleAdmin))
	require.False(t, TeamspaceRole("bogus").AtLeast(TeamspaceRoleViewer))

	require.True(t, ProjectRoleOwner.AtLeast(ProjectRoleEditor))
	require.False(t, ProjectRoleViewer.AtLeast(ProjectRoleEditor))
	require.False(t, ProjectRole("bogus").AtLeast(ProjectRoleViewer))
}
