package dto

import (
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
)

// TeamspaceDTO is the public shape of a teamspace
type TeamspaceDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamspaceWithRoleDTO pairs a teamspace with the caller's role in it
type TeamspaceWithRoleDTO struct {
	TeamspaceDTO
	Role models.TeamspaceRole `json:"role"`
}

// TeamspaceMemberDTO represents a member of a teamspace
type TeamspaceMemberDTO struct {
	User     UserDTO              `json:"user"`
	Role     models.TeamspaceRole `json:"role"`
	JoinedAt time.Time            `json:"joined_at"`
}

// TeamspaceDetailDTO is a teamspace with its members and the caller's role
type TeamspaceDetailDTO struct {
	TeamspaceDTO
	Members  []TeamspaceMemberDTO `json:"members"`
	YourRole models.TeamspaceRole `json:"your_role"`
}

// ToTeamspaceDTO converts a teamspace to its public shape
func ToTeamspaceDTO(teamspace models.Teamspace) TeamspaceDTO {
	return TeamspaceDTO{
		ID:        teamspace.ID,
		Name:      teamspace.Name,
		Slug:      teamspace.Slug,
		CreatedAt: teamspace.CreatedAt,
	}
}

// ToTeamspaceWithRoleDTO converts a membership to a teamspace-with-role
func ToTeamspaceWithRoleDTO(member models.TeamspaceUser) TeamspaceWithRoleDTO {
	return TeamspaceWithRoleDTO{
		TeamspaceDTO: ToTeamspaceDTO(member.Teamspace),
		Role:         member.Role,
	}
}

// ToTeamspaceMemberDTO converts a membership to a member entry
func ToTeamspaceMemberDTO(member models.TeamspaceUser) TeamspaceMemberDTO {
	return TeamspaceMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToTeamspaceDetailDTO converts a teamspace with members to a detailed DTO
func ToTeamspaceDetailDTO(teamspace models.Teamspace, members []models.TeamspaceUser, yourRole models.TeamspaceRole) TeamspaceDetailDTO {
	memberDTOs := make([]TeamspaceMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToTeamspaceMemberDTO(member)
	}

	return TeamspaceDetailDTO{
		TeamspaceDTO: ToTeamspaceDTO(teamspace),
		Members:      memberDTOs,
		YourRole:     yourRole,
	}
}
