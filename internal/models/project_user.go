package models

import "time"

// ProjectUser grants access to a single project. RoleOverride, when set,
// replaces the role inherited from the teamspace for this project only.
type ProjectUser struct {
	ProjectID    uint64       `gorm:"primarykey" json:"project_id"`
	UserID       uint64       `gorm:"primarykey" json:"user_id"`
	RoleOverride *ProjectRole `gorm:"type:varchar(20)" json:"role_override,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
