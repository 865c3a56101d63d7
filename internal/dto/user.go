package dto

import (
	"time"

	"github.com/storyreel/storyreel-api/internal/models"
)

// UserDTO is the public shape of a user. The password hash never appears
// here.
type UserDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserDTO converts a user to its public shape
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}
