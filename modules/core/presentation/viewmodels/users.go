package viewmodels

import (
	"time"

	"github.com/kars-hq/kars/modules/core/domain/aggregates/user"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func UserFromEntity(u user.User) User {
	return User{
		ID:        u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
		Role:      string(u.Role()),
		IsAdmin:   u.IsAdmin(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func UsersFromEntities(users []user.User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, UserFromEntity(u))
	}
	return out
}
