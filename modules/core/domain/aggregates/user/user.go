package user

import (
	"strings"
	"time"

	"github.com/kars-hq/kars/pkg/workflow"
)

// User is an account that can request, approve and ship orders. The role
// drives the workflow decision table; IsAdmin is an orthogonal override.
type User struct {
	id        uint
	email     string
	name      string
	role      workflow.Role
	isAdmin   bool
	createdAt time.Time
	updatedAt time.Time
}

func New(email, name string, role workflow.Role, isAdmin bool) User {
	return User{
		email:   normalizeEmail(email),
		name:    strings.TrimSpace(name),
		role:    role,
		isAdmin: isAdmin,
	}
}

func Hydrate(
	id uint,
	email string,
	name string,
	role workflow.Role,
	isAdmin bool,
	createdAt time.Time,
	updatedAt time.Time,
) User {
	return User{
		id:        id,
		email:     normalizeEmail(email),
		name:      strings.TrimSpace(name),
		role:      role,
		isAdmin:   isAdmin,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u User) ID() uint             { return u.id }
func (u User) Email() string        { return u.email }
func (u User) Name() string         { return u.name }
func (u User) Role() workflow.Role  { return u.role }
func (u User) IsAdmin() bool        { return u.isAdmin }
func (u User) CreatedAt() time.Time { return u.createdAt }
func (u User) UpdatedAt() time.Time { return u.updatedAt }
func (u User) IsZero() bool         { return u.id == 0 && u.email == "" }

// Actor projects the user into the workflow's access model.
func (u User) Actor() workflow.Actor {
	return workflow.Actor{ID: u.id, Role: u.role, IsAdmin: u.isAdmin}
}

func (u User) WithRole(role workflow.Role, isAdmin bool) User {
	u.role = role
	u.isAdmin = isAdmin
	return u
}

func (u User) WithName(name string) User {
	u.name = strings.TrimSpace(name)
	return u
}

func normalizeEmail(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
