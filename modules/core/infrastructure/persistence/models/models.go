package models

import "time"

type User struct {
	ID        uint
	Email     string
	Name      string
	Role      string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
