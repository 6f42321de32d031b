package entity

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role represents an authorization role
// Many-to-many with User via user_roles
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
