package entity

import (
	"time"
)

// User is the aggregate root for the identity domain
// Passwords are stored as bcrypt hashes in PasswordHash
type User struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	AvatarURL         string
	EmailConfirmed    bool
	TranslationsCount int
	FeedbackCount     int
	Roles             []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}
