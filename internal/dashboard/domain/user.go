package domain

import "time"

// Roles a user can hold. Everyone registers as RoleUser; promotion happens
// only through the admin role endpoint or the seed utility.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the two recognized values.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

type User struct {
	ID           string
	Name         string
	Email        string // unique, compared byte-for-byte as stored
	PasswordHash string // argon2id encoded, never serialized
	Role         string
	CreatedAt    time.Time
}
