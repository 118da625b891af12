package domain

import (
	"strings"
	"time"
)

// Role distinguishes regular requesters from administrators.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the domain model for accounts that submit tickets.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	FullName     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary returns the public projection embedded in ticket responses.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}

// UserSummary is the creator projection attached to tickets.
type UserSummary struct {
	ID       string
	Email    string
	FullName *string
	Role     Role
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
