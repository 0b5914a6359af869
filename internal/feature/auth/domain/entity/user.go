// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role is the authorization level of a user.
type Role string

const (
	// RoleClient may stream prices and read public symbols.
	RoleClient Role = "client"
	// RoleAdmin manages symbols and clients.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAdmin
}

// User represents a registered user in the system.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	Password string `gorm:"size:255;not null"`

	// Role decides which API surface the user may reach.
	Role Role `gorm:"size:16;not null;default:client;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsClient reports whether the user holds the client role.
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
