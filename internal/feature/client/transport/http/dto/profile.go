// Package dto defines data transfer objects for the client HTTP API.
package dto

import "price_backend/internal/feature/auth/domain/entity"

// ProfileRes is the caller's own account as returned by GET /client/me.
type ProfileRes struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewProfileRes converts a user to its public view.
func NewProfileRes(u *entity.User) ProfileRes {
	return ProfileRes{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}
