// Package dto defines the request and response bodies of the admin endpoints.
package dto

import "price_backend/internal/feature/auth/domain/entity"

// CreateClientReq is the body of POST /admin/create.
type CreateClientReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// ClientRes is the public view of a client account.
type ClientRes struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewClientRes converts a user to its public view.
func NewClientRes(u *entity.User) ClientRes {
	return ClientRes{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}

// CreateClientRes is returned by POST /admin/create.
type CreateClientRes struct {
	Message string    `json:"message"`
	Client  ClientRes `json:"client"`
}

// DisableSocketRes is returned by PUT /admin/disable-socket/:clientId.
type DisableSocketRes struct {
	Message  string `json:"message"`
	ClientID uint   `json:"clientId"`
}
