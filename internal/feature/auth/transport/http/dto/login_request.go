// Package dto defines the request and response bodies of the auth endpoints.
package dto

// LoginReq is the body of POST /auth/login.
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenRes is returned by login and refresh.
type TokenRes struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
