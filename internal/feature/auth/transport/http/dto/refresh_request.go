package dto

// RefreshReq is the body of POST /auth/refresh and /auth/logout.
// The token may be omitted when the refresh_token cookie is present.
type RefreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
