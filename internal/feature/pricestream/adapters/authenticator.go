// Package adapters connects the price stream to tokens, users and symbols.
package adapters

import (
	"context"
	"fmt"

	authentity "price_backend/internal/feature/auth/domain/entity"
	"price_backend/internal/feature/pricestream/domain/entity"
	"price_backend/internal/feature/pricestream/usecase"
	jwtmw "price_backend/internal/platform/jwt"
)

// TokenVerifier checks an access token's signature and expiry.
type TokenVerifier interface {
	Verify(token string) (*jwtmw.Claims, error)
}

// UserFinder loads the user named by a token.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
}

// tokenAuthenticator accepts access tokens of existing users holding the client role.
type tokenAuthenticator struct {
	tokens TokenVerifier
	users  UserFinder
}

var _ usecase.Authenticator = (*tokenAuthenticator)(nil)

// NewTokenAuthenticator creates the stream authenticator.
func NewTokenAuthenticator(tokens TokenVerifier, users UserFinder) *tokenAuthenticator {
	return &tokenAuthenticator{tokens: tokens, users: users}
}

// Verify resolves the client behind credential. The role is read from the
// stored user, not the token, so a demoted account is refused at once.
func (a *tokenAuthenticator) Verify(ctx context.Context, credential string) (entity.Identity, error) {
	claims, err := a.tokens.Verify(credential)
	if err != nil {
		return entity.Identity{}, fmt.Errorf("%w: %v", usecase.ErrInvalidCredential, err)
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return entity.Identity{}, fmt.Errorf("%w: %v", usecase.ErrInvalidCredential, err)
	}
	if !user.IsClient() {
		return entity.Identity{}, fmt.Errorf("%w: role %q may not stream", usecase.ErrInvalidCredential, user.Role)
	}
	return entity.Identity{UserID: user.ID, Email: user.Email}, nil
}
