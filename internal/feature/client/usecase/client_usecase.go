// Package usecase implements the read-only views available to client accounts.
package usecase

import (
	"context"
	"errors"

	authentity "price_backend/internal/feature/auth/domain/entity"
	authusecase "price_backend/internal/feature/auth/usecase"
	symentity "price_backend/internal/feature/symbols/domain/entity"
)

// ErrAccountNotFound is returned when the caller's account no longer exists.
var ErrAccountNotFound = errors.New("account not found")

// UserFinder loads the caller's account.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
}

// PublicSymbolLister lists the symbols visible to clients.
type PublicSymbolLister interface {
	ListPublic(ctx context.Context) ([]symentity.Symbol, error)
}

// ClientUsecase serves the client profile and the public symbol list.
type ClientUsecase struct {
	users   UserFinder
	symbols PublicSymbolLister
}

// NewClientUsecase creates a new ClientUsecase.
func NewClientUsecase(users UserFinder, symbols PublicSymbolLister) *ClientUsecase {
	return &ClientUsecase{users: users, symbols: symbols}
}

// Me returns the account of the given user.
func (u *ClientUsecase) Me(ctx context.Context, userID uint) (*authentity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, authusecase.ErrUserNotFound) {
		return nil, ErrAccountNotFound
	}
	return user, err
}

// PublicSymbols returns every public symbol, newest first.
func (u *ClientUsecase) PublicSymbols(ctx context.Context) ([]symentity.Symbol, error) {
	return u.symbols.ListPublic(ctx)
}
