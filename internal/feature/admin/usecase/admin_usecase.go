// Package usecase implements client account management and the admin seed.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"price_backend/internal/feature/auth/domain/entity"
	authusecase "price_backend/internal/feature/auth/usecase"
)

// MinPasswordLength is the shortest accepted client password.
const MinPasswordLength = 6

// UserStore is the user persistence consumed by the admin use case.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserStore interface {
	Create(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Delete(ctx context.Context, id uint) error
}

// SessionRevoker invalidates a user's refresh sessions.
type SessionRevoker interface {
	RevokeAllByUserID(ctx context.Context, userID uint) error
}

// StreamControl force-closes a user's live price streams.
type StreamControl interface {
	DisconnectUser(userID uint) bool
}

// AdminUsecase creates and removes client accounts.
type AdminUsecase struct {
	users    UserStore
	sessions SessionRevoker
	streams  StreamControl
	cost     int
}

// NewAdminUsecase creates an AdminUsecase.
func NewAdminUsecase(users UserStore, sessions SessionRevoker, streams StreamControl) *AdminUsecase {
	return &AdminUsecase{users: users, sessions: sessions, streams: streams, cost: bcrypt.DefaultCost}
}

// CreateClient registers a new client account.
func (u *AdminUsecase) CreateClient(ctx context.Context, email, password string) (*entity.User, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	return u.createUser(ctx, email, password, entity.RoleClient)
}

// DisableSocket closes every live stream of the client.
// It reports whether anything was connected.
func (u *AdminUsecase) DisableSocket(clientID uint) bool {
	return u.streams.DisconnectUser(clientID)
}

// RemoveClient disconnects the client's streams, revokes its refresh sessions, then deletes the account.
func (u *AdminUsecase) RemoveClient(ctx context.Context, clientID uint) error {
	u.streams.DisconnectUser(clientID)

	user, err := u.users.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, authusecase.ErrUserNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if !user.IsClient() {
		return ErrNotAClient
	}
	if err := u.sessions.RevokeAllByUserID(ctx, clientID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	if err := u.users.Delete(ctx, clientID); err != nil {
		if errors.Is(err, authusecase.ErrUserNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	logrus.WithField("client_id", clientID).Info("client removed")
	return nil
}

// EnsureAdmin creates the admin account unless a user with that email exists.
// It reports whether an account was created.
func (u *AdminUsecase) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := u.users.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, authusecase.ErrUserNotFound) {
		return false, err
	}
	if _, err := u.createUser(ctx, email, password, entity.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (u *AdminUsecase) createUser(ctx context.Context, email, password string, role entity.Role) (*entity.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{
		Email:    strings.TrimSpace(email),
		Password: string(hashed),
		Role:     role,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, authusecase.ErrEmailAlreadyExists) {
			return nil, ErrClientAlreadyExists
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("user created")
	return user, nil
}
