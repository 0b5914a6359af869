// Package usecase implements the business logic of the auth feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"price_backend/internal/feature/auth/domain/entity"
)

// maxSessionsPerUser caps concurrent refresh sessions; the oldest is evicted first.
const maxSessionsPerUser = 5

// dummyHash keeps the failed-login path as slow as the successful one.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// FindByEmail returns the user with the given email or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns the user with the given id or ErrUserNotFound.
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// JWTGenerator issues signed access tokens.
type JWTGenerator interface {
	GenerateToken(userID uint, email, role string) (string, error)
}

// Config holds token lifetimes.
type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SessionMeta describes the client a session is opened for.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64
	User      *entity.User
}

// authUsecase implements login, refresh rotation and logout.
type authUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
	cfg          Config
	now          func() time.Time
	newID        func() string
}

// NewAuthUsecase creates a new authUsecase.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator, cfg Config) *authUsecase {
	return &authUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
		cfg:          cfg,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Login checks the email/password pair and opens a refresh session.
// A bcrypt comparison runs even for unknown emails so both failures take the same time.
func (u *authUsecase) Login(ctx context.Context, email, password string, meta SessionMeta) (*TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, email)

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}
	return u.issue(ctx, user, meta)
}

// Refresh rotates a refresh session: the old token is revoked and a new pair is issued.
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string, meta SessionMeta) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	sess, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if sess.Revoked() {
		return nil, ErrSessionRevoked
	}
	if sess.ExpiredAt(u.now()) {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if err := u.sessions.Revoke(ctx, sess.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}
	return u.issue(ctx, user, meta)
}

// Logout revokes the refresh session. Unknown tokens are ignored.
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

func (u *authUsecase) issue(ctx context.Context, user *entity.User, meta SessionMeta) (*TokenPair, error) {
	count, err := u.sessions.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	for ; count >= maxSessionsPerUser; count-- {
		if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to evict session: %w", err)
		}
	}

	sess := entity.NewSession(u.newID(), user.ID, meta.UserAgent, meta.IPAddress, u.now(), u.cfg.RefreshTTL)
	if err := u.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := u.jwtGenerator.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Debug("token pair issued")
	return &TokenPair{
		AccessToken:  token,
		RefreshToken: sess.ID,
		ExpiresIn:    int64(u.cfg.AccessTTL / time.Second),
		User:         user,
	}, nil
}
