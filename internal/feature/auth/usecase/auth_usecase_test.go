package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"price_backend/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of UserRepository.
type mockUserRepository struct {
	// FindByEmailFunc is called when the FindByEmail method is invoked.
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	// FindByIDFunc is called when the FindByID method is invoked.
	FindByIDFunc func(ctx context.Context, id uint) (*entity.User, error)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

// mockJWTGenerator is a mock implementation of JWTGenerator.
type mockJWTGenerator struct {
	GenerateTokenFunc func(userID uint, email, role string) (string, error)
}

func (m *mockJWTGenerator) GenerateToken(userID uint, email, role string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID, email, role)
	}
	return "mock-jwt-token", nil
}

// memorySessions is an in-memory SessionRepository.
type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	evicted  int
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]*entity.Session)}
}

func (m *memorySessions) Create(ctx context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memorySessions) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memorySessions) FindByUserID(ctx context.Context, userID uint) ([]*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Session
	for _, s := range m.sessions {
		if s.UserID == userID && s.ActiveAt(time.Now()) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memorySessions) Revoke(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.Revoke(time.Now())
	return nil
}

func (m *memorySessions) RevokeAllByUserID(ctx context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, s := range m.sessions {
		if s.UserID == userID {
			s.Revoke(now)
		}
	}
	return nil
}

func (m *memorySessions) DeleteExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var deleted int64
	for id, s := range m.sessions {
		if s.ExpiredAt(now) {
			delete(m.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memorySessions) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	active, _ := m.FindByUserID(ctx, userID)
	return int64(len(active)), nil
}

func (m *memorySessions) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var oldest *entity.Session
	for _, s := range m.sessions {
		if s.UserID == userID && s.ActiveAt(time.Now()) && (oldest == nil || s.CreatedAt.Before(oldest.CreatedAt)) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(m.sessions, oldest.ID)
		m.evicted++
	}
	return nil
}

var testCfg = Config{AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour}

func testUser(t *testing.T) *entity.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{ID: 1, Email: "client@example.com", Password: string(hashed), Role: entity.RoleClient}
}

func usersWith(u *entity.User) *mockUserRepository {
	return &mockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			if email == u.Email {
				return u, nil
			}
			return nil, ErrUserNotFound
		},
		FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
			if id == u.ID {
				return u, nil
			}
			return nil, ErrUserNotFound
		},
	}
}

func TestAuthUsecase_Login(t *testing.T) {
	t.Parallel()

	user := testUser(t)

	tests := []struct {
		name     string
		email    string
		password string
		users    *mockUserRepository
		jwt      *mockJWTGenerator
		wantErr  error
	}{
		{
			name:     "success: valid credentials",
			email:    user.Email,
			password: "password123",
			users:    usersWith(user),
			jwt: &mockJWTGenerator{GenerateTokenFunc: func(userID uint, email, role string) (string, error) {
				assert.Equal(t, "client", role)
				return "signed", nil
			}},
		},
		{
			name:     "failure: wrong password",
			email:    user.Email,
			password: "wrong",
			users:    usersWith(user),
			jwt:      &mockJWTGenerator{},
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "failure: unknown email",
			email:    "nobody@example.com",
			password: "password123",
			users:    usersWith(user),
			jwt:      &mockJWTGenerator{},
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sessions := newMemorySessions()
			uc := NewAuthUsecase(tt.users, sessions, tt.jwt, testCfg)

			pair, err := uc.Login(context.Background(), tt.email, tt.password, SessionMeta{UserAgent: "test", IPAddress: "127.0.0.1"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pair)
				assert.Empty(t, sessions.sessions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "signed", pair.AccessToken)
			assert.NotEmpty(t, pair.RefreshToken)
			assert.Equal(t, int64(900), pair.ExpiresIn)

			stored, err := sessions.FindByID(context.Background(), pair.RefreshToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID, stored.UserID)
			assert.Equal(t, "test", stored.UserAgent)
		})
	}

	t.Run("failure: repository error is not masked", func(t *testing.T) {
		t.Parallel()
		dbErr := errors.New("db down")
		users := &mockUserRepository{FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			return nil, dbErr
		}}
		uc := NewAuthUsecase(users, newMemorySessions(), &mockJWTGenerator{}, testCfg)
		_, err := uc.Login(context.Background(), "a@b.c", "x", SessionMeta{})
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("success: oldest session evicted beyond the cap", func(t *testing.T) {
		t.Parallel()
		sessions := newMemorySessions()
		uc := NewAuthUsecase(usersWith(user), sessions, &mockJWTGenerator{}, testCfg)
		base := time.Now()
		calls := 0
		uc.now = func() time.Time { calls++; return base.Add(time.Duration(calls) * time.Second) }

		for i := 0; i < maxSessionsPerUser+2; i++ {
			_, err := uc.Login(context.Background(), user.Email, "password123", SessionMeta{})
			require.NoError(t, err)
		}
		count, _ := sessions.CountByUserID(context.Background(), user.ID)
		assert.Equal(t, int64(maxSessionsPerUser), count)
		assert.Equal(t, 2, sessions.evicted)
	})
}

func TestAuthUsecase_Refresh(t *testing.T) {
	t.Parallel()

	user := testUser(t)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name    string
		seed    *entity.Session
		token   string
		wantErr error
	}{
		{
			name:  "success: rotates the session",
			seed:  &entity.Session{ID: "r1", UserID: user.ID, CreatedAt: past, ExpiresAt: time.Now().Add(time.Hour)},
			token: "r1",
		},
		{
			name:    "failure: unknown token",
			token:   "missing",
			wantErr: ErrInvalidRefreshToken,
		},
		{
			name:    "failure: empty token",
			token:   "",
			wantErr: ErrInvalidRefreshToken,
		},
		{
			name:    "failure: revoked session",
			seed:    &entity.Session{ID: "r2", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour), RevokedAt: &past},
			token:   "r2",
			wantErr: ErrSessionRevoked,
		},
		{
			name:    "failure: expired session",
			seed:    &entity.Session{ID: "r3", UserID: user.ID, ExpiresAt: past},
			token:   "r3",
			wantErr: ErrSessionExpired,
		},
		{
			name:    "failure: user deleted since login",
			seed:    &entity.Session{ID: "r4", UserID: 99, ExpiresAt: time.Now().Add(time.Hour)},
			token:   "r4",
			wantErr: ErrInvalidRefreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sessions := newMemorySessions()
			if tt.seed != nil {
				require.NoError(t, sessions.Create(context.Background(), tt.seed))
			}
			uc := NewAuthUsecase(usersWith(user), sessions, &mockJWTGenerator{}, testCfg)

			pair, err := uc.Refresh(context.Background(), tt.token, SessionMeta{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, tt.token, pair.RefreshToken)

			old, err := sessions.FindByID(context.Background(), tt.token)
			require.NoError(t, err)
			assert.True(t, old.Revoked(), "old refresh token must be revoked")

			_, err = uc.Refresh(context.Background(), tt.token, SessionMeta{})
			assert.ErrorIs(t, err, ErrSessionRevoked, "old refresh token cannot be reused")
		})
	}
}

func TestAuthUsecase_Logout(t *testing.T) {
	t.Parallel()

	sessions := newMemorySessions()
	require.NoError(t, sessions.Create(context.Background(), &entity.Session{ID: "r1", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))
	uc := NewAuthUsecase(&mockUserRepository{}, sessions, &mockJWTGenerator{}, testCfg)

	require.NoError(t, uc.Logout(context.Background(), "r1"))
	s, err := sessions.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.True(t, s.Revoked())

	assert.NoError(t, uc.Logout(context.Background(), "unknown"))
	assert.NoError(t, uc.Logout(context.Background(), ""))
}
