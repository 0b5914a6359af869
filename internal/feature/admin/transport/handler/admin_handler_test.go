package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price_backend/internal/feature/admin/transport/http/dto"
	"price_backend/internal/feature/admin/usecase"
	"price_backend/internal/feature/auth/domain/entity"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAdminUsecase is a mock implementation of AdminUsecase.
type mockAdminUsecase struct {
	CreateClientFunc  func(ctx context.Context, email, password string) (*entity.User, error)
	DisableSocketFunc func(clientID uint) bool
	RemoveClientFunc  func(ctx context.Context, clientID uint) error
}

func (m *mockAdminUsecase) CreateClient(ctx context.Context, email, password string) (*entity.User, error) {
	if m.CreateClientFunc != nil {
		return m.CreateClientFunc(ctx, email, password)
	}
	return &entity.User{ID: 1, Email: email, Role: entity.RoleClient}, nil
}

func (m *mockAdminUsecase) DisableSocket(clientID uint) bool {
	if m.DisableSocketFunc != nil {
		return m.DisableSocketFunc(clientID)
	}
	return false
}

func (m *mockAdminUsecase) RemoveClient(ctx context.Context, clientID uint) error {
	if m.RemoveClientFunc != nil {
		return m.RemoveClientFunc(ctx, clientID)
	}
	return nil
}

func newRouter(uc AdminUsecase) *gin.Engine {
	h := NewAdminHandler(uc)
	r := gin.New()
	r.POST("/admin/create", h.CreateClient)
	r.PUT("/admin/disable-socket/:clientId", h.DisableSocket)
	r.DELETE("/admin/remove/:clientId", h.RemoveClient)
	return r
}

func TestAdminHandler_CreateClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		uc         *mockAdminUsecase
		wantStatus int
		wantError  string
	}{
		{
			name:       "success: client created",
			body:       `{"email":"new@example.com","password":"client123"}`,
			uc:         &mockAdminUsecase{},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "failure: invalid email",
			body:       `{"email":"nope","password":"client123"}`,
			uc:         &mockAdminUsecase{},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request",
		},
		{
			name:       "failure: short password",
			body:       `{"email":"new@example.com","password":"abc"}`,
			uc:         &mockAdminUsecase{},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request",
		},
		{
			name: "failure: duplicate email",
			body: `{"email":"dup@example.com","password":"client123"}`,
			uc: &mockAdminUsecase{CreateClientFunc: func(ctx context.Context, email, password string) (*entity.User, error) {
				return nil, usecase.ErrClientAlreadyExists
			}},
			wantStatus: http.StatusConflict,
			wantError:  usecase.ErrClientAlreadyExists.Error(),
		},
		{
			name: "failure: unexpected error",
			body: `{"email":"new@example.com","password":"client123"}`,
			uc: &mockAdminUsecase{CreateClientFunc: func(ctx context.Context, email, password string) (*entity.User, error) {
				return nil, errors.New("db down")
			}},
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/create", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			newRouter(tt.uc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body["error"])
				return
			}
			var res dto.CreateClientRes
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, "Client created successfully", res.Message)
			assert.Equal(t, "new@example.com", res.Client.Email)
			assert.Equal(t, "client", res.Client.Role)
			assert.NotContains(t, w.Body.String(), "password")
		})
	}
}

func TestAdminHandler_DisableSocket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		path        string
		connected   bool
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "success: connected client",
			path:        "/admin/disable-socket/7",
			connected:   true,
			wantStatus:  http.StatusOK,
			wantMessage: "Client socket disconnected successfully",
		},
		{
			name:        "success: client not connected",
			path:        "/admin/disable-socket/7",
			wantStatus:  http.StatusOK,
			wantMessage: "Client was not connected",
		},
		{
			name:       "failure: non-numeric id",
			path:       "/admin/disable-socket/abc",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got uint
			uc := &mockAdminUsecase{DisableSocketFunc: func(clientID uint) bool {
				got = clientID
				return tt.connected
			}}
			w := httptest.NewRecorder()
			newRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodPut, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMessage == "" {
				return
			}
			var res dto.DisableSocketRes
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, tt.wantMessage, res.Message)
			assert.Equal(t, uint(7), res.ClientID)
			assert.Equal(t, uint(7), got)
		})
	}
}

func TestAdminHandler_RemoveClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{name: "success: removed", path: "/admin/remove/3", wantStatus: http.StatusOK},
		{name: "failure: unknown client", path: "/admin/remove/3", err: usecase.ErrClientNotFound, wantStatus: http.StatusNotFound},
		{name: "failure: target is an admin", path: "/admin/remove/3", err: usecase.ErrNotAClient, wantStatus: http.StatusBadRequest},
		{name: "failure: zero id", path: "/admin/remove/0", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &mockAdminUsecase{RemoveClientFunc: func(ctx context.Context, clientID uint) error {
				return tt.err
			}}
			w := httptest.NewRecorder()
			newRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"message":"Client removed successfully"}`, w.Body.String())
			}
		})
	}
}
