// Package handler provides the HTTP handlers of the auth feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"price_backend/internal/feature/auth/transport/http/dto"
	"price_backend/internal/feature/auth/usecase"
)

const (
	// AccessTokenCookie carries the access token for browser clients.
	AccessTokenCookie = "access_token"
	// RefreshTokenCookie carries the refresh token for browser clients.
	RefreshTokenCookie = "refresh_token"
)

// AuthUsecase is the authentication use case consumed by the handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Login(ctx context.Context, email, password string, meta usecase.SessionMeta) (*usecase.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string, meta usecase.SessionMeta) (*usecase.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// CookieConfig controls the token cookies written on login and refresh.
type CookieConfig struct {
	Secure     bool
	RefreshTTL time.Duration
}

// AuthHandler serves /auth/login, /auth/refresh and /auth/logout.
type AuthHandler struct {
	auth    AuthUsecase
	cookies CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, sessionMeta(c))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			logrus.WithFields(logrus.Fields{"email": req.Email, "remote_addr": c.ClientIP()}).Warn("login failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": usecase.ErrInvalidCredentials.Error()})
			return
		}
		logrus.WithError(err).Error("login error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	logrus.WithFields(logrus.Fields{"user_id": pair.User.ID, "remote_addr": c.ClientIP()}).Info("user logged in")
	h.writeTokens(c, pair)
}

// Refresh handles POST /auth/refresh. The token comes from the body or the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := refreshToken(c)
	pair, err := h.auth.Refresh(c.Request.Context(), token, sessionMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRefreshToken),
			errors.Is(err, usecase.ErrSessionRevoked),
			errors.Is(err, usecase.ErrSessionExpired):
			h.clearCookies(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).Error("refresh error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	h.writeTokens(c, pair)
}

// Logout handles POST /auth/logout. It always clears the cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), refreshToken(c)); err != nil {
		logrus.WithError(err).Error("logout error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.clearCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) writeTokens(c *gin.Context, pair *usecase.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, pair.AccessToken, int(pair.ExpiresIn), "/", "", h.cookies.Secure, true)
	c.SetCookie(RefreshTokenCookie, pair.RefreshToken, int(h.cookies.RefreshTTL/time.Second), "/", "", h.cookies.Secure, true)
	c.JSON(http.StatusOK, dto.TokenRes{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

func (h *AuthHandler) clearCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
}

func refreshToken(c *gin.Context) string {
	var req dto.RefreshReq
	if c.Request.ContentLength != 0 {
		// a malformed body falls through to the cookie
		_ = c.ShouldBindJSON(&req)
	}
	if req.RefreshToken != "" {
		return req.RefreshToken
	}
	cookie, err := c.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return cookie
}

func sessionMeta(c *gin.Context) usecase.SessionMeta {
	return usecase.SessionMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}
