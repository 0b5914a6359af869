// Package handler provides the HTTP handlers of the client feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	authentity "price_backend/internal/feature/auth/domain/entity"
	"price_backend/internal/feature/client/transport/http/dto"
	"price_backend/internal/feature/client/usecase"
	symentity "price_backend/internal/feature/symbols/domain/entity"
	symdto "price_backend/internal/feature/symbols/transport/http/dto"
	jwtmw "price_backend/internal/platform/jwt"
)

// ClientUsecase is the use case consumed by ClientHandler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type ClientUsecase interface {
	Me(ctx context.Context, userID uint) (*authentity.User, error)
	PublicSymbols(ctx context.Context) ([]symentity.Symbol, error)
}

// ClientHandler serves the /client endpoints.
type ClientHandler struct {
	uc ClientUsecase
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(uc ClientUsecase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Me handles GET /client/me.
func (h *ClientHandler) Me(c *gin.Context) {
	userID, ok := c.Get(jwtmw.ContextUserID)
	id, isUint := userID.(uint)
	if !ok || !isUint {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, err := h.uc.Me(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to load profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileRes(user))
}

// Symbols handles GET /client/symbols.
func (h *ClientHandler) Symbols(c *gin.Context) {
	symbols, err := h.uc.PublicSymbols(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("failed to list public symbols")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, symdto.NewSymbolList(symbols))
}
