// Package handler provides the HTTP handlers of the admin feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"price_backend/internal/feature/admin/transport/http/dto"
	"price_backend/internal/feature/admin/usecase"
	"price_backend/internal/feature/auth/domain/entity"
	"price_backend/internal/platform/http/params"
)

// ClientIDParam is the path parameter naming the target client.
const ClientIDParam = "clientId"

// AdminUsecase is the client management use case consumed by the handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AdminUsecase interface {
	CreateClient(ctx context.Context, email, password string) (*entity.User, error)
	DisableSocket(clientID uint) bool
	RemoveClient(ctx context.Context, clientID uint) error
}

// AdminHandler serves the /admin endpoints.
type AdminHandler struct {
	uc AdminUsecase
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(uc AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// CreateClient handles POST /admin/create.
func (h *AdminHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	user, err := h.uc.CreateClient(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateClientRes{
		Message: "Client created successfully",
		Client:  dto.NewClientRes(user),
	})
}

// DisableSocket handles PUT /admin/disable-socket/:clientId.
func (h *AdminHandler) DisableSocket(c *gin.Context) {
	id, err := params.PathID(c, ClientIDParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	message := "Client was not connected"
	if h.uc.DisableSocket(id) {
		message = "Client socket disconnected successfully"
	}
	logrus.WithField("client_id", id).Info(message)
	c.JSON(http.StatusOK, dto.DisableSocketRes{Message: message, ClientID: id})
}

// RemoveClient handles DELETE /admin/remove/:clientId.
func (h *AdminHandler) RemoveClient(c *gin.Context) {
	id, err := params.PathID(c, ClientIDParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.uc.RemoveClient(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client removed successfully"})
}

func (h *AdminHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrClientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrClientAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotAClient), errors.Is(err, usecase.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).Error("admin request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
