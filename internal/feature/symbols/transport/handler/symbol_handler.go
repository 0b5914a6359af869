// Package handler provides the HTTP handlers of the symbols feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"price_backend/internal/feature/symbols/domain/entity"
	"price_backend/internal/feature/symbols/transport/http/dto"
	"price_backend/internal/feature/symbols/usecase"
	"price_backend/internal/platform/http/params"
)

// SymbolUsecase is the symbol management use case consumed by the handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	Create(ctx context.Context, in usecase.CreateInput) (*entity.Symbol, error)
	List(ctx context.Context, page, count int) (*usecase.Page, error)
	Get(ctx context.Context, id uint) (*entity.Symbol, error)
	Update(ctx context.Context, id uint, in usecase.UpdateInput) (*entity.Symbol, error)
	Delete(ctx context.Context, id uint) error
}

// SymbolHandler serves the admin symbol endpoints.
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler creates a new SymbolHandler.
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// Create handles POST /symbols.
func (h *SymbolHandler) Create(c *gin.Context) {
	var req dto.CreateSymbolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	s, err := h.uc.Create(c.Request.Context(), usecase.CreateInput{Name: req.Name, Public: req.Public, Price: *req.Price})
	if err != nil {
		h.fail(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{"symbol_id": s.ID, "name": s.Name}).Info("symbol created")
	c.JSON(http.StatusCreated, dto.NewSymbolRes(*s))
}

// List handles POST /symbols/all.
func (h *SymbolHandler) List(c *gin.Context) {
	var req dto.ListSymbolsReq
	// an empty body means defaults
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}
	page, err := h.uc.List(c.Request.Context(), req.Page, req.Count)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SymbolPageRes{
		Data:     dto.NewSymbolList(page.Data),
		Total:    page.Total,
		Page:     page.Page,
		Count:    page.Count,
		LastPage: page.LastPage,
	})
}

// Get handles GET /symbols/:id.
func (h *SymbolHandler) Get(c *gin.Context) {
	id, err := params.PathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSymbolRes(*s))
}

// Update handles PUT /symbols/:id.
func (h *SymbolHandler) Update(c *gin.Context) {
	id, err := params.PathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req dto.UpdateSymbolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	in := usecase.UpdateInput{
		Name:   req.Name.Ptr(),
		Public: req.Public.Ptr(),
	}
	if req.Price.Valid {
		in.Price = &req.Price.Decimal
	}
	s, err := h.uc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	logrus.WithField("symbol_id", s.ID).Info("symbol updated")
	c.JSON(http.StatusOK, dto.NewSymbolRes(*s))
}

// Delete handles DELETE /symbols/:id.
func (h *SymbolHandler) Delete(c *gin.Context) {
	id, err := params.PathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	logrus.WithField("symbol_id", id).Info("symbol deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Symbol deleted successfully"})
}

func (h *SymbolHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrSymbolNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrSymbolAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrInvalidSymbolName), errors.Is(err, usecase.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).Error("symbol request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
