// Package dto defines data transfer objects for the symbols HTTP API.
package dto

import (
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"price_backend/internal/feature/symbols/domain/entity"
)

// CreateSymbolReq is the body of POST /symbols.
type CreateSymbolReq struct {
	Name   string           `json:"name" binding:"required,max=50"`
	Public bool             `json:"public"`
	Price  *decimal.Decimal `json:"price" binding:"required"`
}

// UpdateSymbolReq is the body of PUT /symbols/:id. Absent or null fields are left unchanged.
type UpdateSymbolReq struct {
	Name   null.String         `json:"name"`
	Public null.Bool           `json:"public"`
	Price  decimal.NullDecimal `json:"price"`
}

// ListSymbolsReq is the body of POST /symbols/all.
type ListSymbolsReq struct {
	Page  int `json:"page" binding:"omitempty,min=1"`
	Count int `json:"count" binding:"omitempty,min=1,max=100"`
}

// SymbolRes is a symbol as returned by the API.
type SymbolRes struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Public    bool      `json:"public"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SymbolPageRes is one page of symbols.
type SymbolPageRes struct {
	Data     []SymbolRes `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	Count    int         `json:"count"`
	LastPage int         `json:"lastPage"`
}

// NewSymbolRes converts a domain symbol to its API form.
func NewSymbolRes(s entity.Symbol) SymbolRes {
	return SymbolRes{
		ID:        s.ID,
		Name:      s.Name,
		Public:    s.Public,
		Price:     s.Price.InexactFloat64(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// NewSymbolList converts a slice of domain symbols, never returning nil.
func NewSymbolList(symbols []entity.Symbol) []SymbolRes {
	out := make([]SymbolRes, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, NewSymbolRes(s))
	}
	return out
}
