package adapters

import (
	"context"

	"price_backend/internal/feature/pricestream/domain/entity"
	"price_backend/internal/feature/pricestream/usecase"
	symentity "price_backend/internal/feature/symbols/domain/entity"
)

// PublicSymbolLister lists the symbols visible to clients.
type PublicSymbolLister interface {
	ListPublic(ctx context.Context) ([]symentity.Symbol, error)
}

// symbolCatalog exposes public symbols as stream catalog entries.
type symbolCatalog struct {
	symbols PublicSymbolLister
}

var _ usecase.SymbolCatalog = (*symbolCatalog)(nil)

// NewSymbolCatalog creates a catalog over the symbol store.
func NewSymbolCatalog(symbols PublicSymbolLister) *symbolCatalog {
	return &symbolCatalog{symbols: symbols}
}

// ListPublic returns the current public symbols with their reference prices.
func (c *symbolCatalog) ListPublic(ctx context.Context) ([]entity.CatalogEntry, error) {
	symbols, err := c.symbols.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]entity.CatalogEntry, len(symbols))
	for i, s := range symbols {
		entries[i] = entity.CatalogEntry{Name: s.Name, ReferencePrice: s.Price}
	}
	return entries, nil
}
