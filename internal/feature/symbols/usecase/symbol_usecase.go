// Package usecase implements the business logic for symbol management.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"price_backend/internal/feature/symbols/domain/entity"
)

const (
	// DefaultPage is the page used when none is requested.
	DefaultPage = 1
	// DefaultCount is the page size used when none is requested.
	DefaultCount = 10
	// MaxCount caps the page size.
	MaxCount = 100

	maxNameLength = 50
)

// maxPrice is the first value that no longer fits decimal(10,2).
var maxPrice = decimal.New(1, 8)

// SymbolRepository abstracts the persistence layer for symbols.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	Create(ctx context.Context, s *entity.Symbol) error
	FindByID(ctx context.Context, id uint) (*entity.Symbol, error)
	// List returns one page ordered by creation time, newest first, and the total row count.
	List(ctx context.Context, offset, limit int) ([]entity.Symbol, int64, error)
	Update(ctx context.Context, s *entity.Symbol) error
	Delete(ctx context.Context, id uint) error
	// ListPublic returns every public symbol, newest first.
	ListPublic(ctx context.Context) ([]entity.Symbol, error)
}

// CreateInput carries the fields of a new symbol.
type CreateInput struct {
	Name   string
	Public bool
	Price  decimal.Decimal
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name   *string
	Public *bool
	Price  *decimal.Decimal
}

// Page is one page of symbols.
type Page struct {
	Data     []entity.Symbol
	Total    int64
	Page     int
	Count    int
	LastPage int
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// Create validates and stores a new symbol.
func (u *SymbolUsecase) Create(ctx context.Context, in CreateInput) (*entity.Symbol, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	s := &entity.Symbol{Name: name, Public: in.Public, Price: in.Price.Round(2)}
	if err := u.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns the requested page. Zero values fall back to the defaults and count is capped at MaxCount.
func (u *SymbolUsecase) List(ctx context.Context, page, count int) (*Page, error) {
	if page < 1 {
		page = DefaultPage
	}
	if count < 1 {
		count = DefaultCount
	}
	if count > MaxCount {
		count = MaxCount
	}

	data, total, err := u.repo.List(ctx, (page-1)*count, count)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}
	return &Page{
		Data:     data,
		Total:    total,
		Page:     page,
		Count:    count,
		LastPage: int((total + int64(count) - 1) / int64(count)),
	}, nil
}

// Get returns the symbol with the given id.
func (u *SymbolUsecase) Get(ctx context.Context, id uint) (*entity.Symbol, error) {
	return u.repo.FindByID(ctx, id)
}

// Update applies the non-nil fields of in to the symbol with the given id.
func (u *SymbolUsecase) Update(ctx context.Context, id uint, in UpdateInput) (*entity.Symbol, error) {
	s, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		s.Name = name
	}
	if in.Public != nil {
		s.Public = *in.Public
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		s.Price = in.Price.Round(2)
	}
	if err := u.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes the symbol with the given id.
func (u *SymbolUsecase) Delete(ctx context.Context, id uint) error {
	return u.repo.Delete(ctx, id)
}

// ListPublic returns the symbols clients may subscribe to.
func (u *SymbolUsecase) ListPublic(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListPublic(ctx)
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || len(name) > maxNameLength {
		return "", fmt.Errorf("%w: must be 1 to %d characters", ErrInvalidSymbolName, maxNameLength)
	}
	return name, nil
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return fmt.Errorf("%w: must not be negative", ErrInvalidPrice)
	}
	if p.Round(2).GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: must be below %s", ErrInvalidPrice, maxPrice)
	}
	return nil
}
