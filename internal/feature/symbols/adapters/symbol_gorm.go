// Package adapters provides repository implementations for the symbols feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"price_backend/internal/feature/symbols/domain/entity"
	"price_backend/internal/feature/symbols/usecase"
	"price_backend/internal/platform/db"
)

// symbolGorm is a gorm implementation of the SymbolRepository interface.
type symbolGorm struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolGorm)(nil)

// NewSymbolRepository creates a symbol repository over the given connection.
func NewSymbolRepository(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

// Create inserts a symbol. A duplicate name yields usecase.ErrSymbolAlreadyExists.
func (r *symbolGorm) Create(ctx context.Context, s *entity.Symbol) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrSymbolAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID returns the symbol with the given id or usecase.ErrSymbolNotFound.
func (r *symbolGorm) FindByID(ctx context.Context, id uint) (*entity.Symbol, error) {
	var s entity.Symbol
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSymbolNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns one page of symbols, newest first, and the total count.
func (r *symbolGorm) List(ctx context.Context, offset, limit int) ([]entity.Symbol, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Symbol{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	symbols := make([]entity.Symbol, 0, limit)
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&symbols).Error; err != nil {
		return nil, 0, err
	}
	return symbols, total, nil
}

// Update saves every column of s. A duplicate name yields usecase.ErrSymbolAlreadyExists.
func (r *symbolGorm) Update(ctx context.Context, s *entity.Symbol) error {
	result := r.db.WithContext(ctx).
		Model(s).
		Select("name", "public", "price").
		Updates(s)
	if result.Error != nil {
		if db.IsUniqueViolation(result.Error) {
			return usecase.ErrSymbolAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSymbolNotFound
	}
	return nil
}

// Delete removes the symbol with the given id or returns usecase.ErrSymbolNotFound.
func (r *symbolGorm) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Symbol{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSymbolNotFound
	}
	return nil
}

// ListPublic returns every public symbol, newest first.
func (r *symbolGorm) ListPublic(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("public = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}
