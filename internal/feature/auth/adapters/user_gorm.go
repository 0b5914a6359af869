// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"price_backend/internal/feature/auth/domain/entity"
	"price_backend/internal/feature/auth/usecase"
	"price_backend/internal/platform/db"
)

// userGorm is a gorm implementation of the UserRepository interface.
type userGorm struct {
	db *gorm.DB
}

var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserRepository creates a user repository over the given connection.
func NewUserRepository(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts a user. A duplicate email yields usecase.ErrEmailAlreadyExists.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail returns the user with the given email or usecase.ErrUserNotFound.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID returns the user with the given id or usecase.ErrUserNotFound.
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Delete removes the user and its refresh sessions in one transaction.
func (r *userGorm) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&SessionModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return nil
	})
}
