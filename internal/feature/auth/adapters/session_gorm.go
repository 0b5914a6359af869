package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"price_backend/internal/feature/auth/domain/entity"
	"price_backend/internal/feature/auth/usecase"
)

// sessionGorm is a gorm implementation of the SessionRepository interface.
type sessionGorm struct {
	db *gorm.DB
}

var _ usecase.SessionRepository = (*sessionGorm)(nil)

// NewSessionRepository creates a refresh-session repository over the given connection.
func NewSessionRepository(db *gorm.DB) *sessionGorm {
	return &sessionGorm{db: db}
}

// Create persists a new session.
func (r *sessionGorm) Create(ctx context.Context, session *entity.Session) error {
	return r.db.WithContext(ctx).Create(newSessionModel(session)).Error
}

// FindByID retrieves a session by its refresh token.
func (r *sessionGorm) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.toEntity(), nil
}

// FindByUserID retrieves the active sessions of a user, oldest first.
func (r *sessionGorm) FindByUserID(ctx context.Context, userID uint) ([]*entity.Session, error) {
	var models []SessionModel
	if err := r.db.WithContext(ctx).
		Scopes(activeSessionsOf(userID, time.Now())).
		Find(&models).Error; err != nil {
		return nil, err
	}

	sessions := make([]*entity.Session, len(models))
	for i := range models {
		sessions[i] = models[i].toEntity()
	}
	return sessions, nil
}

// Revoke stamps RevokedAt on the session.
func (r *sessionGorm) Revoke(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ?", id).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

// RevokeAllByUserID revokes every live session of a user.
func (r *sessionGorm) RevokeAllByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

// DeleteExpired removes expired sessions and reports how many went.
func (r *sessionGorm) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}

// CountByUserID returns the number of active sessions of a user.
func (r *sessionGorm) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Count(&count).Error
	return count, err
}

// DeleteOldestByUserID deletes the oldest active session of a user, if any.
func (r *sessionGorm) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	var oldest SessionModel
	if err := r.db.WithContext(ctx).
		Scopes(activeSessionsOf(userID, time.Now())).
		First(&oldest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.db.WithContext(ctx).Delete(&SessionModel{}, "id = ?", oldest.ID).Error
}
