package adapters

import (
	"time"

	"gorm.io/gorm"

	"price_backend/internal/feature/auth/domain/entity"
)

// SessionModel is a row of the sessions table.
// (user_id, created_at) serves the oldest-first eviction; expires_at serves the sweep.
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:64"`
	UserID    uint       `gorm:"not null;index:idx_sessions_user_created,priority:1"`
	UserAgent string     `gorm:"size:512"`
	IPAddress string     `gorm:"size:45"`
	CreatedAt time.Time  `gorm:"not null;index:idx_sessions_user_created,priority:2"`
	ExpiresAt time.Time  `gorm:"not null;index:idx_sessions_expires_at"`
	RevokedAt *time.Time
}

func (SessionModel) TableName() string {
	return "sessions"
}

func (m *SessionModel) toEntity() *entity.Session {
	s := entity.Session(*m)
	return &s
}

func newSessionModel(s *entity.Session) *SessionModel {
	m := SessionModel(*s)
	return &m
}

// activeSessionsOf scopes a query to the user's sessions that are neither revoked nor expired at now,
// oldest first.
func activeSessionsOf(userID uint, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
			Order("created_at ASC")
	}
}
