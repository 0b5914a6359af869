package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "price_backend/internal/feature/auth/adapters"
	"price_backend/internal/feature/auth/usecase"
	"price_backend/internal/platform/session"
)

// sessionPrefix namespaces refresh sessions in Redis.
const sessionPrefix = "session"

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to PostgreSQL.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, sessionPrefix)
	}
	return authadapters.NewSessionRepository(db)
}
