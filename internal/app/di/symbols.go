package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"price_backend/internal/feature/symbols/adapters"
	"price_backend/internal/feature/symbols/usecase"
	"price_backend/internal/platform/cache"
)

// catalogNamespace is the Redis key namespace of the cached public catalog.
const catalogNamespace = "catalog"

// NewSymbolRepository creates the symbol store.
// The public catalog is cached in Redis only when Redis is available and ttl is positive.
func NewSymbolRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) usecase.SymbolRepository {
	repo := adapters.NewSymbolRepository(db)
	if rdb == nil || ttl <= 0 {
		return repo
	}
	return cache.NewCachingSymbolRepository(rdb, ttl, repo, catalogNamespace)
}
