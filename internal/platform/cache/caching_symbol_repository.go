// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"price_backend/internal/feature/symbols/domain/entity"
	"price_backend/internal/feature/symbols/usecase"
)

// CachingSymbolRepository decorates a SymbolRepository with a Redis copy of the public catalog.
// Every write invalidates the namespace, so readers never see a catalog older than the last write.
type CachingSymbolRepository struct {
	inner     usecase.SymbolRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SymbolRepository = (*CachingSymbolRepository)(nil)

// NewCachingSymbolRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 30 seconds. If namespace is empty, it uses "symbols".
func NewCachingSymbolRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SymbolRepository, namespace string) *CachingSymbolRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if namespace == "" {
		namespace = "symbols"
	}
	return &CachingSymbolRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores a symbol and invalidates the cached catalog.
func (c *CachingSymbolRepository) Create(ctx context.Context, s *entity.Symbol) error {
	if err := c.inner.Create(ctx, s); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// FindByID is not cached.
func (c *CachingSymbolRepository) FindByID(ctx context.Context, id uint) (*entity.Symbol, error) {
	return c.inner.FindByID(ctx, id)
}

// List is not cached.
func (c *CachingSymbolRepository) List(ctx context.Context, offset, limit int) ([]entity.Symbol, int64, error) {
	return c.inner.List(ctx, offset, limit)
}

// Update saves a symbol and invalidates the cached catalog.
func (c *CachingSymbolRepository) Update(ctx context.Context, s *entity.Symbol) error {
	if err := c.inner.Update(ctx, s); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Delete removes a symbol and invalidates the cached catalog.
func (c *CachingSymbolRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// ListPublic serves the public catalog from Redis, falling back to the inner repository.
func (c *CachingSymbolRepository) ListPublic(ctx context.Context) ([]entity.Symbol, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListPublic(ctx)
	}

	key := c.publicKey()

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Symbol
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

func (c *CachingSymbolRepository) publicKey() string {
	return fmt.Sprintf("%s:public", safe(c.namespace))
}

func (c *CachingSymbolRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, safe(c.namespace)+":*"); err != nil {
		logrus.WithError(err).Warn("failed to invalidate symbol cache")
	}
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSymbolRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
