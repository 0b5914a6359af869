// Package redis opens the shared Redis client.
package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Config holds the Redis connection settings.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewRedisClient connects and pings Redis. An empty host disables Redis and
// yields a nil client with no error.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Host == "" {
		logrus.Info("redis disabled: no host configured")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		logrus.WithFields(logrus.Fields{"address": cfg.Addr()}).WithError(err).Error("redis connection failed")
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logrus.WithField("address", cfg.Addr()).Info("redis connected")
	return rdb, nil
}
