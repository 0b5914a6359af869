// Package db opens the relational store and applies its schema.
package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// retryInterval is the pause between connection attempts.
const retryInterval = 3 * time.Second

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// Config holds the PostgreSQL connection settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN renders cfg as a libpq key/value connection string.
func BuildDSN(cfg Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode)
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
		}
		logrus.WithError(err).WithField("attempt", attempt).Warn("db connect failed, retrying")
		time.Sleep(retryInterval)
	}
}

// OpenPostgres connects to PostgreSQL, retrying for up to timeout.
func OpenPostgres(cfg Config, timeout time.Duration) (*gorm.DB, error) {
	return ConnectWithRetry(BuildDSN(cfg), timeout, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Warn),
		})
	})
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether err was caused by a unique constraint.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
