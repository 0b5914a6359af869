package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// ErrUnknownMigrationCommand is returned for commands goose is not asked to run.
var ErrUnknownMigrationCommand = errors.New("unknown migration command")

var migrationCommands = map[string]struct{}{
	"up":        {},
	"up-by-one": {},
	"down":      {},
	"redo":      {},
	"reset":     {},
	"status":    {},
	"version":   {},
}

// Migrate runs a goose command against the embedded PostgreSQL migrations.
func Migrate(ctx context.Context, sqlDB *sql.DB, command string, args ...string) error {
	if _, ok := migrationCommands[command]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMigrationCommand, command)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(logrus.StandardLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, sqlDB, migrationsDir, args...); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
