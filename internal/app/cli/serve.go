package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"price_backend/internal/app/di"
	"price_backend/internal/platform/config"
	"price_backend/internal/platform/db"
	platformredis "price_backend/internal/platform/redis"
)

const readHeaderTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the price stream",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", true, "apply pending migrations before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	gdb, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		if err := db.Migrate(ctx, sqlDB, "up"); err != nil {
			return err
		}
	}

	rdb, err := platformredis.NewRedisClient(ctx, platformredis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		logrus.WithError(err).Warn("redis unavailable, running without it")
		rdb = nil
	}

	app := di.NewApp(cfg, gdb, rdb)
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.HTTPPort),
		Handler:           app.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	sweeper := startBackground(ctx, "session sweeper", app.Sweeper.Run)

	serveErr := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	}()

	wait := gracefulShutdown(ctx, cfg.GracefulShutdownTimeout, []operation{
		{name: "http server", run: srv.Shutdown},
		{name: "price stream", run: func(ctx context.Context) error {
			app.Gateway.Shutdown()
			return nil
		}},
		sweeper,
		{name: "redis", run: func(ctx context.Context) error {
			return closeRedis(rdb)
		}},
		{name: "database", run: func(ctx context.Context) error {
			return db.Close(gdb)
		}},
	})
	<-wait

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server failed: %w", err)
	default:
		return nil
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	return db.OpenPostgres(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}, cfg.Database.ConnectTimeout)
}

func closeRedis(rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}
	return rdb.Close()
}
