// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"price_backend/internal/app/router"
	adminhandler "price_backend/internal/feature/admin/transport/handler"
	adminusecase "price_backend/internal/feature/admin/usecase"
	authadapters "price_backend/internal/feature/auth/adapters"
	authhandler "price_backend/internal/feature/auth/transport/handler"
	authusecase "price_backend/internal/feature/auth/usecase"
	clienthandler "price_backend/internal/feature/client/transport/handler"
	clientusecase "price_backend/internal/feature/client/usecase"
	streamadapters "price_backend/internal/feature/pricestream/adapters"
	"price_backend/internal/feature/pricestream/transport/ws"
	streamusecase "price_backend/internal/feature/pricestream/usecase"
	symbolhandler "price_backend/internal/feature/symbols/transport/handler"
	symbolusecase "price_backend/internal/feature/symbols/usecase"
	"price_backend/internal/platform/config"
	healthhandler "price_backend/internal/platform/http/handler"
	jwtmw "price_backend/internal/platform/jwt"
)

// App is the assembled HTTP application.
type App struct {
	Router  *gin.Engine
	Gateway *streamusecase.Gateway
	Sweeper *authusecase.SessionSweeper
}

// NewApp wires every feature on top of db and the optional Redis client.
func NewApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	// Repository
	userRepo := authadapters.NewUserRepository(db)
	sessionRepo := NewSessionRepository(rdb, db)
	symbolRepo := NewSymbolRepository(rdb, db, cfg.CatalogCacheTTL)

	// Token
	generator := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	verifier := jwtmw.NewVerifier(cfg.JWT.Secret)

	// Streaming
	gateway := streamusecase.NewGateway(
		streamadapters.NewTokenAuthenticator(verifier, userRepo),
		streamadapters.NewSymbolCatalog(symbolRepo),
		streamusecase.GatewayConfig{TickInterval: cfg.Stream.TickInterval},
	)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, generator, authusecase.Config{
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	symbolUC := symbolusecase.NewSymbolUsecase(symbolRepo)
	adminUC := adminusecase.NewAdminUsecase(userRepo, sessionRepo, gateway)
	clientUC := clientusecase.NewClientUsecase(userRepo, symbolRepo)

	// Handler
	handlers := router.Handlers{
		Auth: authhandler.NewAuthHandler(authUC, authhandler.CookieConfig{
			Secure:     cfg.IsProduction(),
			RefreshTTL: cfg.JWT.RefreshTTL,
		}),
		Symbols: symbolhandler.NewSymbolHandler(symbolUC),
		Admin:   adminhandler.NewAdminHandler(adminUC),
		Client:  clienthandler.NewClientHandler(clientUC),
		Prices: ws.NewHandler(gateway, ws.Config{
			OutboundBuffer: cfg.Stream.OutboundBuffer,
			InboundRate:    cfg.Stream.InboundRate,
		}),
		Ready: healthhandler.Ready(readinessProbes(db, rdb)),
	}

	return &App{
		Router: router.NewRouter(handlers, verifier, router.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
		}),
		Gateway: gateway,
		Sweeper: authusecase.NewSessionSweeper(sessionRepo, cfg.JWT.SessionSweepInterval),
	}
}

func readinessProbes(db *gorm.DB, rdb *redis.Client) map[string]healthhandler.Probe {
	probes := map[string]healthhandler.Probe{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": nil,
	}
	if rdb != nil {
		probes["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return probes
}
