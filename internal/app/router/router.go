// Package router maps HTTP routes to feature handlers.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	adminhandler "price_backend/internal/feature/admin/transport/handler"
	"price_backend/internal/feature/auth/domain/entity"
	authhandler "price_backend/internal/feature/auth/transport/handler"
	clienthandler "price_backend/internal/feature/client/transport/handler"
	"price_backend/internal/feature/pricestream/transport/ws"
	symbolhandler "price_backend/internal/feature/symbols/transport/handler"
	"price_backend/internal/platform/http/handler"
	jwtmw "price_backend/internal/platform/jwt"
)

// Handlers bundles the feature handlers mounted by NewRouter.
type Handlers struct {
	Auth    *authhandler.AuthHandler
	Symbols *symbolhandler.SymbolHandler
	Admin   *adminhandler.AdminHandler
	Client  *clienthandler.ClientHandler
	Prices  *ws.Handler
	// Ready is optional; /readyz is not mounted without it.
	Ready gin.HandlerFunc
}

// Options tunes cross-cutting middleware.
type Options struct {
	// AllowedOrigins lists the CORS origins. Empty reflects any origin.
	AllowedOrigins []string
}

func NewRouter(h Handlers, verifier *jwtmw.Verifier, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors.New(corsConfig(opts.AllowedOrigins)))

	// Public: health checks need no token
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	if h.Ready != nil {
		r.GET("/readyz", h.Ready)
	}

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	// The stream authenticates on its own so rejected clients still get an error frame.
	r.GET("/prices", h.Prices.Serve)

	admin := jwtmw.RoleRequired(string(entity.RoleAdmin))
	client := jwtmw.RoleRequired(string(entity.RoleClient))

	symbols := r.Group("/symbols", jwtmw.AuthRequired(verifier), admin)
	{
		symbols.POST("", h.Symbols.Create)
		symbols.POST("/all", h.Symbols.List)
		symbols.GET("/:id", h.Symbols.Get)
		symbols.PUT("/:id", h.Symbols.Update)
		symbols.DELETE("/:id", h.Symbols.Delete)
	}

	adminGroup := r.Group("/admin", jwtmw.AuthRequired(verifier), admin)
	{
		adminGroup.POST("/create", h.Admin.CreateClient)
		adminGroup.PUT("/disable-socket/:"+adminhandler.ClientIDParam, h.Admin.DisableSocket)
		adminGroup.DELETE("/remove/:"+adminhandler.ClientIDParam, h.Admin.RemoveClient)
	}

	clientGroup := r.Group("/client", jwtmw.AuthRequired(verifier), client)
	{
		clientGroup.GET("/me", h.Client.Me)
		clientGroup.GET("/symbols", h.Client.Symbols)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cfg
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry.Warn(c.Errors.String())
			return
		}
		entry.Debug("request served")
	}
}
