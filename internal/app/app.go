// Package app assembles the HTTP server: config, database, Redis, the asset
// store and every module's routes.
package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/config"
	"github.com/portal-space/core/internal/database"
	"github.com/portal-space/core/internal/middleware"
	"github.com/portal-space/core/internal/pkg/assetstore"
	pkgredis "github.com/portal-space/core/internal/pkg/redis"
)

type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	rc     *pkgredis.Client
	store  assetstore.Store
	logger *zap.Logger
}

// New initializes the application: database, Redis, asset store, routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	store := assetstore.NewS3Store(assetstore.S3Options{
		Endpoint:      cfg.AssetStore.Endpoint,
		Region:        cfg.AssetStore.Region,
		Bucket:        cfg.AssetStore.Bucket,
		AccessKey:     cfg.AssetStore.AccessKey,
		SecretKey:     cfg.AssetStore.SecretKey,
		PublicBaseURL: cfg.AssetStore.PublicBaseURL,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	app := &App{cfg: cfg, router: router, db: db, rc: rc, store: store, logger: logger}
	app.registerRoutes()

	return app, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-idempotence"},
		ExposeHeaders:    []string{"Content-Length", "x-portal-cache"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && cfg.IsProduction() {
		c.AllowOriginFunc = allowedOriginFunc(cfg.AllowedOrigins)
	} else {
		c.AllowOriginFunc = func(string) bool { return true }
	}
	return c
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown closes shared clients.
func (a *App) Shutdown() {
	if err := a.rc.Close(); err != nil {
		a.logger.Warn("closing redis client", zap.Error(err))
	}
}
