package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portal-space/core/internal/middleware"
	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/modules/auth"
	"github.com/portal-space/core/internal/modules/lab"
	"github.com/portal-space/core/internal/modules/library"
	"github.com/portal-space/core/internal/modules/news"
	"github.com/portal-space/core/internal/modules/product"
	"github.com/portal-space/core/internal/modules/release"
	"github.com/portal-space/core/internal/modules/solution"
	"github.com/portal-space/core/internal/modules/taxonomy"
	"github.com/portal-space/core/internal/modules/team"
	"github.com/portal-space/core/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db

	authMW := middleware.Auth()
	adminMW := middleware.RequireRole(models.RoleAdmin)

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Use(middleware.RateLimit(a.rc.Raw()))
	r.Use(middleware.Idempotence(a.rc.Raw()))

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.HTTPCache(a.rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		SkipPaths: []string{"/api/auth/whoami", "/api/releases", "/api/solution-drafts"},
	}))

	api.GET("/ping", func(c *gin.Context) {
		response.OK(c, "pong", nil)
	})

	auth.NewHandler(auth.NewService(db)).RegisterRoutes(api, authMW, adminMW)

	// Draft workflow surfaces.
	release.NewHandler(release.NewService(db, a.store, a.logger)).RegisterRoutes(api, authMW, adminMW)
	solution.NewHandler(solution.NewService(db, a.store, a.logger)).RegisterRoutes(api, authMW, adminMW)

	// Published catalog and engagement.
	product.NewHandler(product.NewService(db)).RegisterRoutes(api, authMW)

	// Supporting resources referenced by drafts.
	team.NewHandler(team.NewService(db)).RegisterRoutes(api, authMW, adminMW)
	taxonomy.RegisterRoutes(api, db, authMW, adminMW)
	library.NewHandler(library.NewService(db)).RegisterRoutes(api, authMW)

	// Standalone content sections.
	news.NewHandler(news.NewService(db, a.store, a.logger)).RegisterRoutes(api, authMW, adminMW)
	lab.NewHandler(lab.NewService(db, a.store, a.logger)).RegisterRoutes(api, authMW, adminMW)
}
