package product

import (
	"github.com/gin-gonic/gin"

	"github.com/portal-space/core/internal/middleware"
	"github.com/portal-space/core/internal/pkg/pagination"
	"github.com/portal-space/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/products")

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("/documents/:id/download", h.download)

	a := g.Group("", authMW)
	a.GET("/:id/following", h.isFollowing)
	a.POST("/:id/follow", h.follow)
	a.DELETE("/:id/follow", h.unfollow)
	a.POST("/documents/:id/praise", h.praise)
	a.DELETE("/documents/:id/praise", h.unpraise)
	a.POST("/documents/:id/collect", h.collect)
	a.DELETE("/documents/:id/collect", h.uncollect)
	a.GET("/collections", h.collections)
}

// GET /products
func (h *Handler) list(c *gin.Context) {
	paged, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), c.Query("name"), c.Query("kind_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", paged)
}

// GET /products/:id
func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", p)
}

// POST /products/:id/follow
func (h *Handler) follow(c *gin.Context) {
	if err := h.svc.Follow(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "followed", nil)
}

// DELETE /products/:id/follow
func (h *Handler) unfollow(c *gin.Context) {
	if err := h.svc.Unfollow(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "unfollowed", nil)
}

// GET /products/:id/following
func (h *Handler) isFollowing(c *gin.Context) {
	following, err := h.svc.IsFollowing(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", gin.H{"following": following})
}

// POST /products/documents/:id/download
func (h *Handler) download(c *gin.Context) {
	url, err := h.svc.RecordDownload(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", gin.H{"download_url": url})
}

// POST /products/documents/:id/praise
func (h *Handler) praise(c *gin.Context) {
	if err := h.svc.Praise(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "praised", nil)
}

// DELETE /products/documents/:id/praise
func (h *Handler) unpraise(c *gin.Context) {
	if err := h.svc.Unpraise(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "unpraised", nil)
}

// POST /products/documents/:id/collect
func (h *Handler) collect(c *gin.Context) {
	if err := h.svc.Collect(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "collected", nil)
}

// DELETE /products/documents/:id/collect
func (h *Handler) uncollect(c *gin.Context) {
	if err := h.svc.Uncollect(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "uncollected", nil)
}

// GET /products/collections
func (h *Handler) collections(c *gin.Context) {
	paged, err := h.svc.Collections(c.Request.Context(), middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", paged)
}
