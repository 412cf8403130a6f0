package release

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/portal-space/core/internal/middleware"
	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/assetstore"
	"github.com/portal-space/core/internal/pkg/pagination"
	"github.com/portal-space/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/releases", authMW)

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.POST("/:id/submit", h.submit)
	g.DELETE("/:id", h.delete)

	a := g.Group("", adminMW)
	a.POST("/:id/decide", h.decide)
}

// POST /releases
func (h *Handler) create(c *gin.Context) {
	var dto SaveReleaseDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	logo, topImg, err := coverBlobs(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	d, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &dto, logo, topImg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "release created", d)
}

// PUT /releases/:id
func (h *Handler) update(c *gin.Context) {
	var dto SaveReleaseDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	logo, topImg, err := coverBlobs(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	d, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto, logo, topImg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "release updated", d)
}

// POST /releases/:id/submit
func (h *Handler) submit(c *gin.Context) {
	d, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "release submitted for review", d)
}

// POST /releases/:id/decide
func (h *Handler) decide(c *gin.Context) {
	var dto DecideDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, d, err := h.svc.Decide(c.Request.Context(), c.Param("id"), *dto.Approved)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !*dto.Approved {
		response.OK(c, "release rejected", d)
		return
	}
	response.OK(c, "release approved", gin.H{"release": d, "product": p})
}

// GET /releases
func (h *Handler) list(c *gin.Context) {
	filter := ListFilter{Title: c.Query("name")}
	if raw := c.Query("status"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "invalid status filter")
			return
		}
		status := models.DraftStatus(v)
		filter.Status = &status
	}
	if c.Query("mine") == "true" {
		filter.OwnerID = middleware.CurrentUserID(c)
	}

	paged, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", paged)
}

// GET /releases/:id
func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", d)
}

// DELETE /releases/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "release deleted", nil)
}

func coverBlobs(c *gin.Context) (logo, topImg *assetstore.Blob, err error) {
	logo, err = formBlob(c, "logo")
	if err != nil {
		return nil, nil, err
	}
	topImg, err = formBlob(c, "top_img")
	if err != nil {
		return nil, nil, err
	}
	return logo, topImg, nil
}

// formBlob reads an optional multipart file field into a Blob.
func formBlob(c *gin.Context, field string) (*assetstore.Blob, error) {
	header, err := c.FormFile(field)
	if err != nil {
		// missing file field is fine
		return nil, nil
	}
	return readBlob(header)
}

func readBlob(header *multipart.FileHeader) (*assetstore.Blob, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &assetstore.Blob{
		Content:     content,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
