// Package lab serves the experimental-projects showcase pages.
package lab

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/assetstore"
	"github.com/portal-space/core/internal/pkg/pagination"
	"github.com/portal-space/core/internal/pkg/response"
	"github.com/portal-space/core/internal/workflow"
)

const categoryCovers = "lab-covers"

type SaveLabDTO struct {
	Title   string `form:"title" binding:"required"`
	Desc    string `form:"desc"`
	Content string `form:"content"`
}

type Service struct {
	db     *gorm.DB
	store  assetstore.Store
	logger *zap.Logger
}

func NewService(db *gorm.DB, store assetstore.Store, logger *zap.Logger) *Service {
	return &Service{db: db, store: store, logger: logger}
}

func (s *Service) Create(ctx context.Context, dto *SaveLabDTO, topImg *assetstore.Blob) (*models.LabModel, error) {
	item := &models.LabModel{
		Title:   dto.Title,
		Summary: dto.Desc,
		Content: dto.Content,
	}

	url, err := s.uploadIfPresent(ctx, topImg)
	if err != nil {
		return nil, err
	}
	item.TopImg = url

	return item, workflow.WithAsset(ctx, s.store, s.logger, url, categoryCovers, func() error {
		return s.db.WithContext(ctx).Create(item).Error
	})
}

func (s *Service) Update(ctx context.Context, id string, dto *SaveLabDTO, topImg *assetstore.Blob) (*models.LabModel, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.uploadIfPresent(ctx, topImg)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":   dto.Title,
		"summary": dto.Desc,
		"content": dto.Content,
	}
	if url != "" {
		updates["top_img"] = url
	}

	err = workflow.WithAsset(ctx, s.store, s.logger, url, categoryCovers, func() error {
		return s.db.WithContext(ctx).Model(item).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) uploadIfPresent(ctx context.Context, blob *assetstore.Blob) (string, error) {
	if blob == nil {
		return "", nil
	}
	url, err := s.store.Upload(ctx, *blob, categoryCovers)
	if err != nil {
		return "", apperrors.AssetUpload(err)
	}
	return url, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.LabModel, error) {
	var item models.LabModel
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("lab %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return &item, nil
}

func (s *Service) List(ctx context.Context, q pagination.Query, title string) (response.Paged, error) {
	tx := s.db.WithContext(ctx).Model(&models.LabModel{}).Order("created_at DESC")
	if title != "" {
		tx = tx.Where("title LIKE ?", "%"+title+"%")
	}

	paged, err := pagination.Paginate[models.LabModel](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.LabModel{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("lab %s not found", id)
	}
	return nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/labs")

	g.GET("", h.list)
	g.GET("/:id", h.get)

	a := g.Group("", authMW, adminMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	paged, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), c.Query("title"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", paged)
}

func (h *Handler) get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", item)
}

func (h *Handler) create(c *gin.Context) {
	var dto SaveLabDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	topImg, err := formBlob(c, "top_img")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.Create(c.Request.Context(), &dto, topImg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "lab created", item)
}

func (h *Handler) update(c *gin.Context) {
	var dto SaveLabDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	topImg, err := formBlob(c, "top_img")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto, topImg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "lab updated", item)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "lab deleted", nil)
}

func formBlob(c *gin.Context, field string) (*assetstore.Blob, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
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
