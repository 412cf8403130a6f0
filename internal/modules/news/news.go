// Package news serves the portal's news feed with admin-managed entries.
package news

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

const categoryCovers = "news-covers"

type SaveNewsDTO struct {
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

func (s *Service) Create(ctx context.Context, dto *SaveNewsDTO, cover *assetstore.Blob) (*models.NewsModel, error) {
	item := &models.NewsModel{
		Title:   dto.Title,
		Summary: dto.Desc,
		Content: dto.Content,
	}

	coverURL, err := s.uploadIfPresent(ctx, cover)
	if err != nil {
		return nil, err
	}
	item.CoverImg = coverURL

	return item, workflow.WithAsset(ctx, s.store, s.logger, coverURL, categoryCovers, func() error {
		return s.db.WithContext(ctx).Create(item).Error
	})
}

func (s *Service) Update(ctx context.Context, id string, dto *SaveNewsDTO, cover *assetstore.Blob) (*models.NewsModel, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	coverURL, err := s.uploadIfPresent(ctx, cover)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":   dto.Title,
		"summary": dto.Desc,
		"content": dto.Content,
	}
	if coverURL != "" {
		updates["cover_img"] = coverURL
	}

	err = workflow.WithAsset(ctx, s.store, s.logger, coverURL, categoryCovers, func() error {
		return s.db.WithContext(ctx).Model(item).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
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

func (s *Service) load(ctx context.Context, id string) (*models.NewsModel, error) {
	var item models.NewsModel
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("news %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return &item, nil
}

// Get returns one entry and bumps its view counter atomically.
func (s *Service) Get(ctx context.Context, id string) (*models.NewsModel, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.NewsModel{}).Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	item.ViewCount++
	return item, nil
}

func (s *Service) List(ctx context.Context, q pagination.Query, title string) (response.Paged, error) {
	tx := s.db.WithContext(ctx).Model(&models.NewsModel{}).Order("created_at DESC")
	if title != "" {
		tx = tx.Where("title LIKE ?", "%"+title+"%")
	}

	paged, err := pagination.Paginate[models.NewsModel](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.NewsModel{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("news %s not found", id)
	}
	return nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/news")

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
	var dto SaveNewsDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cover, err := formBlob(c, "cover_img")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.Create(c.Request.Context(), &dto, cover)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "news created", item)
}

func (h *Handler) update(c *gin.Context) {
	var dto SaveNewsDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cover, err := formBlob(c, "cover_img")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto, cover)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "news updated", item)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "news deleted", nil)
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
