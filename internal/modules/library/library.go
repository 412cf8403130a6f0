// Package library manages the child rows that drafts reference by id:
// documents, cases, routes, plans and videos. Editors create these first,
// then attach them to a draft through its *_ids fields.
package library

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/pagination"
	"github.com/portal-space/core/internal/pkg/response"
)

type SaveDocumentDTO struct {
	Name        string `json:"name" binding:"required"`
	Desc        string `json:"desc"`
	DocTypeID   string `json:"doc_type_id" binding:"required"`
	DownloadURL string `json:"download_url" binding:"required"`
}

type SaveCaseDTO struct {
	Name     string `json:"name" binding:"required"`
	Desc     string `json:"desc"`
	CoverImg string `json:"cover_img"`
	Link     string `json:"link"`
}

type SaveRouteDTO struct {
	Name        string `json:"name" binding:"required"`
	Desc        string `json:"desc"`
	RouteTypeID string `json:"route_type_id" binding:"required"`
	Link        string `json:"link"`
}

type SavePlanDTO struct {
	Name string          `json:"name" binding:"required"`
	Desc string          `json:"desc"`
	Kind models.PlanKind `json:"kind" binding:"required"`
	Date string          `json:"date"`
}

type SaveVideoDTO struct {
	Name      string `json:"name" binding:"required"`
	Desc      string `json:"desc"`
	PosterURL string `json:"poster_url"`
	VideoURL  string `json:"video_url" binding:"required"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) exists(ctx context.Context, model interface{}, label, id string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return apperrors.Internal(err)
	}
	if n == 0 {
		return apperrors.NotFoundf("%s %s not found", label, id)
	}
	return nil
}

func (s *Service) CreateDocument(ctx context.Context, dto *SaveDocumentDTO) (*models.DocumentModel, error) {
	if err := s.exists(ctx, &models.DocTypeModel{}, "doc type", dto.DocTypeID); err != nil {
		return nil, err
	}
	doc := &models.DocumentModel{
		Name:        dto.Name,
		Summary:     dto.Desc,
		DocTypeID:   dto.DocTypeID,
		DownloadURL: dto.DownloadURL,
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return doc, nil
}

func (s *Service) UpdateDocument(ctx context.Context, id string, dto *SaveDocumentDTO) (*models.DocumentModel, error) {
	if err := s.exists(ctx, &models.DocTypeModel{}, "doc type", dto.DocTypeID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":         dto.Name,
		"summary":      dto.Desc,
		"doc_type_id":  dto.DocTypeID,
		"download_url": dto.DownloadURL,
	}
	if err := s.applyUpdates(ctx, &models.DocumentModel{}, "document", id, updates); err != nil {
		return nil, err
	}
	var doc models.DocumentModel
	if err := s.db.WithContext(ctx).Preload("DocType").First(&doc, "id = ?", id).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return &doc, nil
}

func (s *Service) ListDocuments(ctx context.Context, q pagination.Query, name, docTypeID string) (response.Paged, error) {
	tx := s.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Preload("DocType").
		Order("created_at DESC")
	if name != "" {
		tx = tx.Where("name LIKE ?", "%"+name+"%")
	}
	if docTypeID != "" {
		tx = tx.Where("doc_type_id = ?", docTypeID)
	}
	paged, err := pagination.Paginate[models.DocumentModel](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}

func (s *Service) CreateCase(ctx context.Context, dto *SaveCaseDTO) (*models.CaseModel, error) {
	row := &models.CaseModel{Name: dto.Name, Summary: dto.Desc, CoverImg: dto.CoverImg, Link: dto.Link}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return row, nil
}

func (s *Service) UpdateCase(ctx context.Context, id string, dto *SaveCaseDTO) (*models.CaseModel, error) {
	updates := map[string]interface{}{
		"name":      dto.Name,
		"summary":   dto.Desc,
		"cover_img": dto.CoverImg,
		"link":      dto.Link,
	}
	if err := s.applyUpdates(ctx, &models.CaseModel{}, "case", id, updates); err != nil {
		return nil, err
	}
	return getByID[models.CaseModel](ctx, s.db, "case", id)
}

func (s *Service) CreateRoute(ctx context.Context, dto *SaveRouteDTO) (*models.RouteModel, error) {
	if err := s.exists(ctx, &models.RouteTypeModel{}, "route type", dto.RouteTypeID); err != nil {
		return nil, err
	}
	row := &models.RouteModel{Name: dto.Name, Summary: dto.Desc, RouteTypeID: dto.RouteTypeID, Link: dto.Link}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return row, nil
}

func (s *Service) UpdateRoute(ctx context.Context, id string, dto *SaveRouteDTO) (*models.RouteModel, error) {
	if err := s.exists(ctx, &models.RouteTypeModel{}, "route type", dto.RouteTypeID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":          dto.Name,
		"summary":       dto.Desc,
		"route_type_id": dto.RouteTypeID,
		"link":          dto.Link,
	}
	if err := s.applyUpdates(ctx, &models.RouteModel{}, "route", id, updates); err != nil {
		return nil, err
	}
	return getByID[models.RouteModel](ctx, s.db, "route", id)
}

func (s *Service) CreatePlan(ctx context.Context, dto *SavePlanDTO) (*models.PlanModel, error) {
	if dto.Kind != models.PlanDevelop && dto.Kind != models.PlanDelivery {
		return nil, apperrors.Validationf("unknown plan kind %d", dto.Kind)
	}
	row := &models.PlanModel{Name: dto.Name, Summary: dto.Desc, Kind: dto.Kind, Date: dto.Date}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return row, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id string, dto *SavePlanDTO) (*models.PlanModel, error) {
	if dto.Kind != models.PlanDevelop && dto.Kind != models.PlanDelivery {
		return nil, apperrors.Validationf("unknown plan kind %d", dto.Kind)
	}
	updates := map[string]interface{}{
		"name":    dto.Name,
		"summary": dto.Desc,
		"kind":    dto.Kind,
		"date":    dto.Date,
	}
	if err := s.applyUpdates(ctx, &models.PlanModel{}, "plan", id, updates); err != nil {
		return nil, err
	}
	return getByID[models.PlanModel](ctx, s.db, "plan", id)
}

func (s *Service) CreateVideo(ctx context.Context, dto *SaveVideoDTO) (*models.VideoModel, error) {
	row := &models.VideoModel{Name: dto.Name, Summary: dto.Desc, PosterURL: dto.PosterURL, VideoURL: dto.VideoURL}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return row, nil
}

func (s *Service) UpdateVideo(ctx context.Context, id string, dto *SaveVideoDTO) (*models.VideoModel, error) {
	updates := map[string]interface{}{
		"name":       dto.Name,
		"summary":    dto.Desc,
		"poster_url": dto.PosterURL,
		"video_url":  dto.VideoURL,
	}
	if err := s.applyUpdates(ctx, &models.VideoModel{}, "video", id, updates); err != nil {
		return nil, err
	}
	return getByID[models.VideoModel](ctx, s.db, "video", id)
}

// List serves the non-document collections, all of which filter on name only.
// Plans additionally filter on kind when given.
func (s *Service) listOf(ctx context.Context, model interface{}, q pagination.Query, name string, extra func(*gorm.DB) *gorm.DB) (response.Paged, error) {
	tx := s.db.WithContext(ctx).Model(model).Order("created_at DESC")
	if name != "" {
		tx = tx.Where("name LIKE ?", "%"+name+"%")
	}
	if extra != nil {
		tx = extra(tx)
	}
	switch model.(type) {
	case *models.CaseModel:
		return paginateOrErr[models.CaseModel](tx, q)
	case *models.RouteModel:
		return paginateOrErr[models.RouteModel](tx.Preload("RouteType"), q)
	case *models.PlanModel:
		return paginateOrErr[models.PlanModel](tx, q)
	case *models.VideoModel:
		return paginateOrErr[models.VideoModel](tx, q)
	default:
		return response.Paged{}, apperrors.Internal(errors.New("unsupported collection"))
	}
}

func paginateOrErr[T any](tx *gorm.DB, q pagination.Query) (response.Paged, error) {
	paged, err := pagination.Paginate[T](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}

func (s *Service) Delete(ctx context.Context, model interface{}, label, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("%s %s not found", label, id)
	}
	return nil
}

func (s *Service) applyUpdates(ctx context.Context, model interface{}, label, id string, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("%s %s not found", label, id)
	}
	return nil
}

func getByID[T any](ctx context.Context, db *gorm.DB, label, id string) (*T, error) {
	var row T
	err := db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("%s %s not found", label, id)
		}
		return nil, apperrors.Internal(err)
	}
	return &row, nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts every collection behind the auth middleware: these
// rows exist to be attached to drafts, so only signed-in editors touch them.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/library", authMW)

	docs := g.Group("/documents")
	docs.GET("", h.listDocuments)
	docs.POST("", bindAndSave(func(c *gin.Context, dto *SaveDocumentDTO) (interface{}, error) {
		return h.svc.CreateDocument(c.Request.Context(), dto)
	}, "document created"))
	docs.PUT("/:id", bindAndSave(func(c *gin.Context, dto *SaveDocumentDTO) (interface{}, error) {
		return h.svc.UpdateDocument(c.Request.Context(), c.Param("id"), dto)
	}, "document updated"))
	docs.DELETE("/:id", h.deleteOf(&models.DocumentModel{}, "document"))

	cases := g.Group("/cases")
	cases.GET("", h.listOf(&models.CaseModel{}, nil))
	cases.POST("", bindAndSave(func(c *gin.Context, dto *SaveCaseDTO) (interface{}, error) {
		return h.svc.CreateCase(c.Request.Context(), dto)
	}, "case created"))
	cases.PUT("/:id", bindAndSave(func(c *gin.Context, dto *SaveCaseDTO) (interface{}, error) {
		return h.svc.UpdateCase(c.Request.Context(), c.Param("id"), dto)
	}, "case updated"))
	cases.DELETE("/:id", h.deleteOf(&models.CaseModel{}, "case"))

	routes := g.Group("/routes")
	routes.GET("", h.listOf(&models.RouteModel{}, nil))
	routes.POST("", bindAndSave(func(c *gin.Context, dto *SaveRouteDTO) (interface{}, error) {
		return h.svc.CreateRoute(c.Request.Context(), dto)
	}, "route created"))
	routes.PUT("/:id", bindAndSave(func(c *gin.Context, dto *SaveRouteDTO) (interface{}, error) {
		return h.svc.UpdateRoute(c.Request.Context(), c.Param("id"), dto)
	}, "route updated"))
	routes.DELETE("/:id", h.deleteOf(&models.RouteModel{}, "route"))

	plans := g.Group("/plans")
	plans.GET("", h.listOf(&models.PlanModel{}, func(c *gin.Context, tx *gorm.DB) *gorm.DB {
		if kind := c.Query("kind"); kind != "" {
			return tx.Where("kind = ?", kind)
		}
		return tx
	}))
	plans.POST("", bindAndSave(func(c *gin.Context, dto *SavePlanDTO) (interface{}, error) {
		return h.svc.CreatePlan(c.Request.Context(), dto)
	}, "plan created"))
	plans.PUT("/:id", bindAndSave(func(c *gin.Context, dto *SavePlanDTO) (interface{}, error) {
		return h.svc.UpdatePlan(c.Request.Context(), c.Param("id"), dto)
	}, "plan updated"))
	plans.DELETE("/:id", h.deleteOf(&models.PlanModel{}, "plan"))

	videos := g.Group("/videos")
	videos.GET("", h.listOf(&models.VideoModel{}, nil))
	videos.POST("", bindAndSave(func(c *gin.Context, dto *SaveVideoDTO) (interface{}, error) {
		return h.svc.CreateVideo(c.Request.Context(), dto)
	}, "video created"))
	videos.PUT("/:id", bindAndSave(func(c *gin.Context, dto *SaveVideoDTO) (interface{}, error) {
		return h.svc.UpdateVideo(c.Request.Context(), c.Param("id"), dto)
	}, "video updated"))
	videos.DELETE("/:id", h.deleteOf(&models.VideoModel{}, "video"))
}

func (h *Handler) listDocuments(c *gin.Context) {
	paged, err := h.svc.ListDocuments(c.Request.Context(),
		pagination.FromContext(c), c.Query("name"), c.Query("doc_type_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", paged)
}

func (h *Handler) listOf(model interface{}, extra func(*gin.Context, *gorm.DB) *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var scoped func(*gorm.DB) *gorm.DB
		if extra != nil {
			scoped = func(tx *gorm.DB) *gorm.DB { return extra(c, tx) }
		}
		paged, err := h.svc.listOf(c.Request.Context(), model,
			pagination.FromContext(c), c.Query("name"), scoped)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "ok", paged)
	}
}

func (h *Handler) deleteOf(model interface{}, label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.svc.Delete(c.Request.Context(), model, label, c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, label+" deleted", nil)
	}
}

func bindAndSave[D any](fn func(*gin.Context, *D) (interface{}, error), message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto D
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		row, err := fn(c, &dto)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, message, row)
	}
}
