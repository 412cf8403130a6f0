// Package solution runs the draft workflow for solutions and serves the
// published solution catalog.
package solution

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/middleware"
	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/assetstore"
	"github.com/portal-space/core/internal/pkg/pagination"
	"github.com/portal-space/core/internal/pkg/response"
	"github.com/portal-space/core/internal/workflow"
)

const (
	AssocSolutionTypes = "SolutionTypes"
	AssocDocuments     = "Documents"

	categoryCovers = "solution-covers"
)

// SolutionFamily wires the solution draft → solution pair into the engine.
func SolutionFamily() workflow.Family[*models.SolutionDraftModel, *models.SolutionModel] {
	return workflow.Family[*models.SolutionDraftModel, *models.SolutionModel]{
		Name:               "solution",
		DraftLabel:         "solution draft",
		PublishedLabel:     "solution",
		NewDraft:           func() *models.SolutionDraftModel { return &models.SolutionDraftModel{} },
		NewPublished:       func() *models.SolutionModel { return &models.SolutionModel{} },
		PublishedRefColumn: "solution_id",
		CopyScalars: func(d *models.SolutionDraftModel, p *models.SolutionModel) {
			p.Title = d.Title
			p.Summary = d.Summary
			p.TopImg = d.TopImg
		},
		ScalarUpdates: func(d *models.SolutionDraftModel) map[string]interface{} {
			return map[string]interface{}{
				"title":   d.Title,
				"summary": d.Summary,
				"top_img": d.TopImg,
			}
		},
		Assocs: []workflow.Assoc{
			{Field: AssocSolutionTypes, Label: "solution type", NewRows: func() interface{} { return &[]models.SolutionTypeModel{} }},
			{Field: AssocDocuments, Label: "document", NewRows: func() interface{} { return &[]models.DocumentModel{} }},
		},
	}
}

// SaveSolutionDTO carries the multipart form fields for create and update.
type SaveSolutionDTO struct {
	Name            string `form:"name" binding:"required"`
	Desc            string `form:"desc"`
	SolutionTypeIDs string `form:"solution_type_ids"`
	DocumentIDs     string `form:"document_ids"`
}

func (dto *SaveSolutionDTO) assocIDs() map[string][]string {
	return map[string][]string{
		AssocSolutionTypes: splitIDs(dto.SolutionTypeIDs),
		AssocDocuments:     splitIDs(dto.DocumentIDs),
	}
}

func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

type Service struct {
	db     *gorm.DB
	store  assetstore.Store
	logger *zap.Logger
	engine *workflow.Engine[*models.SolutionDraftModel, *models.SolutionModel]
}

func NewService(db *gorm.DB, store assetstore.Store, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		store:  store,
		logger: logger,
		engine: workflow.NewEngine(db, logger, SolutionFamily()),
	}
}

func (s *Service) Create(ctx context.Context, ownerID string, dto *SaveSolutionDTO, topImg *assetstore.Blob) (*models.SolutionDraftModel, error) {
	d := &models.SolutionDraftModel{
		Title:   dto.Name,
		Summary: dto.Desc,
		OwnerID: ownerID,
	}

	topURL, err := s.uploadIfPresent(ctx, topImg)
	if err != nil {
		return nil, err
	}
	if topURL != "" {
		d.TopImg = topURL
	}

	return d, workflow.WithAsset(ctx, s.store, s.logger, topURL, categoryCovers, func() error {
		return s.engine.Create(ctx, d, dto.assocIDs())
	})
}

func (s *Service) Update(ctx context.Context, id string, dto *SaveSolutionDTO, topImg *assetstore.Blob) (*models.SolutionDraftModel, error) {
	topURL, err := s.uploadIfPresent(ctx, topImg)
	if err != nil {
		return nil, err
	}

	var out *models.SolutionDraftModel
	err = workflow.WithAsset(ctx, s.store, s.logger, topURL, categoryCovers, func() error {
		d, err := s.engine.Edit(ctx, id, func(d *models.SolutionDraftModel) {
			d.Title = dto.Name
			d.Summary = dto.Desc
			if topURL != "" {
				d.TopImg = topURL
			}
		}, dto.assocIDs())
		out = d
		return err
	})
	return out, err
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

func (s *Service) Submit(ctx context.Context, id string) (*models.SolutionDraftModel, error) {
	return s.engine.SubmitForReview(ctx, id)
}

func (s *Service) Decide(ctx context.Context, id string, approved bool) (*models.SolutionModel, *models.SolutionDraftModel, error) {
	return s.engine.Decide(ctx, id, approved)
}

func (s *Service) Get(ctx context.Context, id string) (*models.SolutionDraftModel, error) {
	return s.engine.Get(ctx, id)
}

func (s *Service) ListDrafts(ctx context.Context, q pagination.Query, status *models.DraftStatus, title string) (response.Paged, error) {
	tx := s.db.WithContext(ctx).Model(&models.SolutionDraftModel{}).Order("created_at DESC")
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	if title != "" {
		tx = tx.Where("title LIKE ?", "%"+title+"%")
	}

	paged, err := pagination.Paginate[models.SolutionDraftModel](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}

// ListPublished returns a page of published solutions for the public site.
func (s *Service) ListPublished(ctx context.Context, q pagination.Query, title string) (response.Paged, error) {
	tx := s.db.WithContext(ctx).Model(&models.SolutionModel{}).Order("created_at DESC")
	if title != "" {
		tx = tx.Where("title LIKE ?", "%"+title+"%")
	}

	paged, err := pagination.Paginate[models.SolutionModel](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}

// GetPublished returns one published solution with all referenced sets.
func (s *Service) GetPublished(ctx context.Context, id string) (*models.SolutionModel, error) {
	var sol models.SolutionModel
	err := s.db.WithContext(ctx).
		Preload(AssocSolutionTypes).
		Preload(AssocDocuments).
		First(&sol, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("solution %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return &sol, nil
}

// Follow records a user following a solution and bumps the counter in the
// same transaction. Following twice is a conflict.
func (s *Service) Follow(ctx context.Context, userID, solutionID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.SolutionModel{}).Where("id = ?", solutionID).Count(&n).Error; err != nil {
			return apperrors.Internal(err)
		}
		if n == 0 {
			return apperrors.NotFoundf("solution %s not found", solutionID)
		}

		row := models.SolutionFollowModel{UserID: userID, SolutionID: solutionID}
		res := tx.Where(models.SolutionFollowModel{UserID: userID, SolutionID: solutionID}).FirstOrCreate(&row)
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflictf("already following this solution")
		}

		if err := tx.Model(&models.SolutionModel{}).Where("id = ?", solutionID).
			Update("follow_count", gorm.Expr("follow_count + 1")).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

// Unfollow removes the follow row and decrements the counter, never below
// zero.
func (s *Service) Unfollow(ctx context.Context, userID, solutionID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND solution_id = ?", userID, solutionID).
			Delete(&models.SolutionFollowModel{})
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFoundf("not following this solution")
		}

		if err := tx.Model(&models.SolutionModel{}).
			Where("id = ? AND follow_count > 0", solutionID).
			Update("follow_count", gorm.Expr("follow_count - 1")).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	pub := rg.Group("/solutions")
	pub.GET("", h.listPublished)
	pub.GET("/:id", h.getPublished)
	pub.POST("/:id/follow", authMW, h.follow)
	pub.DELETE("/:id/follow", authMW, h.unfollow)

	g := rg.Group("/solution-drafts", authMW)
	g.GET("", h.listDrafts)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.POST("/:id/submit", h.submit)

	a := g.Group("", adminMW)
	a.POST("/:id/decide", h.decide)
}

func (h *Handler) create(c *gin.Context) {
	var dto SaveSolutionDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	topImg, err := formBlob(c, "top_img")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	d, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &dto, topImg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "solution draft created", d)
}

func (h *Handler) update(c *gin.Context) {
	var dto SaveSolutionDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	topImg, err := formBlob(c, "top_img")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	d, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto, topImg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "solution draft updated", d)
}

func (h *Handler) submit(c *gin.Context) {
	d, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "solution draft submitted for review", d)
}

func (h *Handler) decide(c *gin.Context) {
	var dto struct {
		Approved *bool `json:"approved" binding:"required"`
	}
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
		response.OK(c, "solution draft rejected", d)
		return
	}
	response.OK(c, "solution draft approved", gin.H{"draft": d, "solution": p})
}

func (h *Handler) listDrafts(c *gin.Context) {
	var status *models.DraftStatus
	if raw := c.Query("status"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "invalid status filter")
			return
		}
		st := models.DraftStatus(v)
		status = &st
	}

	paged, err := h.svc.ListDrafts(c.Request.Context(), pagination.FromContext(c), status, c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", paged)
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", d)
}

func (h *Handler) listPublished(c *gin.Context) {
	paged, err := h.svc.ListPublished(c.Request.Context(), pagination.FromContext(c), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", paged)
}

func (h *Handler) getPublished(c *gin.Context) {
	sol, err := h.svc.GetPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", sol)
}

func (h *Handler) follow(c *gin.Context) {
	err := h.svc.Follow(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "solution followed", nil)
}

func (h *Handler) unfollow(c *gin.Context) {
	err := h.svc.Unfollow(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "solution unfollowed", nil)
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
