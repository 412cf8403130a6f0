// Package team manages the delivery teams shown on product pages.
package team

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/pagination"
	"github.com/portal-space/core/internal/pkg/response"
)

type SaveTeamDTO struct {
	Name string `json:"name" binding:"required"`
	Desc string `json:"desc"`
}

type SaveMemberDTO struct {
	Name   string `json:"name" binding:"required"`
	Title  string `json:"title"`
	Avatar string `json:"avatar"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Create(ctx context.Context, dto *SaveTeamDTO) (*models.TeamModel, error) {
	team := &models.TeamModel{Name: dto.Name, Summary: dto.Desc}
	if err := s.db.WithContext(ctx).Create(team).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return team, nil
}

func (s *Service) Update(ctx context.Context, id string, dto *SaveTeamDTO) (*models.TeamModel, error) {
	team, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"name": dto.Name, "summary": dto.Desc}
	if err := s.db.WithContext(ctx).Model(team).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*models.TeamModel, error) {
	var team models.TeamModel
	err := s.db.WithContext(ctx).Preload("Members").First(&team, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("team %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return &team, nil
}

func (s *Service) List(ctx context.Context, q pagination.Query) (response.Paged, error) {
	tx := s.db.WithContext(ctx).Model(&models.TeamModel{}).
		Preload("Members").
		Order("created_at DESC")

	paged, err := pagination.Paginate[models.TeamModel](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}

// Delete refuses to remove a team still referenced by drafts or products.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.ReleaseModel{}).Where("team_id = ?", id).Count(&n).Error; err != nil {
			return apperrors.Internal(err)
		}
		if n > 0 {
			return apperrors.Conflictf("team is referenced by %d release(s)", n)
		}
		if err := tx.Model(&models.ProductModel{}).Where("team_id = ?", id).Count(&n).Error; err != nil {
			return apperrors.Internal(err)
		}
		if n > 0 {
			return apperrors.Conflictf("team is referenced by %d product(s)", n)
		}

		res := tx.Select(clause.Associations).Delete(&models.TeamModel{Base: models.Base{ID: id}})
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFoundf("team %s not found", id)
		}
		return nil
	})
}

func (s *Service) AddMember(ctx context.Context, teamID string, dto *SaveMemberDTO) (*models.TeamMemberModel, error) {
	if _, err := s.Get(ctx, teamID); err != nil {
		return nil, err
	}

	member := &models.TeamMemberModel{
		TeamID: teamID,
		Name:   dto.Name,
		Title:  dto.Title,
		Avatar: dto.Avatar,
	}
	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return member, nil
}

func (s *Service) RemoveMember(ctx context.Context, teamID, memberID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", memberID, teamID).
		Delete(&models.TeamMemberModel{})
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("member %s not found in team %s", memberID, teamID)
	}
	return nil
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/teams")

	g.GET("", h.list)
	g.GET("/:id", h.get)

	a := g.Group("", authMW, adminMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
	a.POST("/:id/members", h.addMember)
	a.DELETE("/:id/members/:memberId", h.removeMember)
}

func (h *Handler) list(c *gin.Context) {
	paged, err := h.svc.List(c.Request.Context(), pagination.FromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", paged)
}

func (h *Handler) get(c *gin.Context) {
	team, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", team)
}

func (h *Handler) create(c *gin.Context) {
	var dto SaveTeamDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "team created", team)
}

func (h *Handler) update(c *gin.Context) {
	var dto SaveTeamDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "team updated", team)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "team deleted", nil)
}

func (h *Handler) addMember(c *gin.Context) {
	var dto SaveMemberDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.svc.AddMember(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "member added", member)
}

func (h *Handler) removeMember(c *gin.Context) {
	if err := h.svc.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("memberId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "member removed", nil)
}
