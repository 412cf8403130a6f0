// Package taxonomy exposes the flat lookup tables that drafts and published
// entities reference: product types, product kinds, solution types, document
// types and route types. They share a shape, so one generic resource serves
// all of them.
package taxonomy

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

type SaveTermDTO struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

// resource is a CRUD surface over one lookup table. label feeds error
// messages, updates maps the DTO onto column assignments.
type resource[T any] struct {
	db      *gorm.DB
	label   string
	make    func(dto *SaveTermDTO) *T
	updates func(dto *SaveTermDTO) map[string]interface{}
}

func (r *resource[T]) create(ctx context.Context, dto *SaveTermDTO) (*T, error) {
	row := r.make(dto)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return row, nil
}

func (r *resource[T]) get(ctx context.Context, id string) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("%s %s not found", r.label, id)
		}
		return nil, apperrors.Internal(err)
	}
	return &row, nil
}

func (r *resource[T]) update(ctx context.Context, id string, dto *SaveTermDTO) (*T, error) {
	row, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(row).Updates(r.updates(dto)).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return r.get(ctx, id)
}

func (r *resource[T]) list(ctx context.Context, q pagination.Query, name string) (response.Paged, error) {
	var zero T
	tx := r.db.WithContext(ctx).Model(&zero).Order("created_at DESC")
	if name != "" {
		tx = tx.Where("name LIKE ?", "%"+name+"%")
	}

	paged, err := pagination.Paginate[T](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}

func (r *resource[T]) delete(ctx context.Context, id string) error {
	var zero T
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&zero)
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("%s %s not found", r.label, id)
	}
	return nil
}

func (r *resource[T]) register(rg *gin.RouterGroup, path string, mws ...gin.HandlerFunc) {
	g := rg.Group(path)

	g.GET("", func(c *gin.Context) {
		paged, err := r.list(c.Request.Context(), pagination.FromContext(c), c.Query("name"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "ok", paged)
	})
	g.GET("/:id", func(c *gin.Context) {
		row, err := r.get(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "ok", row)
	})

	a := g.Group("", mws...)
	a.POST("", func(c *gin.Context) {
		var dto SaveTermDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		row, err := r.create(c.Request.Context(), &dto)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, r.label+" created", row)
	})
	a.PUT("/:id", func(c *gin.Context) {
		var dto SaveTermDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		row, err := r.update(c.Request.Context(), c.Param("id"), &dto)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, r.label+" updated", row)
	})
	a.DELETE("/:id", func(c *gin.Context) {
		if err := r.delete(c.Request.Context(), c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, r.label+" deleted", nil)
	})
}

func nameOnly(dto *SaveTermDTO) map[string]interface{} {
	return map[string]interface{}{"name": dto.Name}
}

// RegisterRoutes mounts every lookup table under its own path. Reads are
// public, mutations require the given middleware.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, authMW, adminMW gin.HandlerFunc) {
	(&resource[models.ProductTypeModel]{
		db:    db,
		label: "product type",
		make: func(dto *SaveTermDTO) *models.ProductTypeModel {
			return &models.ProductTypeModel{Name: dto.Name, Icon: dto.Icon}
		},
		updates: func(dto *SaveTermDTO) map[string]interface{} {
			return map[string]interface{}{"name": dto.Name, "icon": dto.Icon}
		},
	}).register(rg, "/product-types", authMW, adminMW)

	(&resource[models.ProductKindModel]{
		db:    db,
		label: "product kind",
		make: func(dto *SaveTermDTO) *models.ProductKindModel {
			return &models.ProductKindModel{Name: dto.Name}
		},
		updates: nameOnly,
	}).register(rg, "/product-kinds", authMW, adminMW)

	(&resource[models.SolutionTypeModel]{
		db:    db,
		label: "solution type",
		make: func(dto *SaveTermDTO) *models.SolutionTypeModel {
			return &models.SolutionTypeModel{Name: dto.Name}
		},
		updates: nameOnly,
	}).register(rg, "/solution-types", authMW, adminMW)

	(&resource[models.DocTypeModel]{
		db:    db,
		label: "doc type",
		make: func(dto *SaveTermDTO) *models.DocTypeModel {
			return &models.DocTypeModel{Name: dto.Name}
		},
		updates: nameOnly,
	}).register(rg, "/doc-types", authMW, adminMW)

	(&resource[models.RouteTypeModel]{
		db:    db,
		label: "route type",
		make: func(dto *SaveTermDTO) *models.RouteTypeModel {
			return &models.RouteTypeModel{Name: dto.Name}
		},
		updates: nameOnly,
	}).register(rg, "/route-types", authMW, adminMW)
}
