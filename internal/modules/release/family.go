package release

import (
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/workflow"
)

// Association field names shared by ReleaseModel and ProductModel.
const (
	AssocProductTypes  = "ProductTypes"
	AssocDocuments     = "Documents"
	AssocCases         = "Cases"
	AssocRoutes        = "Routes"
	AssocDevelopPlans  = "DevelopPlans"
	AssocDeliveryPlans = "DeliveryPlans"
	AssocVideos        = "Videos"
)

// ProductFamily wires the release → product pair into the workflow engine.
func ProductFamily() workflow.Family[*models.ReleaseModel, *models.ProductModel] {
	return workflow.Family[*models.ReleaseModel, *models.ProductModel]{
		Name:               "product",
		DraftLabel:         "release",
		PublishedLabel:     "product",
		NewDraft:           func() *models.ReleaseModel { return &models.ReleaseModel{} },
		NewPublished:       func() *models.ProductModel { return &models.ProductModel{} },
		PublishedRefColumn: "product_id",
		CopyScalars: func(d *models.ReleaseModel, p *models.ProductModel) {
			p.Title = d.Title
			p.Summary = d.Summary
			p.Logo = d.Logo
			p.TopImg = d.TopImg
			p.ForumPath = d.ForumPath
			p.TeamID = d.TeamID
			p.KindID = d.KindID
		},
		ScalarUpdates: func(d *models.ReleaseModel) map[string]interface{} {
			return map[string]interface{}{
				"title":      d.Title,
				"summary":    d.Summary,
				"logo":       d.Logo,
				"top_img":    d.TopImg,
				"forum_path": d.ForumPath,
				"team_id":    d.TeamID,
				"kind_id":    d.KindID,
			}
		},
		Assocs: []workflow.Assoc{
			{Field: AssocProductTypes, Label: "product type", NewRows: func() interface{} { return &[]models.ProductTypeModel{} }},
			{Field: AssocDocuments, Label: "document", NewRows: func() interface{} { return &[]models.DocumentModel{} }},
			{Field: AssocCases, Label: "case", NewRows: func() interface{} { return &[]models.CaseModel{} }},
			{Field: AssocRoutes, Label: "route", NewRows: func() interface{} { return &[]models.RouteModel{} }},
			{Field: AssocDevelopPlans, Label: "develop plan", NewRows: func() interface{} { return &[]models.PlanModel{} }},
			{Field: AssocDeliveryPlans, Label: "delivery plan", NewRows: func() interface{} { return &[]models.PlanModel{} }},
			{Field: AssocVideos, Label: "video", NewRows: func() interface{} { return &[]models.VideoModel{} }},
		},
		Validate: func(tx *gorm.DB, d *models.ReleaseModel) error {
			if d.TeamID != "" {
				var n int64
				if err := tx.Model(&models.TeamModel{}).Where("id = ?", d.TeamID).Count(&n).Error; err != nil {
					return apperrors.Internal(err)
				}
				if n == 0 {
					return apperrors.NotFoundf("team %s not found", d.TeamID)
				}
			}
			if d.KindID != "" {
				var n int64
				if err := tx.Model(&models.ProductKindModel{}).Where("id = ?", d.KindID).Count(&n).Error; err != nil {
					return apperrors.Internal(err)
				}
				if n == 0 {
					return apperrors.NotFoundf("product kind %s not found", d.KindID)
				}
			}
			return nil
		},
	}
}
