package release

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/assetstore"
	"github.com/portal-space/core/internal/pkg/pagination"
	"github.com/portal-space/core/internal/pkg/response"
	"github.com/portal-space/core/internal/workflow"
)

const (
	categoryLogos  = "product-logos"
	categoryCovers = "product-covers"
)

type Service struct {
	db     *gorm.DB
	store  assetstore.Store
	logger *zap.Logger
	engine *workflow.Engine[*models.ReleaseModel, *models.ProductModel]
}

func NewService(db *gorm.DB, store assetstore.Store, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		store:  store,
		logger: logger,
		engine: workflow.NewEngine(db, logger, ProductFamily()),
	}
}

// Create uploads the optional cover images, then creates the draft. If the
// draft cannot be written, the uploaded images are removed again.
func (s *Service) Create(ctx context.Context, ownerID string, dto *SaveReleaseDTO, logo, topImg *assetstore.Blob) (*models.ReleaseModel, error) {
	d := &models.ReleaseModel{
		Title:     dto.Name,
		Summary:   dto.Desc,
		ForumPath: dto.ForumPath,
		OwnerID:   ownerID,
		TeamID:    dto.TeamID,
		KindID:    dto.KindID,
	}

	return d, s.withUploads(ctx, logo, topImg, d, func() error {
		return s.engine.Create(ctx, d, dto.assocIDs())
	})
}

// Update edits a draft. Fresh cover uploads replace the stored URLs; on a
// failed write the new uploads are removed and the old URLs stay.
func (s *Service) Update(ctx context.Context, id string, dto *SaveReleaseDTO, logo, topImg *assetstore.Blob) (*models.ReleaseModel, error) {
	carrier := &models.ReleaseModel{}
	var out *models.ReleaseModel

	err := s.withUploads(ctx, logo, topImg, carrier, func() error {
		d, err := s.engine.Edit(ctx, id, func(d *models.ReleaseModel) {
			d.Title = dto.Name
			d.Summary = dto.Desc
			d.ForumPath = dto.ForumPath
			d.TeamID = dto.TeamID
			d.KindID = dto.KindID
			if carrier.Logo != "" {
				d.Logo = carrier.Logo
			}
			if carrier.TopImg != "" {
				d.TopImg = carrier.TopImg
			}
		}, dto.assocIDs())
		out = d
		return err
	})
	return out, err
}

// withUploads uploads the present blobs onto d, then runs fn under asset
// compensation so failed writes leave no orphaned objects behind.
func (s *Service) withUploads(ctx context.Context, logo, topImg *assetstore.Blob, d *models.ReleaseModel, fn func() error) error {
	logoURL, err := s.uploadIfPresent(ctx, logo, categoryLogos)
	if err != nil {
		return err
	}
	if logoURL != "" {
		d.Logo = logoURL
	}

	return workflow.WithAsset(ctx, s.store, s.logger, logoURL, categoryLogos, func() error {
		topURL, err := s.uploadIfPresent(ctx, topImg, categoryCovers)
		if err != nil {
			return err
		}
		if topURL != "" {
			d.TopImg = topURL
		}
		return workflow.WithAsset(ctx, s.store, s.logger, topURL, categoryCovers, fn)
	})
}

func (s *Service) uploadIfPresent(ctx context.Context, blob *assetstore.Blob, category string) (string, error) {
	if blob == nil {
		return "", nil
	}
	url, err := s.store.Upload(ctx, *blob, category)
	if err != nil {
		return "", apperrors.AssetUpload(err)
	}
	return url, nil
}

// Submit moves a draft into review.
func (s *Service) Submit(ctx context.Context, id string) (*models.ReleaseModel, error) {
	return s.engine.SubmitForReview(ctx, id)
}

// Decide approves or rejects a reviewing draft. Approval promotes it into
// the published product.
func (s *Service) Decide(ctx context.Context, id string, approved bool) (*models.ProductModel, *models.ReleaseModel, error) {
	return s.engine.Decide(ctx, id, approved)
}

// Get returns a draft with its referenced sets.
func (s *Service) Get(ctx context.Context, id string) (*models.ReleaseModel, error) {
	return s.engine.Get(ctx, id)
}

// List returns a page of drafts, newest first.
func (s *Service) List(ctx context.Context, q pagination.Query, filter ListFilter) (response.Paged, error) {
	tx := s.db.WithContext(ctx).Model(&models.ReleaseModel{}).Order("created_at DESC")
	if filter.Status != nil {
		tx = tx.Where("status = ?", *filter.Status)
	}
	if filter.Title != "" {
		tx = tx.Where("title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.OwnerID != "" {
		tx = tx.Where("owner_id = ?", filter.OwnerID)
	}

	paged, err := pagination.Paginate[models.ReleaseModel](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}

// Delete removes a draft and, when it has been promoted, the published
// product along with its association links.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d models.ReleaseModel
		if err := tx.First(&d, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("release %s not found", id)
			}
			return apperrors.Internal(err)
		}

		if d.ProductID != nil && *d.ProductID != "" {
			if err := tx.Select(clause.Associations).Delete(&models.ProductModel{Base: models.Base{ID: *d.ProductID}}).Error; err != nil {
				return apperrors.Internal(err)
			}
		}
		if err := tx.Select(clause.Associations).Delete(&d).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}
