package product

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/pagination"
	"github.com/portal-space/core/internal/pkg/response"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns a page of published products, newest first.
func (s *Service) List(ctx context.Context, q pagination.Query, title, kindID string) (response.Paged, error) {
	tx := s.db.WithContext(ctx).Model(&models.ProductModel{}).
		Preload("ProductTypes").
		Order("created_at DESC")
	if title != "" {
		tx = tx.Where("title LIKE ?", "%"+title+"%")
	}
	if kindID != "" {
		tx = tx.Where("kind_id = ?", kindID)
	}

	paged, err := pagination.Paginate[models.ProductModel](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}

// Get returns one product with every referenced set.
func (s *Service) Get(ctx context.Context, id string) (*models.ProductModel, error) {
	var p models.ProductModel
	err := s.db.WithContext(ctx).
		Preload("Team.Members").
		Preload("Kind").
		Preload("ProductTypes").
		Preload("Documents").
		Preload("Cases").
		Preload("Routes").
		Preload("DevelopPlans").
		Preload("DeliveryPlans").
		Preload("Videos").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("product %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return &p, nil
}

// Follow records a user following a product and bumps the counter in the
// same transaction. Following twice is a conflict; the counter moves by
// exactly one per follow row.
func (s *Service) Follow(ctx context.Context, userID, productID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.ProductModel{}).Where("id = ?", productID).Count(&n).Error; err != nil {
			return apperrors.Internal(err)
		}
		if n == 0 {
			return apperrors.NotFoundf("product %s not found", productID)
		}

		row := models.FollowModel{UserID: userID, ProductID: productID}
		res := tx.Where(models.FollowModel{UserID: userID, ProductID: productID}).FirstOrCreate(&row)
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflictf("already following this product")
		}

		if err := tx.Model(&models.ProductModel{}).Where("id = ?", productID).
			Update("follow_count", gorm.Expr("follow_count + 1")).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

// Unfollow removes the follow row and decrements the counter, never below
// zero.
func (s *Service) Unfollow(ctx context.Context, userID, productID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&models.FollowModel{})
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFoundf("not following this product")
		}

		if err := tx.Model(&models.ProductModel{}).
			Where("id = ? AND follow_count > 0", productID).
			Update("follow_count", gorm.Expr("follow_count - 1")).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

// IsFollowing reports whether the user follows the product.
func (s *Service) IsFollowing(ctx context.Context, userID, productID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.FollowModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	if err != nil {
		return false, apperrors.Internal(err)
	}
	return n > 0, nil
}

// RecordDownload bumps a document's download counter atomically and returns
// its download URL.
func (s *Service) RecordDownload(ctx context.Context, documentID string) (string, error) {
	var doc models.DocumentModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&doc, "id = ?", documentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("document %s not found", documentID)
			}
			return apperrors.Internal(err)
		}
		if err := tx.Model(&models.DocumentModel{}).Where("id = ?", documentID).
			Update("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	return doc.DownloadURL, err
}

// Praise records a user praising a document; one praise per user, counted
// atomically.
func (s *Service) Praise(ctx context.Context, userID, documentID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.DocumentModel{}).Where("id = ?", documentID).Count(&n).Error; err != nil {
			return apperrors.Internal(err)
		}
		if n == 0 {
			return apperrors.NotFoundf("document %s not found", documentID)
		}

		row := models.PraiseModel{UserID: userID, DocumentID: documentID}
		res := tx.Where(models.PraiseModel{UserID: userID, DocumentID: documentID}).FirstOrCreate(&row)
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflictf("already praised this document")
		}

		if err := tx.Model(&models.DocumentModel{}).Where("id = ?", documentID).
			Update("praise_count", gorm.Expr("praise_count + 1")).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

// Unpraise removes the praise row and decrements, never below zero.
func (s *Service) Unpraise(ctx context.Context, userID, documentID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND document_id = ?", userID, documentID).
			Delete(&models.PraiseModel{})
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFoundf("praise not found")
		}

		if err := tx.Model(&models.DocumentModel{}).
			Where("id = ? AND praise_count > 0", documentID).
			Update("praise_count", gorm.Expr("praise_count - 1")).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

// Collect bookmarks a document for the user.
func (s *Service) Collect(ctx context.Context, userID, documentID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.DocumentModel{}).Where("id = ?", documentID).Count(&n).Error; err != nil {
			return apperrors.Internal(err)
		}
		if n == 0 {
			return apperrors.NotFoundf("document %s not found", documentID)
		}

		row := models.CollectModel{UserID: userID, DocumentID: documentID}
		res := tx.Where(models.CollectModel{UserID: userID, DocumentID: documentID}).FirstOrCreate(&row)
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflictf("already collected this document")
		}
		return nil
	})
}

// Uncollect removes the bookmark.
func (s *Service) Uncollect(ctx context.Context, userID, documentID string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND document_id = ?", userID, documentID).
		Delete(&models.CollectModel{})
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("collection not found")
	}
	return nil
}

// Collections lists the documents a user has bookmarked.
func (s *Service) Collections(ctx context.Context, userID string, q pagination.Query) (response.Paged, error) {
	sub := s.db.WithContext(ctx).Model(&models.CollectModel{}).
		Select("document_id").
		Where("user_id = ?", userID)
	tx := s.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("id IN (?)", sub).
		Order("created_at DESC")

	paged, err := pagination.Paginate[models.DocumentModel](tx, q)
	if err != nil {
		return response.Paged{}, apperrors.Internal(err)
	}
	return paged, nil
}
