package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/assetstore"
)

// WithAsset runs fn after an asset has already been uploaded to url. If fn
// fails, the asset is deleted best-effort so no orphan remains; a failed
// delete is logged and never masks fn's error. The returned error is always
// fn's own failure, classified as a dependent-write error when it carries no
// classification of its own.
func WithAsset(ctx context.Context, store assetstore.Store, logger *zap.Logger, url, category string, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	if url != "" {
		if delErr := store.Delete(ctx, url, category); delErr != nil {
			logger.Error("asset compensation failed, orphan left behind",
				zap.String("url", url),
				zap.String("category", category),
				zap.Error(delErr))
		} else {
			logger.Info("asset removed after failed write",
				zap.String("url", url),
				zap.String("category", category))
		}
	}

	var classified *apperrors.Error
	if errors.As(err, &classified) {
		return err
	}
	return apperrors.DependentWrite(err)
}
