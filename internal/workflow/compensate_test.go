package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/assetstore"
)

func uploadTestAsset(t *testing.T, store *assetstore.MemoryStore) string {
	t.Helper()
	url, err := store.Upload(context.Background(), assetstore.Blob{
		Content:  []byte("img"),
		Filename: "cover.png",
	}, "covers")
	require.NoError(t, err)
	return url
}

func TestWithAssetSuccessKeepsAsset(t *testing.T) {
	store := assetstore.NewMemoryStore()
	url := uploadTestAsset(t, store)

	err := WithAsset(context.Background(), store, zap.NewNop(), url, "covers", func() error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{url}, store.Uploaded())
	assert.Empty(t, store.Deleted())
}

func TestWithAssetDeletesOnFailure(t *testing.T) {
	store := assetstore.NewMemoryStore()
	url := uploadTestAsset(t, store)

	boom := errors.New("insert failed")
	err := WithAsset(context.Background(), store, zap.NewNop(), url, "covers", func() error {
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom, "original failure must surface")
	assert.Equal(t, apperrors.KindDependentWrite, apperrors.KindOf(err))
	assert.Equal(t, []string{url}, store.Deleted(), "compensation must remove the uploaded asset")
}

func TestWithAssetDeleteFailureDoesNotMaskError(t *testing.T) {
	store := assetstore.NewMemoryStore()
	url := uploadTestAsset(t, store)
	store.FailDeletes = errors.New("storage down")

	boom := errors.New("insert failed")
	err := WithAsset(context.Background(), store, zap.NewNop(), url, "covers", func() error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestWithAssetKeepsClassifiedErrors(t *testing.T) {
	store := assetstore.NewMemoryStore()
	url := uploadTestAsset(t, store)

	err := WithAsset(context.Background(), store, zap.NewNop(), url, "covers", func() error {
		return apperrors.Conflictf("title taken")
	})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, []string{url}, store.Deleted())
}
