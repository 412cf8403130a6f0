package assetstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUploadDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	url, err := store.Upload(ctx, Blob{Content: []byte("png"), Filename: "logo.png", ContentType: "image/png"}, "covers")
	require.NoError(t, err)
	assert.Contains(t, url, "covers/")
	assert.Contains(t, url, "logo.png")
	assert.Len(t, store.Uploaded(), 1)

	require.NoError(t, store.Delete(ctx, url, "covers"))
	assert.Empty(t, store.Uploaded())
	assert.Equal(t, []string{url}, store.Deleted())
}

func TestMemoryStoreFailures(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	boom := errors.New("boom")
	store.FailUploads = boom
	_, err := store.Upload(ctx, Blob{Content: []byte("x"), Filename: "a"}, "covers")
	assert.ErrorIs(t, err, boom)

	store.FailUploads = nil
	_, err = store.Upload(ctx, Blob{Filename: "empty"}, "covers")
	assert.Error(t, err)

	err = store.Delete(ctx, "mem://covers/unknown", "covers")
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "unnamed", SanitizeFilename(""))
	assert.Equal(t, "a_b_c.png", SanitizeFilename("a b/c.png"))
}
