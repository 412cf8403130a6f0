package product

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/database"
	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/pagination"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(db), db
}

func followCount(t *testing.T, db *gorm.DB, id string) int64 {
	t.Helper()
	var p models.ProductModel
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p.FollowCount
}

func TestFollowUnfollowMovesCounterByOne(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := models.ProductModel{Title: "atlas"}
	require.NoError(t, db.Create(&p).Error)

	require.NoError(t, svc.Follow(ctx, "user-1", p.ID))
	assert.EqualValues(t, 1, followCount(t, db, p.ID))

	// following twice neither duplicates the row nor double-counts
	err := svc.Follow(ctx, "user-1", p.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.EqualValues(t, 1, followCount(t, db, p.ID))

	require.NoError(t, svc.Follow(ctx, "user-2", p.ID))
	assert.EqualValues(t, 2, followCount(t, db, p.ID))

	require.NoError(t, svc.Unfollow(ctx, "user-1", p.ID))
	assert.EqualValues(t, 1, followCount(t, db, p.ID))

	err = svc.Unfollow(ctx, "user-1", p.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.EqualValues(t, 1, followCount(t, db, p.ID))
}

func TestFollowUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Follow(context.Background(), "user-1", "ghost")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestIsFollowing(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p := models.ProductModel{Title: "atlas"}
	require.NoError(t, db.Create(&p).Error)

	following, err := svc.IsFollowing(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, svc.Follow(ctx, "user-1", p.ID))
	following, err = svc.IsFollowing(ctx, "user-1", p.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestRecordDownload(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	doc := models.DocumentModel{Name: "manual", DownloadURL: "https://assets.example.com/manual.pdf"}
	require.NoError(t, db.Create(&doc).Error)

	url, err := svc.RecordDownload(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.DownloadURL, url)
	_, err = svc.RecordDownload(ctx, doc.ID)
	require.NoError(t, err)

	var reloaded models.DocumentModel
	require.NoError(t, db.First(&reloaded, "id = ?", doc.ID).Error)
	assert.EqualValues(t, 2, reloaded.DownloadCount)
}

func TestPraiseOncePerUser(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	doc := models.DocumentModel{Name: "manual"}
	require.NoError(t, db.Create(&doc).Error)

	require.NoError(t, svc.Praise(ctx, "user-1", doc.ID))
	err := svc.Praise(ctx, "user-1", doc.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	var reloaded models.DocumentModel
	require.NoError(t, db.First(&reloaded, "id = ?", doc.ID).Error)
	assert.EqualValues(t, 1, reloaded.PraiseCount)

	require.NoError(t, svc.Unpraise(ctx, "user-1", doc.ID))
	require.NoError(t, db.First(&reloaded, "id = ?", doc.ID).Error)
	assert.EqualValues(t, 0, reloaded.PraiseCount)
}

func TestCollections(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	docA := models.DocumentModel{Name: "a"}
	docB := models.DocumentModel{Name: "b"}
	require.NoError(t, db.Create(&docA).Error)
	require.NoError(t, db.Create(&docB).Error)

	require.NoError(t, svc.Collect(ctx, "user-1", docA.ID))
	require.NoError(t, svc.Collect(ctx, "user-1", docB.ID))
	err := svc.Collect(ctx, "user-1", docA.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	paged, err := svc.Collections(ctx, "user-1", pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, paged.Count)

	require.NoError(t, svc.Uncollect(ctx, "user-1", docA.ID))
	paged, err = svc.Collections(ctx, "user-1", pagination.Query{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, paged.Count)
}
