package release

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/database"
	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
	"github.com/portal-space/core/internal/pkg/assetstore"
	"github.com/portal-space/core/internal/pkg/pagination"
)

type testEnv struct {
	db    *gorm.DB
	store *assetstore.MemoryStore
	svc   *Service
	team  models.TeamModel
	kind  models.ProductKindModel
	doc   models.DocumentModel
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:    db,
		store: assetstore.NewMemoryStore(),
		team:  models.TeamModel{Name: "core"},
		kind:  models.ProductKindModel{Name: "platform"},
		doc:   models.DocumentModel{Name: "manual"},
	}
	env.svc = NewService(db, env.store, zap.NewNop())
	require.NoError(t, db.Create(&env.team).Error)
	require.NoError(t, db.Create(&env.kind).Error)
	require.NoError(t, db.Create(&env.doc).Error)
	return env
}

func (e *testEnv) dto(name string) *SaveReleaseDTO {
	return &SaveReleaseDTO{
		Name:        name,
		Desc:        "v1",
		TeamID:      e.team.ID,
		KindID:      e.kind.ID,
		DocumentIDs: e.doc.ID,
	}
}

func blob(name string) *assetstore.Blob {
	return &assetstore.Blob{Content: []byte("img"), Filename: name, ContentType: "image/png"}
}

func TestCreateWithCoversUploadsAssets(t *testing.T) {
	env := newTestEnv(t)

	d, err := env.svc.Create(context.Background(), "owner-1", env.dto("atlas"), blob("logo.png"), blob("top.png"))
	require.NoError(t, err)
	assert.NotEmpty(t, d.Logo)
	assert.NotEmpty(t, d.TopImg)
	assert.Equal(t, "owner-1", d.OwnerID)
	assert.Len(t, env.store.Uploaded(), 2)
}

func TestCreateFailureRemovesUploads(t *testing.T) {
	env := newTestEnv(t)

	dto := env.dto("atlas")
	dto.DocumentIDs = "no-such-doc"
	_, err := env.svc.Create(context.Background(), "owner-1", dto, blob("logo.png"), blob("top.png"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Empty(t, env.store.Uploaded(), "failed create must leave no stored asset")
	assert.Len(t, env.store.Deleted(), 2)
}

func TestCreateUnknownTeamFails(t *testing.T) {
	env := newTestEnv(t)

	dto := env.dto("atlas")
	dto.TeamID = "ghost-team"
	_, err := env.svc.Create(context.Background(), "owner-1", dto, nil, nil)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCreateUploadFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.FailUploads = errors.New("bucket offline")

	_, err := env.svc.Create(context.Background(), "owner-1", env.dto("atlas"), blob("logo.png"), nil)
	assert.Equal(t, apperrors.KindAssetUpload, apperrors.KindOf(err))
}

func TestApproveCreatesProductAndDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d, err := env.svc.Create(ctx, "owner-1", env.dto("atlas"), nil, nil)
	require.NoError(t, err)
	_, err = env.svc.Submit(ctx, d.ID)
	require.NoError(t, err)

	p, _, err := env.svc.Decide(ctx, d.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "atlas", p.Title)
	assert.Equal(t, env.team.ID, p.TeamID)

	require.NoError(t, env.svc.Delete(ctx, d.ID))

	var n int64
	require.NoError(t, env.db.Model(&models.ProductModel{}).Count(&n).Error)
	assert.Zero(t, n, "deleting a promoted release removes the product")
	require.NoError(t, env.db.Model(&models.ReleaseModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateKeepsExistingCoversWhenNoneSent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d, err := env.svc.Create(ctx, "owner-1", env.dto("atlas"), blob("logo.png"), nil)
	require.NoError(t, err)
	originalLogo := d.Logo

	dto := env.dto("atlas")
	dto.Desc = "v2"
	updated, err := env.svc.Update(ctx, d.ID, dto, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, originalLogo, updated.Logo)
	assert.Equal(t, "v2", updated.Summary)
}

func TestListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, "owner-1", env.dto("atlas"), nil, nil)
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, "owner-2", env.dto("borealis"), nil, nil)
	require.NoError(t, err)

	paged, err := env.svc.List(ctx, pagination.Query{Page: 1, Size: 10}, ListFilter{OwnerID: "owner-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, paged.Count)

	created := models.StatusCreated
	paged, err = env.svc.List(ctx, pagination.Query{Page: 1, Size: 10}, ListFilter{Status: &created})
	require.NoError(t, err)
	assert.EqualValues(t, 2, paged.Count)
}
