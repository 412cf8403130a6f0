package workflow

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.TeamModel{},
		&models.ProductKindModel{},
		&models.ProductTypeModel{},
		&models.DocumentModel{},
		&models.ReleaseModel{},
		&models.ProductModel{},
	))
	return db
}

func productFamily() Family[*models.ReleaseModel, *models.ProductModel] {
	return Family[*models.ReleaseModel, *models.ProductModel]{
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
		Assocs: []Assoc{
			{Field: "ProductTypes", Label: "product type", NewRows: func() interface{} { return &[]models.ProductTypeModel{} }},
			{Field: "Documents", Label: "document", NewRows: func() interface{} { return &[]models.DocumentModel{} }},
		},
	}
}

type fixture struct {
	db     *gorm.DB
	engine *Engine[*models.ReleaseModel, *models.ProductModel]
	typeA  models.ProductTypeModel
	docA   models.DocumentModel
	docB   models.DocumentModel
	docC   models.DocumentModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{
		db:     db,
		engine: NewEngine(db, zap.NewNop(), productFamily()),
		typeA:  models.ProductTypeModel{Name: "runtime"},
		docA:   models.DocumentModel{Name: "intro"},
		docB:   models.DocumentModel{Name: "api"},
		docC:   models.DocumentModel{Name: "faq"},
	}
	require.NoError(t, db.Create(&f.typeA).Error)
	require.NoError(t, db.Create(&f.docA).Error)
	require.NoError(t, db.Create(&f.docB).Error)
	require.NoError(t, db.Create(&f.docC).Error)
	return f
}

func (f *fixture) create(t *testing.T, title string, docIDs ...string) *models.ReleaseModel {
	t.Helper()
	d := &models.ReleaseModel{Title: title, Summary: "v1"}
	require.NoError(t, f.engine.Create(context.Background(), d, map[string][]string{
		"ProductTypes": {f.typeA.ID},
		"Documents":    docIDs,
	}))
	return d
}

func (f *fixture) approve(t *testing.T, id string) *models.ProductModel {
	t.Helper()
	_, err := f.engine.SubmitForReview(context.Background(), id)
	require.NoError(t, err)
	p, _, err := f.engine.Decide(context.Background(), id, true)
	require.NoError(t, err)
	return p
}

func (f *fixture) documentIDs(t *testing.T, p *models.ProductModel) []string {
	t.Helper()
	var docs []models.DocumentModel
	require.NoError(t, f.db.Model(p).Association("Documents").Find(&docs))
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}

func TestCreateRollsBackOnBadReference(t *testing.T) {
	f := newFixture(t)

	d := &models.ReleaseModel{Title: "atlas", Summary: "v1"}
	err := f.engine.Create(context.Background(), d, map[string][]string{
		"Documents": {f.docA.ID, "no-such-id"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "no-such-id")

	var n int64
	require.NoError(t, f.db.Model(&models.ReleaseModel{}).Count(&n).Error)
	assert.Zero(t, n, "failed create must leave no draft behind")
}

func TestCreateRejectsUnknownReferenceSet(t *testing.T) {
	f := newFixture(t)

	d := &models.ReleaseModel{Title: "atlas"}
	err := f.engine.Create(context.Background(), d, map[string][]string{
		"Widgets": {f.docA.ID},
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestTitleUniquenessAndRejectedReuse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.create(t, "atlas")

	err := f.engine.Create(ctx, &models.ReleaseModel{Title: "atlas"}, nil)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, err = f.engine.SubmitForReview(ctx, first.ID)
	require.NoError(t, err)
	_, _, err = f.engine.Decide(ctx, first.ID, false)
	require.NoError(t, err)

	// a rejected draft releases its title
	require.NoError(t, f.engine.Create(ctx, &models.ReleaseModel{Title: "atlas"}, nil))
}

func TestFirstApprovalCreatesPublished(t *testing.T) {
	f := newFixture(t)

	d := f.create(t, "atlas", f.docA.ID, f.docB.ID)
	p := f.approve(t, d.ID)

	assert.Equal(t, "atlas", p.Title)
	assert.Equal(t, "v1", p.Summary)
	assert.ElementsMatch(t, []string{f.docA.ID, f.docB.ID}, f.documentIDs(t, p))

	var reloaded models.ReleaseModel
	require.NoError(t, f.db.First(&reloaded, "id = ?", d.ID).Error)
	assert.Equal(t, models.StatusApproved, reloaded.Status)
	require.NotNil(t, reloaded.ProductID)
	assert.Equal(t, p.ID, *reloaded.ProductID)
}

func TestResubmissionReplacesSetsNotAppends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.create(t, "atlas", f.docA.ID, f.docB.ID)
	p := f.approve(t, d.ID)

	_, err := f.engine.Edit(ctx, d.ID, func(r *models.ReleaseModel) {
		r.Summary = "v2"
	}, map[string][]string{
		"ProductTypes": {f.typeA.ID},
		"Documents":    {f.docB.ID, f.docC.ID},
	})
	require.NoError(t, err)

	p2 := f.approve(t, d.ID)
	assert.Equal(t, p.ID, p2.ID, "resubmission must not create a second published row")

	var count int64
	require.NoError(t, f.db.Model(&models.ProductModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var reloaded models.ProductModel
	require.NoError(t, f.db.First(&reloaded, "id = ?", p.ID).Error)
	assert.Equal(t, "v2", reloaded.Summary)
	assert.ElementsMatch(t, []string{f.docB.ID, f.docC.ID}, f.documentIDs(t, &reloaded),
		"replaced set must drop removed members")
}

func TestResubmissionCanClearSets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.create(t, "atlas", f.docA.ID)
	p := f.approve(t, d.ID)

	_, err := f.engine.Edit(ctx, d.ID, func(r *models.ReleaseModel) {}, nil)
	require.NoError(t, err)
	f.approve(t, d.ID)

	assert.Empty(t, f.documentIDs(t, p))
}

func TestApproveRequiresReviewing(t *testing.T) {
	f := newFixture(t)

	d := f.create(t, "atlas")
	_, _, err := f.engine.Decide(context.Background(), d.ID, true)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRejectSucceedsFromAnyState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// rejecting a draft that was never submitted
	d := f.create(t, "atlas")
	_, rejected, err := f.engine.Decide(ctx, d.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)

	// rejecting an already-approved draft pulls it back too
	d2 := f.create(t, "borealis")
	f.approve(t, d2.ID)
	_, rejected, err = f.engine.Decide(ctx, d2.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)

	_, _, err = f.engine.Decide(ctx, "no-such-id", false)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestApproveTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.create(t, "atlas")
	f.approve(t, d.ID)

	// the first approval left the draft Approved, so a second decision
	// finds nothing under review
	_, _, err := f.engine.Decide(ctx, d.ID, true)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	var count int64
	require.NoError(t, f.db.Model(&models.ProductModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResubmissionSyncsTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.create(t, "atlas")
	p := f.approve(t, d.ID)

	_, err := f.engine.Edit(ctx, d.ID, func(r *models.ReleaseModel) {
		r.Title = "atlas-v2"
	}, nil)
	require.NoError(t, err)
	f.approve(t, d.ID)

	var reloaded models.ProductModel
	require.NoError(t, f.db.First(&reloaded, "id = ?", p.ID).Error)
	assert.Equal(t, "atlas-v2", reloaded.Title)
}

func TestSubmitTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.create(t, "atlas")
	_, err := f.engine.SubmitForReview(ctx, d.ID)
	require.NoError(t, err)
	_, err = f.engine.SubmitForReview(ctx, d.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestFirstApprovalConflictsWithExistingPublishedTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Create(&models.ProductModel{Title: "atlas"}).Error)

	d := f.create(t, "atlas")
	_, err := f.engine.SubmitForReview(ctx, d.ID)
	require.NoError(t, err)

	_, _, err = f.engine.Decide(ctx, d.ID, true)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	// the failed promotion must leave the draft still reviewable
	var reloaded models.ReleaseModel
	require.NoError(t, f.db.First(&reloaded, "id = ?", d.ID).Error)
	assert.Equal(t, models.StatusReviewing, reloaded.Status)
	assert.Nil(t, reloaded.ProductID)
}

func TestEditRejectedReturnsToCreated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.create(t, "atlas")
	_, err := f.engine.SubmitForReview(ctx, d.ID)
	require.NoError(t, err)
	_, _, err = f.engine.Decide(ctx, d.ID, false)
	require.NoError(t, err)

	edited, err := f.engine.Edit(ctx, d.ID, func(r *models.ReleaseModel) {
		r.Summary = "reworked"
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCreated, edited.Status)
}

func TestEditTitleConflictExcludesSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.create(t, "atlas")
	f.create(t, "borealis")

	// keeping your own title is fine
	_, err := f.engine.Edit(ctx, d.ID, func(r *models.ReleaseModel) {}, nil)
	require.NoError(t, err)

	// taking another active draft's title is not
	_, err = f.engine.Edit(ctx, d.ID, func(r *models.ReleaseModel) {
		r.Title = "borealis"
	}, nil)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestGetPreloadsSets(t *testing.T) {
	f := newFixture(t)

	d := f.create(t, "atlas", f.docA.ID)
	got, err := f.engine.Get(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, f.docA.ID, got.Documents[0].ID)
	require.Len(t, got.ProductTypes, 1)
}
