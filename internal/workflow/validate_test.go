package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
)

func TestValidateIDsResolvesRows(t *testing.T) {
	db := newTestDB(t)

	a := models.DocumentModel{Name: "a"}
	b := models.DocumentModel{Name: "b"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	var docs []models.DocumentModel
	require.NoError(t, ValidateIDs(db, "document", &docs, []string{a.ID, b.ID, a.ID, ""}))
	assert.Len(t, docs, 2, "duplicates and blanks collapse")
}

func TestValidateIDsReportsMissing(t *testing.T) {
	db := newTestDB(t)

	a := models.DocumentModel{Name: "a"}
	require.NoError(t, db.Create(&a).Error)

	var docs []models.DocumentModel
	err := ValidateIDs(db, "document", &docs, []string{a.ID, "ghost-1", "ghost-2"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "ghost-1")
	assert.Contains(t, err.Error(), "ghost-2")
	assert.Contains(t, err.Error(), "document")
}

func TestValidateIDsEmptySet(t *testing.T) {
	db := newTestDB(t)

	var docs []models.DocumentModel
	require.NoError(t, ValidateIDs(db, "document", &docs, nil))
	assert.Empty(t, docs)
}
