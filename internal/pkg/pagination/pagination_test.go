package pagination

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type pagedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func queryFor(t *testing.T, rawQuery string) Query {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return FromContext(c)
}

func TestFromContextDefaults(t *testing.T) {
	q := queryFor(t, "")
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultSize, q.Size)
	assert.Equal(t, 0, q.Offset())
}

func TestFromContextClampsBadValues(t *testing.T) {
	q := queryFor(t, "currentPage=-3&pageSize=0")
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultSize, q.Size)

	q = queryFor(t, "currentPage=abc&pageSize=9999")
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxSize, q.Size)
}

func TestPaginateCountsAndSlices(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:pagination_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&pagedRow{}))

	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&pagedRow{Name: fmt.Sprintf("row-%02d", i)}).Error)
	}

	paged, err := Paginate[pagedRow](db.Model(&pagedRow{}).Order("id"), Query{Page: 3, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 25, paged.Count)

	rows, ok := paged.Rows.([]pagedRow)
	require.True(t, ok)
	require.Len(t, rows, 5)
	assert.Equal(t, "row-20", rows[0].Name)

	empty, err := Paginate[pagedRow](db.Model(&pagedRow{}).Where("name = ?", "missing"), Query{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.Count)
	assert.Equal(t, []pagedRow{}, empty.Rows)
}
