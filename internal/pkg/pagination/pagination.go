package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/pkg/response"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// FromContext extracts and validates pagination params from the request.
// Parameter names follow the portal's public API (currentPage / pageSize).
func FromContext(c *gin.Context) Query {
	page := parseIntOr(c.DefaultQuery("currentPage", "1"), DefaultPage)
	size := parseIntOr(c.DefaultQuery("pageSize", "10"), DefaultSize)

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	return Query{Page: page, Size: size}
}

// Offset is the row offset for the current page.
func (q Query) Offset() int { return (q.Page - 1) * q.Size }

// Paginate applies limit/offset to a GORM query and returns the count+rows
// payload. Count runs before the page fetch on the same query.
func Paginate[T any](db *gorm.DB, q Query) (response.Paged, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Paged{}, err
	}

	var rows []T
	if err := db.Offset(q.Offset()).Limit(q.Size).Find(&rows).Error; err != nil {
		return response.Paged{}, err
	}
	if rows == nil {
		rows = []T{}
	}

	return response.Paged{Count: total, Rows: rows}, nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
