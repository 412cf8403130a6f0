package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerIncludesAuthenticatedUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/api/ping", func(c *gin.Context) {
		c.Set(ContextKeyUserID, "user-1")
		c.Status(200)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/ping?currentPage=2", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/ping", fields["path"])
	assert.EqualValues(t, 200, fields["status"])
	assert.Equal(t, "currentPage=2", fields["query"])
	assert.Equal(t, "user-1", fields["user_id"])
}

func TestLoggerOmitsUserForAnonymous(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/api/ping", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/ping", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	_, hasUser := fields["user_id"]
	assert.False(t, hasUser)
	_, hasQuery := fields["query"]
	assert.False(t, hasQuery)
}
