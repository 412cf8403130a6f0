package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedOriginFunc(t *testing.T) {
	allow := allowedOriginFunc([]string{
		"portal.example.com",
		"*.portal.example.com",
		"localhost:*",
	})

	assert.True(t, allow("https://portal.example.com"))
	assert.True(t, allow("https://admin.portal.example.com"))
	assert.True(t, allow("http://localhost:5173"))
	assert.True(t, allow("portal.example.com"), "bare host matches too")

	assert.False(t, allow("https://evil.example.com"))
	assert.False(t, allow("https://portal.example.com.evil.net"))
	assert.False(t, allow("https://notlocalhost:5173"))
}
