package assetstore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// Blob is file content plus the metadata the backend needs to store it.
type Blob struct {
	Content     []byte
	Filename    string
	ContentType string
}

// Store puts and removes uploaded assets. Upload returns the public URL the
// asset is reachable at; Delete takes that same URL back.
type Store interface {
	Upload(ctx context.Context, blob Blob, category string) (string, error)
	Delete(ctx context.Context, url, category string) error
}

var illegalFilenameChars = regexp.MustCompile(`[^\w\-.]`)

// SanitizeFilename strips characters that are unsafe in object keys.
func SanitizeFilename(filename string) string {
	if filename == "" {
		return "unnamed"
	}
	return illegalFilenameChars.ReplaceAllString(filename, "_")
}

// ObjectKey builds a collision-free key under the given category prefix.
func ObjectKey(category, filename string) string {
	return fmt.Sprintf("%s/%s/%s", category, uuid.New().String(), SanitizeFilename(filename))
}
