package assetstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local development. It can
// be told to fail uploads or deletes to exercise error paths.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	FailUploads error
	FailDeletes error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}}
}

func (m *MemoryStore) Upload(ctx context.Context, blob Blob, category string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUploads != nil {
		return "", m.FailUploads
	}
	if len(blob.Content) == 0 {
		return "", fmt.Errorf("upload %q: no content", blob.Filename)
	}

	url := "mem://" + ObjectKey(category, blob.Filename)
	m.objects[url] = blob.Content
	return url, nil
}

func (m *MemoryStore) Delete(ctx context.Context, url, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailDeletes != nil {
		return m.FailDeletes
	}
	if _, ok := m.objects[url]; !ok {
		return fmt.Errorf("delete: unknown url %q", url)
	}
	delete(m.objects, url)
	m.deleted = append(m.deleted, url)
	return nil
}

// Uploaded returns the URLs currently stored.
func (m *MemoryStore) Uploaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	urls := make([]string, 0, len(m.objects))
	for url := range m.objects {
		urls = append(urls, url)
	}
	return urls
}

// Deleted returns the URLs removed so far, in order.
func (m *MemoryStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
