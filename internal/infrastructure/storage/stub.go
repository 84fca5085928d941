package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	collabapp "github.com/derbent/backend/internal/application/collaboration"
)

var _ collabapp.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage is used when storage is disabled. It hands out fake
// URLs and treats every key as uploaded until it is deleted, so the
// attachment flow works in development without MinIO.
type StubObjectStorage struct {
	BaseURL string

	mu      sync.Mutex
	deleted map[string]struct{}
}

// NewStubObjectStorage creates a stub rooted at baseURL
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/storage"
	}
	return &StubObjectStorage{
		BaseURL: baseURL,
		deleted: make(map[string]struct{}),
	}
}

func (s *StubObjectStorage) url(action, storageKey string, expiresAt time.Time) string {
	return s.BaseURL + "/" + action + "/" + url.PathEscape(storageKey) +
		"?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
}

// GenerateUploadURL returns a fake upload URL
func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errKeyRequired
	}
	s.mu.Lock()
	delete(s.deleted, storageKey)
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return s.url("upload", storageKey, expiresAt), expiresAt, nil
}

// GenerateDownloadURL returns a fake download URL
func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.url("download", storageKey, expiresAt), expiresAt, nil
}

// DeleteObject records the key as gone
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errKeyRequired
	}
	s.mu.Lock()
	s.deleted[storageKey] = struct{}{}
	s.mu.Unlock()
	return nil
}

// ObjectExists is true for every key not deleted
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, gone := s.deleted[storageKey]
	return !gone, nil
}
