// Package memory provides an in-memory implementation of driven.BlobStore.
// Used in tests and wherever payloads need not outlive the process.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/pagevault/internal/core/domain"
	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore is an in-memory implementation of driven.BlobStore. Per-page
// artifacts are stored as one opaque blob per page directory.
type BlobStore struct {
	mu        sync.RWMutex
	blobs     map[string][]byte
	artifacts map[string][]byte // PagePath.Dir() -> artifact bundle
}

// NewBlobStore creates a new in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		blobs:     make(map[string][]byte),
		artifacts: make(map[string][]byte),
	}
}

// Read returns the bytes stored at path.
func (s *BlobStore) Read(_ context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write stores data at path.
func (s *BlobStore) Write(_ context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[path] = stored
	return nil
}

// CopyPage copies one page's artifacts from src to dst. A missing source is
// a no-op.
func (s *BlobStore) CopyPage(_ context.Context, src, dst domain.PagePath) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.artifacts[src.Dir()]
	if !ok {
		return nil
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.artifacts[dst.Dir()] = stored
	return nil
}

// PutArtifact seeds artifact data for a page. Test helper.
func (s *BlobStore) PutArtifact(p domain.PagePath, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[p.Dir()] = data
}

// Artifact returns a page's artifact data and whether it exists.
func (s *BlobStore) Artifact(p domain.PagePath) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.artifacts[p.Dir()]
	return data, ok
}
