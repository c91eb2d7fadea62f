// Package memory provides in-memory implementations of the storage ports.
// Used in tests and wherever persistence across restarts is not needed.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/pagevault/internal/core/domain"
	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	folders   map[string]domain.Folder
	documents map[string]domain.Document
	versions  map[string]domain.DocumentVersion
	pages     map[string]domain.Page
	current   map[string]string // document ID -> current version ID
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		folders:   make(map[string]domain.Folder),
		documents: make(map[string]domain.Document),
		versions:  make(map[string]domain.DocumentVersion),
		pages:     make(map[string]domain.Page),
		current:   make(map[string]string),
	}
}

// SaveFolder stores or updates a folder.
func (s *DocumentStore) SaveFolder(_ context.Context, folder *domain.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders[folder.ID] = *folder
	return nil
}

// GetFolder retrieves a folder by ID.
func (s *DocumentStore) GetFolder(_ context.Context, id string) (*domain.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	folder, ok := s.folders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &folder, nil
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns documents in a folder.
func (s *DocumentStore) ListDocuments(_ context.Context, folderID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []domain.Document
	for _, doc := range s.documents {
		if doc.FolderID == folderID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Title < docs[j].Title })
	return docs, nil
}

// CreateVersion stores a new version together with its pages.
func (s *DocumentStore) CreateVersion(_ context.Context, version *domain.DocumentVersion, pages []domain.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.versions[version.ID]; ok {
		return fmt.Errorf("version %s already exists", version.ID)
	}
	v := *version
	v.IsCurrent = false
	s.versions[version.ID] = v
	for _, p := range pages {
		s.pages[p.ID] = p
	}
	return nil
}

// GetVersion retrieves a version by ID.
func (s *DocumentStore) GetVersion(_ context.Context, id string) (*domain.DocumentVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	version, ok := s.versions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &version, nil
}

// CurrentVersion returns the document's current version.
func (s *DocumentStore) CurrentVersion(_ context.Context, documentID string) (*domain.DocumentVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.current[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	version := s.versions[id]
	return &version, nil
}

// ListVersions returns all versions of a document, oldest first.
func (s *DocumentStore) ListVersions(_ context.Context, documentID string) ([]domain.DocumentVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var versions []domain.DocumentVersion
	for _, v := range s.versions {
		if v.DocumentID == documentID {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Number < versions[j].Number })
	return versions, nil
}

// SetCurrentVersion flips the current pointer from expectedCurrentID to
// versionID, failing with domain.ErrVersionConflict on a mismatch.
func (s *DocumentStore) SetCurrentVersion(_ context.Context, documentID, versionID, expectedCurrentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, ok := s.versions[versionID]
	if !ok || version.DocumentID != documentID {
		return domain.ErrNotFound
	}
	if s.current[documentID] != expectedCurrentID {
		return domain.ErrVersionConflict
	}

	if expectedCurrentID != "" {
		old := s.versions[expectedCurrentID]
		old.IsCurrent = false
		s.versions[expectedCurrentID] = old
	}
	version.IsCurrent = true
	s.versions[versionID] = version
	s.current[documentID] = versionID
	return nil
}

// ListPages returns a version's pages ordered by page number.
func (s *DocumentStore) ListPages(_ context.Context, versionID string) ([]domain.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pages []domain.Page
	for _, p := range s.pages {
		if p.VersionID == versionID {
			pages = append(pages, p)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })
	return pages, nil
}

// GetPage retrieves a page by ID.
func (s *DocumentStore) GetPage(_ context.Context, id string) (*domain.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.pages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &page, nil
}

// GetPages retrieves several pages by ID.
func (s *DocumentStore) GetPages(_ context.Context, ids []string) ([]domain.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pages := make([]domain.Page, 0, len(ids))
	for _, id := range ids {
		page, ok := s.pages[id]
		if !ok {
			return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// UpdateVersionText stores per-page texts and the version's aggregate text.
func (s *DocumentStore) UpdateVersionText(_ context.Context, versionID string, pageTexts map[int]string, aggregate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, ok := s.versions[versionID]
	if !ok {
		return domain.ErrNotFound
	}

	for id, p := range s.pages {
		if p.VersionID != versionID {
			continue
		}
		if text, ok := pageTexts[p.Number]; ok {
			p.Text = text
			s.pages[id] = p
		}
	}
	version.Text = aggregate
	s.versions[versionID] = version
	return nil
}
