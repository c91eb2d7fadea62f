package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagevault/internal/core/domain"
	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
	"github.com/custodia-labs/pagevault/internal/core/ports/driving"
	"github.com/custodia-labs/pagevault/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages folders and the document lifecycle around the
// mutation engine.
type DocumentService struct {
	docStore driven.DocumentStore
	blobs    driven.BlobStore
	codec    driven.PageCodec
	versions *VersionManager
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docStore driven.DocumentStore,
	blobs driven.BlobStore,
	codec driven.PageCodec,
	versions *VersionManager,
) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		blobs:    blobs,
		codec:    codec,
		versions: versions,
	}
}

// CreateFolder creates a folder.
func (s *DocumentService) CreateFolder(ctx context.Context, name string) (*domain.Folder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty folder name", domain.ErrInvalidInput)
	}
	folder := &domain.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.docStore.SaveFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("creating folder: %w", err)
	}
	return folder, nil
}

// Create creates an empty document in a folder. The document has no version
// until Upload.
func (s *DocumentService) Create(ctx context.Context, folderID, title, lang string) (*domain.Document, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: empty document title", domain.ErrInvalidInput)
	}
	if _, err := s.docStore.GetFolder(ctx, folderID); err != nil {
		return nil, fmt.Errorf("loading folder %s: %w", folderID, err)
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		FolderID:  folderID,
		Title:     title,
		Lang:      lang,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return doc, nil
}

// Upload stores the document's first payload and creates version 1 with one
// placeholder page per payload page. Page text stays empty until extraction
// hands it over via SetPageText.
func (s *DocumentService) Upload(ctx context.Context, documentID string, payload []byte) (*domain.DocumentVersion, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", documentID, err)
	}
	if _, err := s.docStore.CurrentVersion(ctx, documentID); err == nil {
		return nil, fmt.Errorf("%w: document %s already has a version", domain.ErrInvalidInput, documentID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("checking current version of document %s: %w", documentID, err)
	}

	count, err := s.codec.PageCount(payload)
	if err != nil {
		return nil, fmt.Errorf("counting payload pages: %w", err)
	}

	logger.Debug("upload: document %s, %d page(s)", documentID, count)

	version, err := s.versions.Bump(ctx, doc, nil, count)
	if err != nil {
		return nil, err
	}
	if err := s.blobs.Write(ctx, version.PayloadPath, payload); err != nil {
		return nil, fmt.Errorf("writing payload %s: %w", version.PayloadPath, err)
	}
	if err := s.docStore.SetCurrentVersion(ctx, documentID, version.ID, ""); err != nil {
		return nil, fmt.Errorf("committing version 1 of document %s: %w", documentID, err)
	}
	version.IsCurrent = true
	return version, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// ListByFolder returns documents in a folder.
func (s *DocumentService) ListByFolder(ctx context.Context, folderID string) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx, folderID)
}

// CurrentVersion returns the document's current version.
func (s *DocumentService) CurrentVersion(ctx context.Context, documentID string) (*domain.DocumentVersion, error) {
	return s.docStore.CurrentVersion(ctx, documentID)
}

// ListVersions returns the document's full version history, oldest first.
func (s *DocumentService) ListVersions(ctx context.Context, documentID string) ([]domain.DocumentVersion, error) {
	return s.docStore.ListVersions(ctx, documentID)
}

// ListPages returns the pages of the document's current version, ordered by
// page number.
func (s *DocumentService) ListPages(ctx context.Context, documentID string) ([]domain.Page, error) {
	version, err := s.docStore.CurrentVersion(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("loading current version of document %s: %w", documentID, err)
	}
	return s.docStore.ListPages(ctx, version.ID)
}

// SetPageText stores extracted text for a page of the current version and
// refreshes the version's aggregate text.
func (s *DocumentService) SetPageText(ctx context.Context, pageID, text string) error {
	page, err := s.docStore.GetPage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("loading page %s: %w", pageID, err)
	}
	version, err := s.docStore.GetVersion(ctx, page.VersionID)
	if err != nil {
		return fmt.Errorf("loading version %s: %w", page.VersionID, err)
	}
	if !version.IsCurrent {
		return fmt.Errorf("writing text to version %d of document %s: %w",
			version.Number, version.DocumentID, domain.ErrArchivedEdit)
	}

	pages, err := s.docStore.ListPages(ctx, version.ID)
	if err != nil {
		return fmt.Errorf("listing pages of version %s: %w", version.ID, err)
	}

	pageTexts := make(map[int]string, len(pages))
	ordered := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.ID == pageID {
			p.Text = text
		}
		pageTexts[p.Number] = p.Text
		ordered = append(ordered, p.Text)
	}

	if err := s.docStore.UpdateVersionText(ctx, version.ID, pageTexts, joinPageTexts(ordered)); err != nil {
		return fmt.Errorf("updating text of version %s: %w", version.ID, err)
	}
	return nil
}
