package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagevault/internal/core/domain"
	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
)

// VersionManager creates new immutable version records. It never mutates
// existing versions or their pages; a prior version is superseded only by
// the commit step (DocumentStore.SetCurrentVersion), which the orchestrator
// runs last.
type VersionManager struct {
	docStore driven.DocumentStore
}

// NewVersionManager creates a new version manager.
func NewVersionManager(docStore driven.DocumentStore) *VersionManager {
	return &VersionManager{docStore: docStore}
}

// Bump creates the next version of doc with pageCount placeholder pages
// numbered 1..pageCount, inheriting the document's language. current is the
// version being superseded, nil for a document that has none yet. The new
// version is stored not-yet-current.
func (m *VersionManager) Bump(
	ctx context.Context,
	doc *domain.Document,
	current *domain.DocumentVersion,
	pageCount int,
) (*domain.DocumentVersion, error) {
	if pageCount < 1 {
		// Dropping to zero pages only happens when an existing version is
		// being reduced; a first version with no pages is malformed input.
		if current == nil {
			return nil, fmt.Errorf("%w: version needs at least one page", domain.ErrInvalidInput)
		}
		return nil, domain.ErrLastPage
	}

	number := 1
	if current != nil {
		number = current.Number + 1
	}

	version := &domain.DocumentVersion{
		ID:          uuid.NewString(),
		DocumentID:  doc.ID,
		Number:      number,
		PageCount:   pageCount,
		PayloadPath: domain.PayloadPath(doc.ID, number),
		CreatedAt:   time.Now().UTC(),
	}

	pages := make([]domain.Page, pageCount)
	for i := range pages {
		pages[i] = domain.Page{
			ID:        uuid.NewString(),
			VersionID: version.ID,
			Number:    i + 1,
			Lang:      doc.Lang,
		}
	}

	if err := m.docStore.CreateVersion(ctx, version, pages); err != nil {
		return nil, fmt.Errorf("creating version %d of document %s: %w", number, doc.ID, err)
	}
	return version, nil
}

// BumpFromPages creates the next version of doc seeded, in the given order,
// from an existing page set: the new pages take numbers 1..len(seed) and
// inherit each seed page's language. Text is not copied here; the
// replicator relocates it with the appropriate page map. Used for document
// creation from extracted pages.
func (m *VersionManager) BumpFromPages(
	ctx context.Context,
	doc *domain.Document,
	current *domain.DocumentVersion,
	seed []domain.Page,
) (*domain.DocumentVersion, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: empty page set", domain.ErrInvalidInput)
	}

	number := 1
	if current != nil {
		number = current.Number + 1
	}

	version := &domain.DocumentVersion{
		ID:          uuid.NewString(),
		DocumentID:  doc.ID,
		Number:      number,
		PageCount:   len(seed),
		PayloadPath: domain.PayloadPath(doc.ID, number),
		CreatedAt:   time.Now().UTC(),
	}

	pages := make([]domain.Page, len(seed))
	for i, src := range seed {
		pages[i] = domain.Page{
			ID:        uuid.NewString(),
			VersionID: version.ID,
			Number:    i + 1,
			Lang:      src.Lang,
		}
	}

	if err := m.docStore.CreateVersion(ctx, version, pages); err != nil {
		return nil, fmt.Errorf("creating version %d of document %s: %w", number, doc.ID, err)
	}
	return version, nil
}
