package driven

import (
	"context"

	"github.com/custodia-labs/pagevault/internal/core/domain"
)

// DocumentStore persists folders, documents, versions and pages.
// Backed by SQLite for metadata storage.
//
// Version history is append-only: stores never expose a way to delete or
// rewrite an archived version's rows, only to supersede them via
// SetCurrentVersion.
type DocumentStore interface {
	// SaveFolder stores or updates a folder.
	SaveFolder(ctx context.Context, folder *domain.Folder) error

	// GetFolder retrieves a folder by ID.
	GetFolder(ctx context.Context, id string) (*domain.Folder, error)

	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns documents in a folder.
	ListDocuments(ctx context.Context, folderID string) ([]domain.Document, error)

	// CreateVersion stores a new version together with its pages.
	// The version is created non-current; SetCurrentVersion commits it.
	CreateVersion(ctx context.Context, version *domain.DocumentVersion, pages []domain.Page) error

	// GetVersion retrieves a version by ID.
	GetVersion(ctx context.Context, id string) (*domain.DocumentVersion, error)

	// CurrentVersion returns the document's current version.
	CurrentVersion(ctx context.Context, documentID string) (*domain.DocumentVersion, error)

	// ListVersions returns all versions of a document, oldest first.
	ListVersions(ctx context.Context, documentID string) ([]domain.DocumentVersion, error)

	// SetCurrentVersion flips the current pointer from expectedCurrentID to
	// versionID in a single transaction. expectedCurrentID is empty for a
	// document that has no version yet. Returns domain.ErrVersionConflict
	// if the document's current version is not the expected one.
	SetCurrentVersion(ctx context.Context, documentID, versionID, expectedCurrentID string) error

	// ListPages returns a version's pages ordered by page number.
	ListPages(ctx context.Context, versionID string) ([]domain.Page, error)

	// GetPage retrieves a page by ID.
	GetPage(ctx context.Context, id string) (*domain.Page, error)

	// GetPages retrieves several pages by ID. Returns domain.ErrNotFound
	// if any of them is missing.
	GetPages(ctx context.Context, ids []string) ([]domain.Page, error)

	// UpdateVersionText stores per-page texts (keyed by page number) and
	// the version's aggregate text in one transaction. Only the current
	// version of a document may be written to.
	UpdateVersionText(ctx context.Context, versionID string, pageTexts map[int]string, aggregate string) error
}
