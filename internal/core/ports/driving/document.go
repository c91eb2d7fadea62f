package driving

import (
	"context"

	"github.com/custodia-labs/pagevault/internal/core/domain"
)

// DocumentService manages folders and the document lifecycle around the
// mutation engine: creation, first upload, lookup and text population.
type DocumentService interface {
	// CreateFolder creates a folder.
	CreateFolder(ctx context.Context, name string) (*domain.Folder, error)

	// Create creates an empty document in a folder. The document has no
	// version until Upload.
	Create(ctx context.Context, folderID, title, lang string) (*domain.Document, error)

	// Upload stores the document's first payload and creates version 1
	// with one placeholder page per payload page. Page text stays empty
	// until extraction hands it over via SetPageText.
	Upload(ctx context.Context, documentID string, payload []byte) (*domain.DocumentVersion, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// ListByFolder returns documents in a folder.
	ListByFolder(ctx context.Context, folderID string) ([]domain.Document, error)

	// CurrentVersion returns the document's current version.
	CurrentVersion(ctx context.Context, documentID string) (*domain.DocumentVersion, error)

	// ListVersions returns the document's full version history, oldest
	// first.
	ListVersions(ctx context.Context, documentID string) ([]domain.DocumentVersion, error)

	// ListPages returns the pages of the document's current version,
	// ordered by page number.
	ListPages(ctx context.Context, documentID string) ([]domain.Page, error)

	// SetPageText stores extracted text for a page of the current version
	// and refreshes the version's aggregate text.
	SetPageText(ctx context.Context, pageID, text string) error
}
