package driving

import (
	"context"

	"github.com/custodia-labs/pagevault/internal/core/domain"
)

// PageMutator performs structural page edits. Every operation creates a new
// immutable version of the affected document(s) and flips the current
// pointer as its final step; archived versions are never touched.
//
// Operations run synchronously to completion. Concurrent edits on the same
// document are resolved by an optimistic check at commit: the loser gets
// domain.ErrVersionConflict and no pointer flip. Any rows or payloads a
// failed operation wrote before its commit are left orphaned, never rolled
// back.
type PageMutator interface {
	// Delete removes the given pages, all of which must belong to the
	// current version of one document. The surviving pages are renumbered
	// consecutively and keep their text and artifacts. Returns the new
	// current version.
	Delete(ctx context.Context, pageIDs []string) (*domain.DocumentVersion, error)

	// Reorder rearranges all pages of a document's current version. The
	// orders must form a permutation of 1..page count. Returns the new
	// current version.
	Reorder(ctx context.Context, orders []PageReorder) (*domain.DocumentVersion, error)

	// Rotate turns the given pages by their angles (multiples of 90
	// degrees, relative to current orientation). Page count, order and
	// text are unchanged; rendering artifacts are regenerated lazily.
	// Returns the new current version.
	Rotate(ctx context.Context, rotations []PageRotation) (*domain.DocumentVersion, error)

	// MoveToFolder extracts the given pages out of their document and into
	// newly created document(s) in the destination folder: one document
	// holding all pages in original relative order, or one single-page
	// document per page when singlePage is set. Returns the created
	// documents.
	MoveToFolder(ctx context.Context, pageIDs []string, folderID string, singlePage bool) ([]domain.Document, error)

	// MoveToDocument moves the given pages out of their document and into
	// the destination document, immediately after the destination's
	// position-th page (0 = before the first page). Source and destination
	// each get a new version, committed independently in that order.
	// Returns the destination's new current version.
	MoveToDocument(ctx context.Context, pageIDs []string, documentID string, position int) (*domain.DocumentVersion, error)
}

// PageReorder assigns one page to its new position.
type PageReorder struct {
	// PageID identifies the page on the current version.
	PageID string

	// OldNumber is the page's current 1-based position.
	OldNumber int

	// NewNumber is the 1-based position the page moves to.
	NewNumber int
}

// PageRotation rotates one page.
type PageRotation struct {
	// PageID identifies the page on the current version.
	PageID string

	// Angle is the rotation in degrees, a non-zero multiple of 90.
	// Positive angles rotate clockwise.
	Angle int
}
