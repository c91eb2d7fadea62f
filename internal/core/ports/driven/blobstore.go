package driven

import (
	"context"

	"github.com/custodia-labs/pagevault/internal/core/domain"
)

// BlobStore stores binary payloads and per-page rendering artifacts.
// Paths follow the layout in the domain package and are relative to the
// store root.
type BlobStore interface {
	// Read returns the bytes stored at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write stores data at path, creating parent locations as needed.
	// Writes are staged and become visible atomically: a failed write
	// never leaves a partial blob at path.
	Write(ctx context.Context, path string, data []byte) error

	// CopyPage copies one page's rendering artifacts from src to dst.
	// A missing source is not an error; artifacts are generated lazily
	// and a page may simply not have any yet.
	CopyPage(ctx context.Context, src, dst domain.PagePath) error
}
