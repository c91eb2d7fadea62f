package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pagevault/internal/core/domain"
	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
)

// PageEditor applies structural transforms to version payloads. Each
// operation reads the old version's payload from blob storage, runs the
// codec and writes the result to the new version's location. The source
// payload is never touched; archived versions stay byte-identical forever.
type PageEditor struct {
	blobs driven.BlobStore
	codec driven.PageCodec
}

// NewPageEditor creates a new page editor.
func NewPageEditor(blobs driven.BlobStore, codec driven.PageCodec) *PageEditor {
	return &PageEditor{blobs: blobs, codec: codec}
}

// PageCount returns the number of pages in the payload stored at path.
func (e *PageEditor) PageCount(ctx context.Context, path string) (int, error) {
	payload, err := e.blobs.Read(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("reading payload %s: %w", path, err)
	}
	count, err := e.codec.PageCount(payload)
	if err != nil {
		return 0, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	return count, nil
}

// Remove writes a copy of the old payload with the given 1-based pages
// stripped, survivor order preserved.
func (e *PageEditor) Remove(ctx context.Context, oldPath, newPath string, positions []int) error {
	payload, err := e.blobs.Read(ctx, oldPath)
	if err != nil {
		return fmt.Errorf("reading payload %s: %w", oldPath, err)
	}
	out, err := e.codec.RemovePages(payload, positions)
	if err != nil {
		return fmt.Errorf("removing pages: %w", err)
	}
	if err := e.blobs.Write(ctx, newPath, out); err != nil {
		return fmt.Errorf("writing payload %s: %w", newPath, err)
	}
	return nil
}

// Reorder writes a new payload whose pages follow the page map: for each
// new position in ascending order, the source page at the mapped old
// position.
func (e *PageEditor) Reorder(ctx context.Context, oldPath, newPath string, m domain.PageMap) error {
	payload, err := e.blobs.Read(ctx, oldPath)
	if err != nil {
		return fmt.Errorf("reading payload %s: %w", oldPath, err)
	}
	out, err := e.codec.CollectPages(payload, m.OldNumbers())
	if err != nil {
		return fmt.Errorf("reordering pages: %w", err)
	}
	if err := e.blobs.Write(ctx, newPath, out); err != nil {
		return fmt.Errorf("writing payload %s: %w", newPath, err)
	}
	return nil
}

// Extract writes a new payload holding only the given source pages, in the
// given order. Used when moved pages become a document of their own.
func (e *PageEditor) Extract(ctx context.Context, oldPath, newPath string, positions []int) error {
	payload, err := e.blobs.Read(ctx, oldPath)
	if err != nil {
		return fmt.Errorf("reading payload %s: %w", oldPath, err)
	}
	out, err := e.codec.CollectPages(payload, positions)
	if err != nil {
		return fmt.Errorf("extracting pages: %w", err)
	}
	if err := e.blobs.Write(ctx, newPath, out); err != nil {
		return fmt.Errorf("writing payload %s: %w", newPath, err)
	}
	return nil
}

// Rotate writes a copy of the old payload with the listed pages turned by
// their angles, relative to current orientation. Page count and order are
// unchanged.
func (e *PageEditor) Rotate(ctx context.Context, oldPath, newPath string, angles map[int]int) error {
	payload, err := e.blobs.Read(ctx, oldPath)
	if err != nil {
		return fmt.Errorf("reading payload %s: %w", oldPath, err)
	}
	out, err := e.codec.RotatePages(payload, angles)
	if err != nil {
		return fmt.Errorf("rotating pages: %w", err)
	}
	if err := e.blobs.Write(ctx, newPath, out); err != nil {
		return fmt.Errorf("writing payload %s: %w", newPath, err)
	}
	return nil
}

// Insert writes the destination's new payload with the named source pages,
// in the given order, inserted immediately after destination position
// insertAt (0 = before the first page).
func (e *PageEditor) Insert(
	ctx context.Context,
	srcPath, dstOldPath, dstNewPath string,
	srcPositions []int,
	insertAt int,
) error {
	src, err := e.blobs.Read(ctx, srcPath)
	if err != nil {
		return fmt.Errorf("reading payload %s: %w", srcPath, err)
	}
	dst, err := e.blobs.Read(ctx, dstOldPath)
	if err != nil {
		return fmt.Errorf("reading payload %s: %w", dstOldPath, err)
	}
	out, err := e.codec.InsertPages(dst, src, srcPositions, insertAt)
	if err != nil {
		return fmt.Errorf("inserting pages: %w", err)
	}
	if err := e.blobs.Write(ctx, dstNewPath, out); err != nil {
		return fmt.Errorf("writing payload %s: %w", dstNewPath, err)
	}
	return nil
}
