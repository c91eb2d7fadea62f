package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pagevault/internal/core/domain"
	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
)

// Replicator carries per-page side data from an old version to a new one,
// driven by a page map. Two channels exist: rendering artifacts (blob
// copies) and extracted text (store writes).
type Replicator struct {
	docStore driven.DocumentStore
	blobs    driven.BlobStore
}

// NewReplicator creates a new side-data replicator.
func NewReplicator(docStore driven.DocumentStore, blobs driven.BlobStore) *Replicator {
	return &Replicator{docStore: docStore, blobs: blobs}
}

// CopyArtifacts copies each mapped page's rendering artifacts from the old
// version's slot to the new version's slot. Positions without an old
// counterpart are skipped; their artifacts are generated lazily on first
// access. The versions may belong to different documents.
func (r *Replicator) CopyArtifacts(
	ctx context.Context,
	oldVersion, newVersion *domain.DocumentVersion,
	m domain.PageMap,
) error {
	for _, a := range m {
		if a.Old == 0 {
			continue
		}
		src := domain.PagePath{
			DocumentID:    oldVersion.DocumentID,
			VersionNumber: oldVersion.Number,
			PageNumber:    a.Old,
		}
		dst := domain.PagePath{
			DocumentID:    newVersion.DocumentID,
			VersionNumber: newVersion.Number,
			PageNumber:    a.New,
		}
		if err := r.blobs.CopyPage(ctx, src, dst); err != nil {
			return fmt.Errorf("copying artifacts of page %d to page %d: %w", a.Old, a.New, err)
		}
	}
	return nil
}

// ReplicateText relocates page texts from the old version to the new one
// following the page map, and refreshes the new version's aggregate text:
// the per-page texts joined in new-position order with a single space.
// Positions without an old counterpart are skipped; inserted ranges use
// their own origin map. The versions may belong to different documents.
func (r *Replicator) ReplicateText(
	ctx context.Context,
	oldVersion, newVersion *domain.DocumentVersion,
	m domain.PageMap,
) error {
	oldPages, err := r.docStore.ListPages(ctx, oldVersion.ID)
	if err != nil {
		return fmt.Errorf("listing pages of version %s: %w", oldVersion.ID, err)
	}
	byNumber := make(map[int]string, len(oldPages))
	for _, p := range oldPages {
		byNumber[p.Number] = p.Text
	}

	pageTexts := make(map[int]string, len(m))
	ordered := make([]string, 0, len(m))
	for _, a := range m {
		if a.Old == 0 {
			continue
		}
		text := byNumber[a.Old]
		pageTexts[a.New] = text
		ordered = append(ordered, text)
	}

	if err := r.docStore.UpdateVersionText(ctx, newVersion.ID, pageTexts, joinPageTexts(ordered)); err != nil {
		return fmt.Errorf("updating text of version %s: %w", newVersion.ID, err)
	}
	return nil
}

// ReplicateTextAcrossDocuments fills the destination's new version from
// three contiguous sub-ranges: positions up to the insertion point keep the
// destination's old text, the inserted range takes the source's moved pages
// in order, and the remainder shifts from the destination's old version.
func (r *Replicator) ReplicateTextAcrossDocuments(
	ctx context.Context,
	srcOldVersion, dstOldVersion, dstNewVersion *domain.DocumentVersion,
	position int,
	movedOldNumbers []int,
) error {
	srcByNumber, err := r.pageTextsByNumber(ctx, srcOldVersion.ID)
	if err != nil {
		return err
	}
	dstByNumber, err := r.pageTextsByNumber(ctx, dstOldVersion.ID)
	if err != nil {
		return err
	}

	total := dstOldVersion.PageCount + len(movedOldNumbers)
	pageTexts := make(map[int]string, total)
	ordered := make([]string, 0, total)

	for n := 1; n <= position; n++ {
		pageTexts[n] = dstByNumber[n]
		ordered = append(ordered, dstByNumber[n])
	}
	for i, old := range movedOldNumbers {
		pageTexts[position+1+i] = srcByNumber[old]
		ordered = append(ordered, srcByNumber[old])
	}
	for old := position + 1; old <= dstOldVersion.PageCount; old++ {
		pageTexts[old+len(movedOldNumbers)] = dstByNumber[old]
		ordered = append(ordered, dstByNumber[old])
	}

	if err := r.docStore.UpdateVersionText(ctx, dstNewVersion.ID, pageTexts, joinPageTexts(ordered)); err != nil {
		return fmt.Errorf("updating text of version %s: %w", dstNewVersion.ID, err)
	}
	return nil
}

// ReuseArtifactsAfterRotate would carry rendering artifacts across a
// rotation. Whether rotated pages keep their artifacts verbatim or must be
// re-rendered is an unresolved question, so this reports not implemented
// instead of silently guessing; the rotate flow leaves artifacts to lazy
// regeneration.
func (r *Replicator) ReuseArtifactsAfterRotate(
	_ context.Context,
	_, _ *domain.DocumentVersion,
	_ domain.PageMap,
) error {
	return fmt.Errorf("reusing rendering artifacts after rotation: %w", domain.ErrNotImplemented)
}

func (r *Replicator) pageTextsByNumber(ctx context.Context, versionID string) (map[int]string, error) {
	pages, err := r.docStore.ListPages(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("listing pages of version %s: %w", versionID, err)
	}
	byNumber := make(map[int]string, len(pages))
	for _, p := range pages {
		byNumber[p.Number] = p.Text
	}
	return byNumber, nil
}

// joinPageTexts joins per-page texts with a single space, skipping pages
// that have no text yet.
func joinPageTexts(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " ")
}
