package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagevault/internal/core/domain"
	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
	"github.com/custodia-labs/pagevault/internal/core/ports/driving"
	"github.com/custodia-labs/pagevault/internal/logger"
)

// Ensure PageService implements the interface.
var _ driving.PageMutator = (*PageService)(nil)

// PageService orchestrates structural page edits. Each operation runs
// Validate → Bump → Edit Binary → Replicate Side Data → Commit; the page
// map is built during validation, before any write, so malformed requests
// fail with zero side effects. Failures after writes started propagate to
// the caller and leave any new rows or payloads orphaned - there is no
// rollback.
type PageService struct {
	docStore   driven.DocumentStore
	versions   *VersionManager
	editor     *PageEditor
	replicator *Replicator
}

// NewPageService creates a new page mutation service.
func NewPageService(
	docStore driven.DocumentStore,
	versions *VersionManager,
	editor *PageEditor,
	replicator *Replicator,
) *PageService {
	return &PageService{
		docStore:   docStore,
		versions:   versions,
		editor:     editor,
		replicator: replicator,
	}
}

// Delete removes the given pages from their document's current version.
func (s *PageService) Delete(ctx context.Context, pageIDs []string) (*domain.DocumentVersion, error) {
	pages, oldVersion, doc, err := s.loadSelection(ctx, pageIDs)
	if err != nil {
		return nil, err
	}
	numbers := pageNumbers(pages)

	pageMap, err := domain.DeleteMap(oldVersion.PageCount, numbers)
	if err != nil {
		return nil, err
	}

	logger.Debug("delete: %d page(s) from document %s (version %d)", len(pages), doc.ID, oldVersion.Number)

	newVersion, err := s.versions.Bump(ctx, doc, oldVersion, oldVersion.PageCount-len(pages))
	if err != nil {
		return nil, err
	}
	if err := s.editor.Remove(ctx, oldVersion.PayloadPath, newVersion.PayloadPath, numbers); err != nil {
		return nil, err
	}
	if err := s.replicator.CopyArtifacts(ctx, oldVersion, newVersion, pageMap); err != nil {
		return nil, err
	}
	if err := s.replicator.ReplicateText(ctx, oldVersion, newVersion, pageMap); err != nil {
		return nil, err
	}
	return s.commit(ctx, doc.ID, newVersion, oldVersion.ID)
}

// Reorder rearranges all pages of a document's current version.
func (s *PageService) Reorder(ctx context.Context, orders []driving.PageReorder) (*domain.DocumentVersion, error) {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.PageID
	}
	pages, oldVersion, doc, err := s.loadSelection(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := pagesByID(pages)
	domainOrders := make([]domain.PageOrder, len(orders))
	for i, o := range orders {
		p := byID[o.PageID]
		if p.Number != o.OldNumber {
			return nil, fmt.Errorf("%w: page %s is at position %d, not %d",
				domain.ErrInvalidInput, o.PageID, p.Number, o.OldNumber)
		}
		domainOrders[i] = domain.PageOrder{OldNumber: o.OldNumber, NewNumber: o.NewNumber}
	}

	pageMap, err := domain.ReorderMap(domainOrders, oldVersion.PageCount)
	if err != nil {
		return nil, err
	}

	logger.Debug("reorder: %d page(s) of document %s (version %d)", len(orders), doc.ID, oldVersion.Number)

	newVersion, err := s.versions.Bump(ctx, doc, oldVersion, oldVersion.PageCount)
	if err != nil {
		return nil, err
	}
	if err := s.editor.Reorder(ctx, oldVersion.PayloadPath, newVersion.PayloadPath, pageMap); err != nil {
		return nil, err
	}
	if err := s.replicator.ReplicateText(ctx, oldVersion, newVersion, pageMap); err != nil {
		return nil, err
	}
	return s.commit(ctx, doc.ID, newVersion, oldVersion.ID)
}

// Rotate turns the given pages by their angles. Text is preserved verbatim;
// rendering artifacts are not carried over (see
// Replicator.ReuseArtifactsAfterRotate) and regenerate lazily.
func (s *PageService) Rotate(ctx context.Context, rotations []driving.PageRotation) (*domain.DocumentVersion, error) {
	ids := make([]string, len(rotations))
	for i, r := range rotations {
		ids[i] = r.PageID
	}
	pages, oldVersion, doc, err := s.loadSelection(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := pagesByID(pages)
	angles := make(map[int]int, len(rotations))
	for _, r := range rotations {
		if r.Angle == 0 || r.Angle%90 != 0 {
			return nil, fmt.Errorf("%w: angle must be a non-zero multiple of 90, got %d",
				domain.ErrInvalidInput, r.Angle)
		}
		angles[byID[r.PageID].Number] = r.Angle
	}

	pageMap := domain.IdentityMap(oldVersion.PageCount)

	logger.Debug("rotate: %d page(s) of document %s (version %d)", len(rotations), doc.ID, oldVersion.Number)

	newVersion, err := s.versions.Bump(ctx, doc, oldVersion, oldVersion.PageCount)
	if err != nil {
		return nil, err
	}
	if err := s.editor.Rotate(ctx, oldVersion.PayloadPath, newVersion.PayloadPath, angles); err != nil {
		return nil, err
	}
	if err := s.replicator.ReplicateText(ctx, oldVersion, newVersion, pageMap); err != nil {
		return nil, err
	}
	return s.commit(ctx, doc.ID, newVersion, oldVersion.ID)
}

// MoveToFolder extracts the given pages into newly created document(s) in
// the destination folder. The source document's delete flow commits first;
// the destination documents are created and committed one by one afterwards
// with no atomicity across the two steps.
func (s *PageService) MoveToFolder(
	ctx context.Context,
	pageIDs []string,
	folderID string,
	singlePage bool,
) ([]domain.Document, error) {
	pages, srcOldVersion, srcDoc, err := s.loadSelection(ctx, pageIDs)
	if err != nil {
		return nil, err
	}
	folder, err := s.docStore.GetFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("loading folder %s: %w", folderID, err)
	}

	if err := s.deleteFromSource(ctx, srcDoc, srcOldVersion, pages); err != nil {
		return nil, err
	}

	logger.Debug("move-to-folder: %d page(s) from document %s to folder %s (single-page=%t)",
		len(pages), srcDoc.ID, folder.ID, singlePage)

	if !singlePage {
		doc, err := s.createExtracted(ctx, folder, srcOldVersion, pages, "extracted.pdf")
		if err != nil {
			return nil, err
		}
		return []domain.Document{*doc}, nil
	}

	docs := make([]domain.Document, 0, len(pages))
	for _, p := range pages {
		title := fmt.Sprintf("extracted-p%d.pdf", p.Number)
		doc, err := s.createExtracted(ctx, folder, srcOldVersion, []domain.Page{p}, title)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// MoveToDocument moves the given pages into the destination document,
// immediately after its position-th page. Source and destination commit
// independently, source first; an interruption in between leaves the pages
// removed from the source but not yet present in the destination.
func (s *PageService) MoveToDocument(
	ctx context.Context,
	pageIDs []string,
	documentID string,
	position int,
) (*domain.DocumentVersion, error) {
	pages, srcOldVersion, srcDoc, err := s.loadSelection(ctx, pageIDs)
	if err != nil {
		return nil, err
	}
	if documentID == srcDoc.ID {
		return nil, fmt.Errorf("%w: destination document equals source", domain.ErrInvalidInput)
	}
	dstDoc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", documentID, err)
	}
	dstOldVersion, err := s.docStore.CurrentVersion(ctx, dstDoc.ID)
	if err != nil {
		return nil, fmt.Errorf("loading current version of document %s: %w", dstDoc.ID, err)
	}

	numbers := pageNumbers(pages)

	// Validate both sides before writing anything.
	dstPageMap, err := domain.InsertMap(position, len(pages), dstOldVersion.PageCount)
	if err != nil {
		return nil, err
	}
	if err := s.deleteFromSource(ctx, srcDoc, srcOldVersion, pages); err != nil {
		return nil, err
	}

	logger.Debug("move-to-document: %d page(s) from document %s to document %s at position %d",
		len(pages), srcDoc.ID, dstDoc.ID, position)

	dstNewVersion, err := s.versions.Bump(ctx, dstDoc, dstOldVersion, dstOldVersion.PageCount+len(pages))
	if err != nil {
		return nil, err
	}
	if err := s.editor.Insert(ctx,
		srcOldVersion.PayloadPath, dstOldVersion.PayloadPath, dstNewVersion.PayloadPath,
		numbers, position); err != nil {
		return nil, err
	}

	// Destination artifacts come from two origins: untouched and shifted
	// ranges from the destination's old version, the inserted range from
	// the source's old version.
	if err := s.replicator.CopyArtifacts(ctx, dstOldVersion, dstNewVersion, dstPageMap); err != nil {
		return nil, err
	}
	movedMap := make(domain.PageMap, len(numbers))
	for i, old := range numbers {
		movedMap[i] = domain.PageAssign{New: position + 1 + i, Old: old}
	}
	if err := s.replicator.CopyArtifacts(ctx, srcOldVersion, dstNewVersion, movedMap); err != nil {
		return nil, err
	}
	if err := s.replicator.ReplicateTextAcrossDocuments(ctx,
		srcOldVersion, dstOldVersion, dstNewVersion, position, numbers); err != nil {
		return nil, err
	}
	return s.commit(ctx, dstDoc.ID, dstNewVersion, dstOldVersion.ID)
}

// deleteFromSource runs the delete flow on the source document, including
// its commit. The page map is validated before any write.
func (s *PageService) deleteFromSource(
	ctx context.Context,
	srcDoc *domain.Document,
	srcOldVersion *domain.DocumentVersion,
	pages []domain.Page,
) error {
	numbers := pageNumbers(pages)
	pageMap, err := domain.DeleteMap(srcOldVersion.PageCount, numbers)
	if err != nil {
		return err
	}

	srcNewVersion, err := s.versions.Bump(ctx, srcDoc, srcOldVersion, srcOldVersion.PageCount-len(pages))
	if err != nil {
		return err
	}
	if err := s.editor.Remove(ctx, srcOldVersion.PayloadPath, srcNewVersion.PayloadPath, numbers); err != nil {
		return err
	}
	if err := s.replicator.CopyArtifacts(ctx, srcOldVersion, srcNewVersion, pageMap); err != nil {
		return err
	}
	if err := s.replicator.ReplicateText(ctx, srcOldVersion, srcNewVersion, pageMap); err != nil {
		return err
	}
	if _, err := s.commit(ctx, srcDoc.ID, srcNewVersion, srcOldVersion.ID); err != nil {
		return err
	}
	return nil
}

// createExtracted creates a document in folder seeded with the given moved
// pages (ascending source order), builds its payload from the source's old
// payload, replicates artifacts and text 1:1 and commits version 1.
func (s *PageService) createExtracted(
	ctx context.Context,
	folder *domain.Folder,
	srcOldVersion *domain.DocumentVersion,
	moved []domain.Page,
	title string,
) (*domain.Document, error) {
	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		FolderID:  folder.ID,
		Title:     title,
		Lang:      moved[0].Lang,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating document %s: %w", doc.ID, err)
	}

	version, err := s.versions.BumpFromPages(ctx, doc, nil, moved)
	if err != nil {
		return nil, err
	}

	numbers := pageNumbers(moved)
	if err := s.editor.Extract(ctx, srcOldVersion.PayloadPath, version.PayloadPath, numbers); err != nil {
		return nil, err
	}

	pageMap := make(domain.PageMap, len(numbers))
	for i, old := range numbers {
		pageMap[i] = domain.PageAssign{New: i + 1, Old: old}
	}
	if err := s.replicator.CopyArtifacts(ctx, srcOldVersion, version, pageMap); err != nil {
		return nil, err
	}
	if err := s.replicator.ReplicateText(ctx, srcOldVersion, version, pageMap); err != nil {
		return nil, err
	}
	if _, err := s.commit(ctx, doc.ID, version, ""); err != nil {
		return nil, err
	}
	return doc, nil
}

// loadSelection loads the targeted pages and checks the shared edit
// preconditions: a non-empty selection, every page found, all pages on one
// version, and that version current. Pages come back in ascending page
// number order.
func (s *PageService) loadSelection(
	ctx context.Context,
	pageIDs []string,
) ([]domain.Page, *domain.DocumentVersion, *domain.Document, error) {
	if len(pageIDs) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: empty page selection", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(pageIDs))
	for _, id := range pageIDs {
		if seen[id] {
			return nil, nil, nil, fmt.Errorf("%w: page %s selected twice", domain.ErrInvalidInput, id)
		}
		seen[id] = true
	}

	pages, err := s.docStore.GetPages(ctx, pageIDs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading pages: %w", err)
	}
	for _, p := range pages[1:] {
		if p.VersionID != pages[0].VersionID {
			return nil, nil, nil, fmt.Errorf("%w: pages span multiple versions", domain.ErrInvalidInput)
		}
	}

	version, err := s.docStore.GetVersion(ctx, pages[0].VersionID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading version %s: %w", pages[0].VersionID, err)
	}
	if !version.IsCurrent {
		return nil, nil, nil, fmt.Errorf("editing version %d of document %s: %w",
			version.Number, version.DocumentID, domain.ErrArchivedEdit)
	}

	doc, err := s.docStore.GetDocument(ctx, version.DocumentID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading document %s: %w", version.DocumentID, err)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })
	return pages, version, doc, nil
}

// commit flips the document's current pointer to the new version. This is
// the terminal state of every flow; a conflict here means another edit won
// the race and nothing of this operation becomes visible.
func (s *PageService) commit(
	ctx context.Context,
	documentID string,
	newVersion *domain.DocumentVersion,
	expectedCurrentID string,
) (*domain.DocumentVersion, error) {
	if err := s.docStore.SetCurrentVersion(ctx, documentID, newVersion.ID, expectedCurrentID); err != nil {
		return nil, fmt.Errorf("committing version %d of document %s: %w", newVersion.Number, documentID, err)
	}
	newVersion.IsCurrent = true
	return newVersion, nil
}

func pageNumbers(pages []domain.Page) []int {
	numbers := make([]int, len(pages))
	for i, p := range pages {
		numbers[i] = p.Number
	}
	return numbers
}

func pagesByID(pages []domain.Page) map[string]domain.Page {
	byID := make(map[string]domain.Page, len(pages))
	for _, p := range pages {
		byID[p.ID] = p
	}
	return byID
}
