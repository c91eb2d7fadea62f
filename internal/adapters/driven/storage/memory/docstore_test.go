package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagevault/internal/core/domain"
)

func seedDocument(t *testing.T, store *DocumentStore, id string) *domain.Document {
	t.Helper()

	ctx := context.Background()
	folder := &domain.Folder{ID: "folder-" + id, Name: "inbox", CreatedAt: time.Now()}
	require.NoError(t, store.SaveFolder(ctx, folder))

	doc := &domain.Document{
		ID:       id,
		FolderID: folder.ID,
		Title:    id + ".pdf",
		Lang:     "eng",
	}
	require.NoError(t, store.SaveDocument(ctx, doc))
	return doc
}

func seedVersion(t *testing.T, store *DocumentStore, docID, versionID string, number int, texts []string) *domain.DocumentVersion {
	t.Helper()

	version := &domain.DocumentVersion{
		ID:          versionID,
		DocumentID:  docID,
		Number:      number,
		PageCount:   len(texts),
		PayloadPath: domain.PayloadPath(docID, number),
	}
	pages := make([]domain.Page, len(texts))
	for i, text := range texts {
		pages[i] = domain.Page{
			ID:        versionID + "-p" + string(rune('0'+i+1)),
			VersionID: versionID,
			Number:    i + 1,
			Text:      text,
			Lang:      "eng",
		}
	}
	require.NoError(t, store.CreateVersion(context.Background(), version, pages))
	return version
}

func TestDocumentStore_SaveGetFolder(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	folder := &domain.Folder{ID: "f1", Name: "inbox"}
	require.NoError(t, store.SaveFolder(ctx, folder))

	got, err := store.GetFolder(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "inbox", got.Name)

	_, err = store.GetFolder(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_ListDocuments(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveFolder(ctx, &domain.Folder{ID: "f1", Name: "inbox"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "d2", FolderID: "f1", Title: "b.pdf"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "d1", FolderID: "f1", Title: "a.pdf"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "d3", FolderID: "other", Title: "c.pdf"}))

	docs, err := store.ListDocuments(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.pdf", docs[0].Title)
	assert.Equal(t, "b.pdf", docs[1].Title)
}

func TestDocumentStore_CreateVersionStartsArchived(t *testing.T) {
	store := NewDocumentStore()
	seedDocument(t, store, "d1")
	seedVersion(t, store, "d1", "v1", 1, []string{"page 1"})

	got, err := store.GetVersion(context.Background(), "v1")
	require.NoError(t, err)
	assert.False(t, got.IsCurrent)

	_, err = store.CurrentVersion(context.Background(), "d1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_SetCurrentVersion(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	seedDocument(t, store, "d1")
	seedVersion(t, store, "d1", "v1", 1, []string{"page 1"})
	seedVersion(t, store, "d1", "v2", 2, []string{"page 1"})

	require.NoError(t, store.SetCurrentVersion(ctx, "d1", "v1", ""))

	current, err := store.CurrentVersion(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "v1", current.ID)
	assert.True(t, current.IsCurrent)

	require.NoError(t, store.SetCurrentVersion(ctx, "d1", "v2", "v1"))

	current, err = store.CurrentVersion(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "v2", current.ID)

	old, err := store.GetVersion(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, old.IsCurrent)
}

func TestDocumentStore_SetCurrentVersionConflict(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	seedDocument(t, store, "d1")
	seedVersion(t, store, "d1", "v1", 1, []string{"page 1"})
	seedVersion(t, store, "d1", "v2", 2, []string{"page 1"})
	seedVersion(t, store, "d1", "v3", 3, []string{"page 1"})

	require.NoError(t, store.SetCurrentVersion(ctx, "d1", "v1", ""))
	require.NoError(t, store.SetCurrentVersion(ctx, "d1", "v2", "v1"))

	// v1 is no longer current, so flipping away from it must fail.
	err := store.SetCurrentVersion(ctx, "d1", "v3", "v1")
	assert.True(t, errors.Is(err, domain.ErrVersionConflict))

	current, err := store.CurrentVersion(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "v2", current.ID)
}

func TestDocumentStore_SetCurrentVersionUnknownVersion(t *testing.T) {
	store := NewDocumentStore()
	seedDocument(t, store, "d1")

	err := store.SetCurrentVersion(context.Background(), "d1", "missing", "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_ListVersionsOldestFirst(t *testing.T) {
	store := NewDocumentStore()
	seedDocument(t, store, "d1")
	seedVersion(t, store, "d1", "v2", 2, []string{"a"})
	seedVersion(t, store, "d1", "v1", 1, []string{"a"})

	versions, err := store.ListVersions(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 1, versions[0].Number)
	assert.Equal(t, 2, versions[1].Number)
}

func TestDocumentStore_ListPagesOrdered(t *testing.T) {
	store := NewDocumentStore()
	seedDocument(t, store, "d1")
	seedVersion(t, store, "d1", "v1", 1, []string{"one", "two", "three"})

	pages, err := store.ListPages(context.Background(), "v1")
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{pages[0].Text, pages[1].Text, pages[2].Text})
}

func TestDocumentStore_GetPagesMissingID(t *testing.T) {
	store := NewDocumentStore()
	seedDocument(t, store, "d1")
	seedVersion(t, store, "d1", "v1", 1, []string{"one"})

	_, err := store.GetPages(context.Background(), []string{"v1-p1", "missing"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_UpdateVersionText(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	seedDocument(t, store, "d1")
	seedVersion(t, store, "d1", "v1", 1, []string{"", "", ""})

	err := store.UpdateVersionText(ctx, "v1", map[int]string{1: "fish", 3: "cat"}, "fish cat")
	require.NoError(t, err)

	pages, err := store.ListPages(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "fish", pages[0].Text)
	assert.Equal(t, "", pages[1].Text)
	assert.Equal(t, "cat", pages[2].Text)

	version, err := store.GetVersion(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "fish cat", version.Text)
}
