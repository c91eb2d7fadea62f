package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	blobmem "github.com/custodia-labs/pagevault/internal/adapters/driven/blob/memory"
	codecmem "github.com/custodia-labs/pagevault/internal/adapters/driven/codec/memory"
	storagemem "github.com/custodia-labs/pagevault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagevault/internal/core/domain"
)

// testEnv bundles in-memory adapters with the full service graph.
type testEnv struct {
	docStore   *storagemem.DocumentStore
	blobs      *blobmem.BlobStore
	codec      *codecmem.Codec
	versions   *VersionManager
	editor     *PageEditor
	replicator *Replicator
	pages      *PageService
	docs       *DocumentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		docStore: storagemem.NewDocumentStore(),
		blobs:    blobmem.NewBlobStore(),
		codec:    codecmem.New(),
	}
	env.versions = NewVersionManager(env.docStore)
	env.editor = NewPageEditor(env.blobs, env.codec)
	env.replicator = NewReplicator(env.docStore, env.blobs)
	env.pages = NewPageService(env.docStore, env.versions, env.editor, env.replicator)
	env.docs = NewDocumentService(env.docStore, env.blobs, env.codec, env.versions)
	return env
}

// seedDocument creates a committed one-version document whose pages carry
// the given texts, both in the metadata store and as an encoded payload.
// Page IDs are deterministic: <docID>-v1-p<N>.
func (env *testEnv) seedDocument(t *testing.T, docID, folderID string, texts []string) *domain.DocumentVersion {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, env.docStore.SaveFolder(ctx, &domain.Folder{ID: folderID, Name: folderID}))
	require.NoError(t, env.docStore.SaveDocument(ctx, &domain.Document{
		ID:       docID,
		FolderID: folderID,
		Title:    docID + ".pdf",
		Lang:     "eng",
	}))

	versionID := docID + "-v1"
	version := &domain.DocumentVersion{
		ID:          versionID,
		DocumentID:  docID,
		Number:      1,
		PageCount:   len(texts),
		PayloadPath: domain.PayloadPath(docID, 1),
	}
	pages := make([]domain.Page, len(texts))
	payload := make([]codecmem.Page, len(texts))
	for i, text := range texts {
		pages[i] = domain.Page{
			ID:        fmt.Sprintf("%s-p%d", versionID, i+1),
			VersionID: versionID,
			Number:    i + 1,
			Text:      text,
			Lang:      "eng",
		}
		payload[i] = codecmem.Page{Content: text}
	}
	require.NoError(t, env.docStore.CreateVersion(ctx, version, pages))
	require.NoError(t, env.blobs.Write(ctx, version.PayloadPath, codecmem.Encode(payload)))
	require.NoError(t, env.docStore.SetCurrentVersion(ctx, docID, versionID, ""))

	version.IsCurrent = true
	return version
}

// payloadPages decodes the payload stored for a version.
func (env *testEnv) payloadPages(t *testing.T, version *domain.DocumentVersion) []codecmem.Page {
	t.Helper()

	data, err := env.blobs.Read(context.Background(), version.PayloadPath)
	require.NoError(t, err)
	pages, err := codecmem.Decode(data)
	require.NoError(t, err)
	return pages
}

// payloadContents returns just the page contents of a version's payload.
func (env *testEnv) payloadContents(t *testing.T, version *domain.DocumentVersion) []string {
	t.Helper()

	pages := env.payloadPages(t, version)
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Content
	}
	return out
}

// storedTexts returns the page texts of a version as recorded in metadata,
// ordered by page number.
func (env *testEnv) storedTexts(t *testing.T, versionID string) []string {
	t.Helper()

	pages, err := env.docStore.ListPages(context.Background(), versionID)
	require.NoError(t, err)
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Text
	}
	return out
}
