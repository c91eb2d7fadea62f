package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	blobmem "github.com/custodia-labs/pagevault/internal/adapters/driven/blob/memory"
	codecmem "github.com/custodia-labs/pagevault/internal/adapters/driven/codec/memory"
	"github.com/custodia-labs/pagevault/internal/adapters/driven/config/file"
	storagemem "github.com/custodia-labs/pagevault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagevault/internal/core/domain"
	"github.com/custodia-labs/pagevault/internal/core/services"
)

// setupTestServices wires the commands to in-memory adapters seeded with one
// folder and one three-page document (pages p1..p3). Returns a cleanup that
// detaches the services again.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	ctx := context.Background()
	docStore := storagemem.NewDocumentStore()
	blobs := blobmem.NewBlobStore()
	codec := codecmem.New()

	require.NoError(t, docStore.SaveFolder(ctx, &domain.Folder{ID: "f1", Name: "inbox"}))
	require.NoError(t, docStore.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", FolderID: "f1", Title: "report.pdf", Lang: "eng",
	}))

	texts := []string{"page 1", "page 2", "page 3"}
	version := &domain.DocumentVersion{
		ID:          "v1",
		DocumentID:  "doc-1",
		Number:      1,
		PageCount:   len(texts),
		PayloadPath: domain.PayloadPath("doc-1", 1),
	}
	pages := make([]domain.Page, len(texts))
	payload := make([]codecmem.Page, len(texts))
	for i, text := range texts {
		pages[i] = domain.Page{
			ID:        "p" + string(rune('0'+i+1)),
			VersionID: "v1",
			Number:    i + 1,
			Text:      text,
			Lang:      "eng",
		}
		payload[i] = codecmem.Page{Content: text}
	}
	require.NoError(t, docStore.CreateVersion(ctx, version, pages))
	require.NoError(t, blobs.Write(ctx, version.PayloadPath, codecmem.Encode(payload)))
	require.NoError(t, docStore.SetCurrentVersion(ctx, "doc-1", "v1", ""))

	cfg, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	configStore = cfg

	versions := services.NewVersionManager(docStore)
	documentService = services.NewDocumentService(docStore, blobs, codec, versions)
	pageService = services.NewPageService(
		docStore,
		versions,
		services.NewPageEditor(blobs, codec),
		services.NewReplicator(docStore, blobs),
	)

	return func() {
		documentService = nil
		pageService = nil
		configStore = nil
	}
}
