package domain

import (
	"fmt"
	"path"
)

// Blob storage layout. Payloads and per-page artifacts live under separate
// roots so a version's sidecar data can be copied page by page without
// touching the payload:
//
//	docs/<document-id>/v<N>/pages.pdf
//	sidecars/<document-id>/v<N>/pages/<NNNNNN>/
//
// All paths are slash-separated and relative to the blob store root.

// PayloadPath returns the blob location of a version's binary payload.
func PayloadPath(documentID string, versionNumber int) string {
	return path.Join("docs", documentID, fmt.Sprintf("v%d", versionNumber), "pages.pdf")
}

// PagePath addresses the rendering artifacts of one page of one version.
type PagePath struct {
	DocumentID    string
	VersionNumber int
	PageNumber    int
}

// Dir returns the blob directory holding the page's rendering artifacts
// (preview images, OCR overlays and similar).
func (p PagePath) Dir() string {
	return path.Join(
		"sidecars",
		p.DocumentID,
		fmt.Sprintf("v%d", p.VersionNumber),
		"pages",
		fmt.Sprintf("%06d", p.PageNumber),
	)
}
