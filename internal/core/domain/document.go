package domain

import "time"

// Folder is a named container for documents. Move-to-folder places newly
// created documents inside a folder.
type Folder struct {
	// ID is the unique identifier for the folder.
	ID string

	// Name is the human-readable folder name.
	Name string

	// CreatedAt is when the folder was created.
	CreatedAt time.Time
}

// Document is a mutable container owning an ordered history of versions.
// The document row itself carries only identity and placement; all page
// content lives in versions.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// FolderID links to the folder containing this document.
	FolderID string

	// Title is the human-readable title, usually the original file name.
	Title string

	// Lang is the default language for text extraction, inherited by
	// placeholder pages on version bump.
	Lang string

	// CreatedAt is when the document was created.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// DocumentVersion is an immutable snapshot of a document's pages and binary
// payload. Exactly one version per document is current; all others are
// archived and read-only forever after.
type DocumentVersion struct {
	// ID is the unique identifier for the version.
	ID string

	// DocumentID links to the owning document.
	DocumentID string

	// Number is the monotonically increasing version number, starting at 1.
	Number int

	// PageCount is the number of pages in this version. Always >= 1.
	PageCount int

	// PayloadPath addresses the binary payload in blob storage.
	PayloadPath string

	// Text is the aggregate extracted text of all pages, joined in page
	// order with a single space.
	Text string

	// IsCurrent marks the only version eligible for further edits.
	IsCurrent bool

	// CreatedAt is when the version was created.
	CreatedAt time.Time
}

// Page belongs to exactly one version. Pages are created alongside their
// version and populated lazily with extracted text.
type Page struct {
	// ID is the unique identifier for the page.
	ID string

	// VersionID links to the owning version.
	VersionID string

	// Number is the 1-based position within the version, unique per
	// version and contiguous 1..PageCount.
	Number int

	// Text is the extracted text for this page, empty until extraction ran.
	Text string

	// Lang is the language the text was extracted in.
	Lang string
}
