// Package domain defines the core business entities for Pagevault.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Folder: A container for documents
//   - Document: A container owning an ordered history of versions
//   - DocumentVersion: An immutable snapshot of pages and binary payload
//   - Page: A single page of a specific version
//   - PageMap: Position correspondence between two versions
//
// It also holds the pure page-map builders (delete, reorder, identity,
// insert) and the blob-storage path layout, both of which every structural
// page edit depends on.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
