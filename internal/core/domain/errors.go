package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors, which are wrapped and
// propagated as-is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, e.g. an empty
	// page selection or a reorder assignment that is not a permutation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrArchivedEdit indicates a targeted page belongs to an archived
	// version. Only pages of the current version may be edited.
	ErrArchivedEdit = errors.New("page belongs to an archived version")

	// ErrLastPage indicates an edit would reduce a version's page count
	// below one.
	ErrLastPage = errors.New("document version must keep at least one page")

	// ErrVersionConflict indicates the document's current version changed
	// between validation and commit. The caller lost the optimistic
	// concurrency check and should retry against the new current version.
	ErrVersionConflict = errors.New("document current version changed")
)
