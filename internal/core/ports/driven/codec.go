package driven

// PageCodec applies structural transforms to a page-addressable binary
// payload. All operations are pure: the input payload is never modified
// and a new payload is returned. Page positions are 1-based.
type PageCodec interface {
	// PageCount returns the number of pages in the payload.
	PageCount(payload []byte) (int, error)

	// RemovePages strips the given pages, preserving survivor order.
	RemovePages(payload []byte, positions []int) ([]byte, error)

	// CollectPages builds a new payload from the source pages at the given
	// positions, in the given order. Serves both reordering (a permutation
	// of all positions) and extraction (a subset).
	CollectPages(payload []byte, positions []int) ([]byte, error)

	// RotatePages rotates each listed page by the given angle in degrees,
	// relative to its current orientation. Angles must be multiples of 90.
	// Page count and order are unchanged.
	RotatePages(payload []byte, angles map[int]int) ([]byte, error)

	// InsertPages inserts the named source pages, in the given order,
	// immediately after destination position insertAt (0 = before the
	// first page).
	InsertPages(dst, src []byte, srcPositions []int, insertAt int) ([]byte, error)
}
