package domain

import (
	"fmt"
	"sort"
)

// PageAssign is a single position pair within a PageMap.
type PageAssign struct {
	// New is the 1-based page number in the new version.
	New int

	// Old is the 1-based page number in the old version, or 0 when the
	// position has no counterpart there (freshly inserted pages).
	Old int
}

// PageMap is the ordered position correspondence between an old and a new
// version of a document. It covers every page of the new version exactly
// once, in ascending new-position order, and is the single input driving
// side-data replication.
type PageMap []PageAssign

// PageOrder assigns a page's old position to its new one. A reorder request
// must contain one PageOrder per page of the version.
type PageOrder struct {
	OldNumber int
	NewNumber int
}

// DeleteMap builds the page map for deleting the given 1-based positions
// from a version with totalPages pages. Survivors keep their ascending
// original order and are renumbered consecutively from 1, so the result is
// a monotone, gap-free compaction.
func DeleteMap(totalPages int, deleted []int) (PageMap, error) {
	if totalPages < 1 {
		return nil, fmt.Errorf("%w: total pages must be at least 1, got %d", ErrInvalidInput, totalPages)
	}
	if len(deleted) == 0 {
		return nil, fmt.Errorf("%w: empty page selection", ErrInvalidInput)
	}

	gone := make(map[int]bool, len(deleted))
	for _, n := range deleted {
		if n < 1 || n > totalPages {
			return nil, fmt.Errorf("%w: page %d out of range 1..%d", ErrInvalidInput, n, totalPages)
		}
		if gone[n] {
			return nil, fmt.Errorf("%w: page %d selected twice", ErrInvalidInput, n)
		}
		gone[n] = true
	}

	if len(gone) >= totalPages {
		return nil, ErrLastPage
	}

	m := make(PageMap, 0, totalPages-len(gone))
	next := 1
	for old := 1; old <= totalPages; old++ {
		if gone[old] {
			continue
		}
		m = append(m, PageAssign{New: next, Old: old})
		next++
	}
	return m, nil
}

// ReorderMap builds the page map for a full reordering of a version with
// totalPages pages. The orders must assign every old position 1..totalPages
// to a distinct new position 1..totalPages; anything short of a permutation
// is rejected rather than clamped.
func ReorderMap(orders []PageOrder, totalPages int) (PageMap, error) {
	if totalPages < 1 {
		return nil, fmt.Errorf("%w: total pages must be at least 1, got %d", ErrInvalidInput, totalPages)
	}
	if len(orders) != totalPages {
		return nil, fmt.Errorf("%w: got %d assignments for %d pages", ErrInvalidInput, len(orders), totalPages)
	}

	seenOld := make(map[int]bool, totalPages)
	seenNew := make(map[int]bool, totalPages)
	m := make(PageMap, totalPages)
	for _, o := range orders {
		if o.OldNumber < 1 || o.OldNumber > totalPages {
			return nil, fmt.Errorf("%w: old number %d out of range 1..%d", ErrInvalidInput, o.OldNumber, totalPages)
		}
		if o.NewNumber < 1 || o.NewNumber > totalPages {
			return nil, fmt.Errorf("%w: new number %d out of range 1..%d", ErrInvalidInput, o.NewNumber, totalPages)
		}
		if seenOld[o.OldNumber] {
			return nil, fmt.Errorf("%w: old number %d assigned twice", ErrInvalidInput, o.OldNumber)
		}
		if seenNew[o.NewNumber] {
			return nil, fmt.Errorf("%w: new number %d assigned twice", ErrInvalidInput, o.NewNumber)
		}
		seenOld[o.OldNumber] = true
		seenNew[o.NewNumber] = true
		m[o.NewNumber-1] = PageAssign{New: o.NewNumber, Old: o.OldNumber}
	}
	return m, nil
}

// IdentityMap builds the page map for edits that change neither page count
// nor order, such as rotation.
func IdentityMap(totalPages int) PageMap {
	m := make(PageMap, totalPages)
	for i := range m {
		m[i] = PageAssign{New: i + 1, Old: i + 1}
	}
	return m
}

// InsertMap builds the destination-side page map for inserting insertedCount
// pages immediately after the given position (0 = before the first page)
// into a version that previously had destTotalBefore pages. Positions up to
// the insertion point keep identity, the inserted range carries Old == 0 as
// it has no counterpart in the destination's prior version, and the
// remainder shifts by insertedCount.
func InsertMap(position, insertedCount, destTotalBefore int) (PageMap, error) {
	if destTotalBefore < 1 {
		return nil, fmt.Errorf("%w: destination must have at least 1 page, got %d", ErrInvalidInput, destTotalBefore)
	}
	if insertedCount < 1 {
		return nil, fmt.Errorf("%w: inserted count must be at least 1, got %d", ErrInvalidInput, insertedCount)
	}
	if position < 0 || position > destTotalBefore {
		return nil, fmt.Errorf("%w: position %d out of range 0..%d", ErrInvalidInput, position, destTotalBefore)
	}

	m := make(PageMap, 0, destTotalBefore+insertedCount)
	for n := 1; n <= position; n++ {
		m = append(m, PageAssign{New: n, Old: n})
	}
	for i := 0; i < insertedCount; i++ {
		m = append(m, PageAssign{New: position + 1 + i, Old: 0})
	}
	for old := position + 1; old <= destTotalBefore; old++ {
		m = append(m, PageAssign{New: old + insertedCount, Old: old})
	}
	return m, nil
}

// OldNumbers returns the old page numbers in ascending new-position order.
// Positions without an old counterpart are skipped.
func (m PageMap) OldNumbers() []int {
	nums := make([]int, 0, len(m))
	for _, a := range m {
		if a.Old == 0 {
			continue
		}
		nums = append(nums, a.Old)
	}
	return nums
}

// Inverted returns the map with the roles of old and new positions swapped,
// ordered by the (new) new position. Only meaningful for bijective maps;
// entries without an old counterpart are dropped.
func (m PageMap) Inverted() PageMap {
	inv := make(PageMap, 0, len(m))
	for _, a := range m {
		if a.Old == 0 {
			continue
		}
		inv = append(inv, PageAssign{New: a.Old, Old: a.New})
	}
	sort.Slice(inv, func(i, j int) bool { return inv[i].New < inv[j].New })
	return inv
}
