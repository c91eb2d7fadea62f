package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteMap_Compaction(t *testing.T) {
	m, err := DeleteMap(5, []int{3})
	require.NoError(t, err)
	assert.Equal(t, PageMap{
		{New: 1, Old: 1},
		{New: 2, Old: 2},
		{New: 3, Old: 4},
		{New: 4, Old: 5},
	}, m)
}

func TestDeleteMap_MonotoneAndGapFree(t *testing.T) {
	m, err := DeleteMap(10, []int{1, 5, 6, 10})
	require.NoError(t, err)
	require.Len(t, m, 6)

	for i, a := range m {
		// new numbers form the contiguous sequence 1..len(m)
		assert.Equal(t, i+1, a.New)
		if i > 0 {
			// old numbers strictly ascend
			assert.Greater(t, a.Old, m[i-1].Old)
		}
	}
}

func TestDeleteMap_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		deleted []int
		wantErr error
	}{
		{"empty selection", 5, nil, ErrInvalidInput},
		{"out of range low", 5, []int{0}, ErrInvalidInput},
		{"out of range high", 5, []int{6}, ErrInvalidInput},
		{"duplicate", 5, []int{2, 2}, ErrInvalidInput},
		{"deletes all pages", 3, []int{1, 2, 3}, ErrLastPage},
		{"zero total", 0, []int{1}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeleteMap(tt.total, tt.deleted)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReorderMap_Bijection(t *testing.T) {
	orders := []PageOrder{
		{OldNumber: 1, NewNumber: 3},
		{OldNumber: 2, NewNumber: 1},
		{OldNumber: 3, NewNumber: 2},
	}
	m, err := ReorderMap(orders, 3)
	require.NoError(t, err)
	assert.Equal(t, PageMap{
		{New: 1, Old: 2},
		{New: 2, Old: 3},
		{New: 3, Old: 1},
	}, m)
}

func TestReorderMap_InverseRestoresOrder(t *testing.T) {
	orders := []PageOrder{
		{OldNumber: 1, NewNumber: 4},
		{OldNumber: 2, NewNumber: 3},
		{OldNumber: 3, NewNumber: 2},
		{OldNumber: 4, NewNumber: 1},
	}
	m, err := ReorderMap(orders, 4)
	require.NoError(t, err)

	// Applying the map and then its inverse yields the identity: the page
	// that moved to position a.New moves back to a.Old.
	inv := m.Inverted()
	for _, a := range m {
		assert.Equal(t, a.New, inv[a.Old-1].Old)
		assert.Equal(t, a.Old, inv[a.Old-1].New)
	}
}

func TestReorderMap_RejectsNonPermutations(t *testing.T) {
	tests := []struct {
		name   string
		orders []PageOrder
		total  int
	}{
		{"missing assignment", []PageOrder{{1, 1}}, 2},
		{"duplicate new number", []PageOrder{{1, 1}, {2, 1}}, 2},
		{"duplicate old number", []PageOrder{{1, 1}, {1, 2}}, 2},
		{"new number out of range", []PageOrder{{1, 1}, {2, 3}}, 2},
		{"old number out of range", []PageOrder{{1, 1}, {3, 2}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReorderMap(tt.orders, tt.total)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestIdentityMap(t *testing.T) {
	m := IdentityMap(3)
	assert.Equal(t, PageMap{{1, 1}, {2, 2}, {3, 3}}, m)
}

func TestInsertMap(t *testing.T) {
	// Insert 2 pages after position 1 into a 3 page document.
	m, err := InsertMap(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, PageMap{
		{New: 1, Old: 1},
		{New: 2, Old: 0},
		{New: 3, Old: 0},
		{New: 4, Old: 2},
		{New: 5, Old: 3},
	}, m)
}

func TestInsertMap_BeforeFirstPage(t *testing.T) {
	m, err := InsertMap(0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, PageMap{
		{New: 1, Old: 0},
		{New: 2, Old: 1},
		{New: 3, Old: 2},
	}, m)
}

func TestInsertMap_AfterLastPage(t *testing.T) {
	m, err := InsertMap(2, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, PageMap{
		{New: 1, Old: 1},
		{New: 2, Old: 2},
		{New: 3, Old: 0},
		{New: 4, Old: 0},
	}, m)
}

func TestInsertMap_Invalid(t *testing.T) {
	_, err := InsertMap(3, 1, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = InsertMap(-1, 1, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = InsertMap(1, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPageMap_OldNumbers(t *testing.T) {
	m := PageMap{{1, 1}, {2, 0}, {3, 2}}
	assert.Equal(t, []int{1, 2}, m.OldNumbers())
}
