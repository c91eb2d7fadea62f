// Package pdfcpu provides a driven.PageCodec for real PDF payloads, backed
// by the pdfcpu library. All transforms operate on in-memory byte slices;
// the codec never touches disk.
package pdfcpu

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
)

// Ensure Codec implements the interface.
var _ driven.PageCodec = (*Codec)(nil)

// Codec applies page-level transforms to PDF payloads.
type Codec struct {
	conf *model.Configuration
}

// New creates a PDF codec with relaxed validation, so documents produced by
// sloppy generators still round-trip.
func New() *Codec {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Codec{conf: conf}
}

// pageSelection renders 1-based page positions as a pdfcpu page selection.
func pageSelection(positions []int) []string {
	sel := make([]string, len(positions))
	for i, pos := range positions {
		sel[i] = strconv.Itoa(pos)
	}
	return sel
}

// PageCount returns the number of pages in the payload.
func (c *Codec) PageCount(payload []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(payload), c.conf)
	if err != nil {
		return 0, fmt.Errorf("reading pdf: %w", err)
	}
	return count, nil
}

// RemovePages returns a payload with the given 1-based positions dropped.
func (c *Codec) RemovePages(payload []byte, positions []int) ([]byte, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("no pages selected")
	}
	var buf bytes.Buffer
	if err := api.RemovePages(bytes.NewReader(payload), &buf, pageSelection(positions), c.conf); err != nil {
		return nil, fmt.Errorf("removing pdf pages: %w", err)
	}
	return buf.Bytes(), nil
}

// CollectPages returns a payload containing the given 1-based positions in
// the order requested.
func (c *Codec) CollectPages(payload []byte, positions []int) ([]byte, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("no pages selected")
	}
	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(payload), &buf, pageSelection(positions), c.conf); err != nil {
		return nil, fmt.Errorf("collecting pdf pages: %w", err)
	}
	return buf.Bytes(), nil
}

// RotatePages rotates the given 1-based positions by their angles, which
// must be non-zero multiples of 90 degrees. pdfcpu rotates one angle at a
// time, so positions are grouped by their normalised angle.
func (c *Codec) RotatePages(payload []byte, angles map[int]int) ([]byte, error) {
	if len(angles) == 0 {
		return nil, fmt.Errorf("no pages selected")
	}

	byAngle := make(map[int][]int)
	for pos, angle := range angles {
		if angle == 0 || angle%90 != 0 {
			return nil, fmt.Errorf("invalid rotation %d for page %d", angle, pos)
		}
		norm := angle % 360
		if norm < 0 {
			norm += 360
		}
		// A full turn leaves the page as is.
		if norm == 0 {
			continue
		}
		byAngle[norm] = append(byAngle[norm], pos)
	}

	sortedAngles := make([]int, 0, len(byAngle))
	for angle := range byAngle {
		sortedAngles = append(sortedAngles, angle)
	}
	sort.Ints(sortedAngles)

	out := payload
	for _, angle := range sortedAngles {
		positions := byAngle[angle]
		sort.Ints(positions)

		var buf bytes.Buffer
		if err := api.Rotate(bytes.NewReader(out), &buf, angle, pageSelection(positions), c.conf); err != nil {
			return nil, fmt.Errorf("rotating pdf pages by %d: %w", angle, err)
		}
		out = buf.Bytes()
	}
	return out, nil
}

// InsertPages inserts the selected src pages into dst after 1-based position
// insertAt. pdfcpu has no direct insert-at-position, so the destination is
// split around the insertion point and the parts merged back together.
func (c *Codec) InsertPages(dst, src []byte, srcPositions []int, insertAt int) ([]byte, error) {
	if len(srcPositions) == 0 {
		return nil, fmt.Errorf("no pages selected")
	}
	dstCount, err := c.PageCount(dst)
	if err != nil {
		return nil, err
	}
	if insertAt < 0 || insertAt > dstCount {
		return nil, fmt.Errorf("insert position %d out of range", insertAt)
	}

	moved, err := c.CollectPages(src, srcPositions)
	if err != nil {
		return nil, err
	}

	parts := make([][]byte, 0, 3)
	if insertAt > 0 {
		head, err := c.CollectPages(dst, pageRange(1, insertAt))
		if err != nil {
			return nil, err
		}
		parts = append(parts, head)
	}
	parts = append(parts, moved)
	if insertAt < dstCount {
		tail, err := c.CollectPages(dst, pageRange(insertAt+1, dstCount))
		if err != nil {
			return nil, err
		}
		parts = append(parts, tail)
	}

	readers := make([]io.ReadSeeker, len(parts))
	for i, part := range parts {
		readers[i] = bytes.NewReader(part)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, c.conf); err != nil {
		return nil, fmt.Errorf("merging pdf parts: %w", err)
	}
	return buf.Bytes(), nil
}

// pageRange returns the inclusive positions from first to last.
func pageRange(first, last int) []int {
	out := make([]int, 0, last-first+1)
	for pos := first; pos <= last; pos++ {
		out = append(out, pos)
	}
	return out
}
