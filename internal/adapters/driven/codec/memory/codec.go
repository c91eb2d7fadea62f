// Package memory provides a driven.PageCodec over a simple page-container
// format instead of real PDFs. Each page carries its text content and an
// accumulated rotation, which makes transform results directly inspectable
// in tests.
package memory

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
)

// magic marks the start of an encoded page container.
var magic = []byte("PVPC")

// Page is one page of the container.
type Page struct {
	// Content is the page's text content.
	Content string
	// Rotation is the page's accumulated clockwise rotation in degrees.
	Rotation int
}

// Encode serialises pages into a payload.
func Encode(pages []Page) []byte {
	var buf bytes.Buffer
	buf.Write(magic)
	binary.Write(&buf, binary.BigEndian, uint32(len(pages)))
	for _, p := range pages {
		binary.Write(&buf, binary.BigEndian, uint32(len(p.Content)))
		buf.WriteString(p.Content)
		binary.Write(&buf, binary.BigEndian, int32(p.Rotation))
	}
	return buf.Bytes()
}

// Decode parses a payload produced by Encode.
func Decode(payload []byte) ([]Page, error) {
	r := bytes.NewReader(payload)

	head := make([]byte, len(magic))
	if _, err := r.Read(head); err != nil || !bytes.Equal(head, magic) {
		return nil, fmt.Errorf("not a page container")
	}

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, fmt.Errorf("reading page count: %w", err)
	}

	pages := make([]Page, count)
	for i := range pages {
		var size uint32
		if err := binary.Read(r, binary.BigEndian, &size); err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i+1, err)
		}
		content := make([]byte, size)
		if _, err := r.Read(content); err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i+1, err)
		}
		var rotation int32
		if err := binary.Read(r, binary.BigEndian, &rotation); err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i+1, err)
		}
		pages[i] = Page{Content: string(content), Rotation: int(rotation)}
	}
	return pages, nil
}

// Ensure Codec implements the interface.
var _ driven.PageCodec = (*Codec)(nil)

// Codec applies page-level transforms to encoded page containers.
type Codec struct{}

// New creates a new in-memory page codec.
func New() *Codec {
	return &Codec{}
}

// PageCount returns the number of pages in the payload.
func (c *Codec) PageCount(payload []byte) (int, error) {
	pages, err := Decode(payload)
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// RemovePages returns a payload with the given 1-based positions dropped.
func (c *Codec) RemovePages(payload []byte, positions []int) ([]byte, error) {
	pages, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	drop := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if pos < 1 || pos > len(pages) {
			return nil, fmt.Errorf("page %d out of range", pos)
		}
		drop[pos] = true
	}
	kept := make([]Page, 0, len(pages)-len(drop))
	for i, p := range pages {
		if !drop[i+1] {
			kept = append(kept, p)
		}
	}
	return Encode(kept), nil
}

// CollectPages returns a payload containing the given 1-based positions in
// the order requested.
func (c *Codec) CollectPages(payload []byte, positions []int) ([]byte, error) {
	pages, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	picked := make([]Page, 0, len(positions))
	for _, pos := range positions {
		if pos < 1 || pos > len(pages) {
			return nil, fmt.Errorf("page %d out of range", pos)
		}
		picked = append(picked, pages[pos-1])
	}
	return Encode(picked), nil
}

// RotatePages rotates the given 1-based positions by their angles, which
// must be non-zero multiples of 90 degrees.
func (c *Codec) RotatePages(payload []byte, angles map[int]int) ([]byte, error) {
	pages, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	for pos, angle := range angles {
		if pos < 1 || pos > len(pages) {
			return nil, fmt.Errorf("page %d out of range", pos)
		}
		if angle == 0 || angle%90 != 0 {
			return nil, fmt.Errorf("invalid rotation %d for page %d", angle, pos)
		}
		r := (pages[pos-1].Rotation + angle) % 360
		if r < 0 {
			r += 360
		}
		pages[pos-1].Rotation = r
	}
	return Encode(pages), nil
}

// InsertPages inserts the selected src pages into dst after 1-based position
// insertAt, preserving the order of srcPositions.
func (c *Codec) InsertPages(dst, src []byte, srcPositions []int, insertAt int) ([]byte, error) {
	dstPages, err := Decode(dst)
	if err != nil {
		return nil, err
	}
	srcPages, err := Decode(src)
	if err != nil {
		return nil, err
	}
	if insertAt < 0 || insertAt > len(dstPages) {
		return nil, fmt.Errorf("insert position %d out of range", insertAt)
	}
	moved := make([]Page, 0, len(srcPositions))
	for _, pos := range srcPositions {
		if pos < 1 || pos > len(srcPages) {
			return nil, fmt.Errorf("page %d out of range", pos)
		}
		moved = append(moved, srcPages[pos-1])
	}

	out := make([]Page, 0, len(dstPages)+len(moved))
	out = append(out, dstPages[:insertAt]...)
	out = append(out, moved...)
	out = append(out, dstPages[insertAt:]...)
	return Encode(out), nil
}
