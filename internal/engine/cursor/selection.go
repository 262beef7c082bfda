package cursor

import (
	"fmt"

	"github.com/dshills/codecore/internal/engine/buffer"
)

// Point is an alias for buffer.Point for convenience.
type Point = buffer.Point

// Flags select which components of a selection endpoint an update writes.
type Flags uint8

const (
	// SelectX updates the column only. Horizontal keyboard motion uses it so
	// a multi-line selection keeps its line anchors.
	SelectX Flags = 1 << iota
	// SelectY updates the line only.
	SelectY
	// SelectXY updates both components.
	SelectXY = SelectX | SelectY
)

// Selection is a range of text anchored at From and extending to To.
// From may come after To until InvertIfNecessary is called.
type Selection struct {
	FromX, FromY int
	ToX, ToY     int
}

// NewSelection creates an empty selection at the given position.
func NewSelection(line, column int) *Selection {
	return &Selection{FromX: column, FromY: line, ToX: column, ToY: line}
}

// String returns a human-readable representation of the selection.
func (s *Selection) String() string {
	return fmt.Sprintf("Selection(%d:%d -> %d:%d)", s.FromY, s.FromX, s.ToY, s.ToX)
}

// From returns the from endpoint.
func (s *Selection) From() Point {
	return Point{Line: s.FromY, Column: s.FromX}
}

// To returns the to endpoint.
func (s *Selection) To() Point {
	return Point{Line: s.ToY, Column: s.ToX}
}

// IsEmpty returns true if both endpoints coincide.
func (s *Selection) IsEmpty() bool {
	return s.SameLine() && s.FromX == s.ToX
}

// SameLine returns true if both endpoints are on the same line.
func (s *Selection) SameLine() bool {
	return s.FromY == s.ToY
}

// InvertIfNecessary swaps the endpoints so From is not after To.
func (s *Selection) InvertIfNecessary() {
	if s.FromY > s.ToY || (s.FromY == s.ToY && s.FromX > s.ToX) {
		s.FromX, s.ToX = s.ToX, s.FromX
		s.FromY, s.ToY = s.ToY, s.FromY
	}
}

// Range returns the selection as an ordered range without modifying it.
func (s *Selection) Range() buffer.Range {
	return buffer.NewRange(s.From(), s.To())
}

// Shift moves both endpoints by the given deltas.
func (s *Selection) Shift(dx, dy int) {
	s.FromX += dx
	s.ToX += dx
	s.FromY += dy
	s.ToY += dy
}

// Clone returns a copy of the selection.
func (s *Selection) Clone() *Selection {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Lines returns the number of lines the selection touches.
func (s *Selection) Lines() int {
	r := s.Range()
	return r.End.Line - r.Start.Line + 1
}
