package renderer

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/renderer/highlight"
	"github.com/dshills/codecore/internal/renderer/viewport"
)

// Caret is a cursor to draw.
type Caret struct {
	buffer.Point
	Main bool
}

// Frame is everything needed to draw one screen of a document.
type Frame struct {
	// Editor identifies the editor that produced the frame.
	Editor string

	// Lines holds the viewport window; only part of it is on screen.
	Lines   []Line
	Visible viewport.Range

	// TopLine is the first line on screen.
	TopLine int
	// LeftCell is the horizontal scroll offset in cells.
	LeftCell int

	LineCount     int
	TabWidth      int
	Carets        []Caret
	Selections    []buffer.Range
	BlockComments []highlight.LineRange
}

// Line returns the window line with the given number.
func (f *Frame) Line(n int) (Line, bool) {
	i := n - f.Visible.Start
	if i < 0 || i >= len(f.Lines) {
		return Line{}, false
	}
	return f.Lines[i], true
}

// Main returns the main caret.
func (f *Frame) Main() (Caret, bool) {
	for _, c := range f.Carets {
		if c.Main {
			return c, true
		}
	}
	return Caret{}, false
}

func (f *Frame) selected(p buffer.Point) bool {
	for _, r := range f.Selections {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

func (f *Frame) secondaryAt(p buffer.Point) bool {
	for _, c := range f.Carets {
		if !c.Main && c.Point == p {
			return true
		}
	}
	return false
}

// runeCells returns the cells a rune occupies at cell offset cell.
func runeCells(r rune, cell, tabWidth int) int {
	if r == '\t' {
		return tabWidth - cell%tabWidth
	}
	return max(runewidth.RuneWidth(r), 1)
}

// CellOf returns the cell offset of rune column col in text, with tabs
// expanded to tabWidth stops.
func CellOf(text string, col, tabWidth int) int {
	cell, i := 0, 0
	for _, r := range text {
		if i >= col {
			break
		}
		cell += runeCells(r, cell, tabWidth)
		i++
	}
	return cell
}

// ColumnAt returns the rune column drawn at cell offset cell in text.
// Cells past the end map to the line length.
func ColumnAt(text string, cell, tabWidth int) int {
	c, i := 0, 0
	for _, r := range text {
		w := runeCells(r, c, tabWidth)
		if cell < c+w {
			return i
		}
		c += w
		i++
	}
	return i
}
