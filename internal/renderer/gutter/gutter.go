// Package gutter formats the column left of the text: line numbers and
// block comment markers.
package gutter

import (
	"strconv"

	"github.com/dshills/codecore/internal/renderer/highlight"
)

// Config holds gutter configuration.
type Config struct {
	// ShowLineNumbers enables line number display.
	ShowLineNumbers bool

	// MinWidth is the minimum number of digits reserved for line numbers.
	MinWidth int

	// Mode selects absolute, relative or hybrid numbering.
	Mode LineNumberMode

	// ShowCommentMarkers marks lines spanned by multi-line block comments.
	ShowCommentMarkers bool
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		ShowLineNumbers:    true,
		MinWidth:           3,
		ShowCommentMarkers: true,
	}
}

// Block comment marker runes.
const (
	MarkerStart  = '┌'
	MarkerMiddle = '│'
	MarkerEnd    = '└'
)

// Gutter produces the gutter label for each line.
type Gutter struct {
	cfg       Config
	lineCount int
	current   int
	comments  []highlight.LineRange
}

// New creates a gutter.
func New(cfg Config) *Gutter {
	return &Gutter{cfg: cfg, lineCount: 1}
}

// Config returns the configuration.
func (g *Gutter) Config() Config {
	return g.cfg
}

// SetLineCount updates the document length used to size the number column.
func (g *Gutter) SetLineCount(n int) {
	g.lineCount = max(n, 1)
}

// SetCurrentLine sets the cursor line for relative numbering.
func (g *Gutter) SetCurrentLine(line int) {
	g.current = line
}

// SetBlockComments sets the multi-line comment ranges to mark.
func (g *Gutter) SetBlockComments(ranges []highlight.LineRange) {
	g.comments = ranges
}

func (g *Gutter) digits() int {
	if !g.cfg.ShowLineNumbers {
		return 0
	}
	return DigitWidth(g.lineCount, g.cfg.MinWidth)
}

// Width returns the gutter width in cells, including the separating space.
// A gutter showing nothing has width 0.
func (g *Gutter) Width() int {
	w := g.digits()
	if g.cfg.ShowCommentMarkers {
		w++
	}
	if w == 0 {
		return 0
	}
	return w + 1
}

// Marker returns the block comment marker for a line, or ' '.
func (g *Gutter) Marker(line int) rune {
	for _, r := range g.comments {
		switch {
		case line < r.Start || line > r.End || r.Start == r.End:
			continue
		case line == r.Start:
			return MarkerStart
		case line == r.End:
			return MarkerEnd
		default:
			return MarkerMiddle
		}
	}
	return ' '
}

// Label returns the gutter text for a line, exactly Width cells wide, and
// whether it is the current line.
func (g *Gutter) Label(line int) (string, bool) {
	w := g.Width()
	if w == 0 {
		return "", line == g.current
	}
	label := ""
	if d := g.digits(); d > 0 {
		label = PadLeft(strconv.Itoa(number(g.cfg.Mode, line, g.current)), d)
	}
	if g.cfg.ShowCommentMarkers {
		label += string(g.Marker(line))
	}
	return label + " ", line == g.current
}
