package buffer

import (
	"strings"
	"unicode/utf8"
)

// DefaultTabWidth is the number of columns a tab stop spans.
const DefaultTabWidth = 4

// Buffer holds a document as a slice of lines.
// It always contains at least one line.
type Buffer struct {
	lines     []string
	revision  uint64
	tabWidth  int
	listeners []Listener
}

// New creates a buffer holding a single empty line.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		lines:    []string{""},
		tabWidth: DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.lines = splitLines(s)
	return b
}

// NewFromLines creates a buffer from a slice of lines.
// The slice is copied. An empty slice yields a single empty line.
func NewFromLines(lines []string, opts ...Option) *Buffer {
	b := New(opts...)
	b.lines = normalizeLines(lines)
	return b
}

// splitLines splits text on line breaks. Carriage returns are dropped.
func splitLines(s string) []string {
	if strings.IndexByte(s, '\r') >= 0 {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "")
	}
	return strings.Split(s, "\n")
}

func normalizeLines(lines []string) []string {
	if len(lines) == 0 {
		return []string{""}
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

// TabWidth returns the configured tab width.
func (b *Buffer) TabWidth() int {
	return b.tabWidth
}

// Revision returns a counter incremented on every mutation.
func (b *Buffer) Revision() uint64 {
	return b.revision
}

// SetText replaces the whole document.
// An empty string yields a single empty line.
func (b *Buffer) SetText(text string) {
	old := len(b.lines)
	b.lines = splitLines(text)
	b.changed(0, len(b.lines)-1, len(b.lines)-old)
}

// Replace swaps in a new set of lines, copying the slice.
// Used when restoring history snapshots.
func (b *Buffer) Replace(lines []string) {
	old := len(b.lines)
	b.lines = normalizeLines(lines)
	b.changed(0, len(b.lines)-1, len(b.lines)-old)
}

// Text returns the document joined with newlines.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// TextWith returns the document joined with sep.
func (b *Buffer) TextWith(sep string) string {
	return strings.Join(b.lines, sep)
}

// LineCount returns the number of lines. It is never less than one.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the text of line i, or "" if i is out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// HasLine reports whether line i exists.
func (b *Buffer) HasLine(i int) bool {
	return i >= 0 && i < len(b.lines)
}

// LineLen returns the length of line i in runes.
func (b *Buffer) LineLen(i int) int {
	return utf8.RuneCountInString(b.Line(i))
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// ClampLine clamps a line index into the document.
func (b *Buffer) ClampLine(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(b.lines) {
		return len(b.lines) - 1
	}
	return i
}

// Clamp returns the nearest valid position to p.
func (b *Buffer) Clamp(p Point) Point {
	p.Line = b.ClampLine(p.Line)
	if p.Column < 0 {
		p.Column = 0
	}
	if n := b.LineLen(p.Line); p.Column > n {
		p.Column = n
	}
	return p
}

// End returns the position after the last rune of the document.
func (b *Buffer) End() Point {
	last := len(b.lines) - 1
	return Point{Line: last, Column: b.LineLen(last)}
}

// CharAt returns the rune at column p.Column+offset on line p.Line as a
// string, or "" when that column is outside the line.
func (b *Buffer) CharAt(p Point, offset int) string {
	if !b.HasLine(p.Line) {
		return ""
	}
	col := p.Column + offset
	if col < 0 {
		return ""
	}
	i := 0
	for _, r := range b.lines[p.Line] {
		if i == col {
			return string(r)
		}
		i++
	}
	return ""
}

// Slice returns the text between two positions, joined with newlines.
func (b *Buffer) Slice(from, to Point) string {
	r := NewRange(b.Clamp(from), b.Clamp(to))
	if r.SingleLine() {
		runes := []rune(b.lines[r.Start.Line])
		return string(runes[r.Start.Column:r.End.Column])
	}
	var sb strings.Builder
	sb.WriteString(string([]rune(b.lines[r.Start.Line])[r.Start.Column:]))
	for i := r.Start.Line + 1; i < r.End.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[i])
	}
	sb.WriteByte('\n')
	sb.WriteString(string([]rune(b.lines[r.End.Line])[:r.End.Column]))
	return sb.String()
}

// InsertAt inserts text at the given position and returns the position
// immediately after the inserted text. Multi-line text splits the target line
// into head and tail with the intermediate lines between them.
func (b *Buffer) InsertAt(line, column int, text string) Point {
	p := b.Clamp(Point{Line: line, Column: column})
	if text == "" {
		return p
	}

	parts := splitLines(text)
	runes := []rune(b.lines[p.Line])
	head := string(runes[:p.Column])
	tail := string(runes[p.Column:])

	if len(parts) == 1 {
		b.lines[p.Line] = head + parts[0] + tail
		b.changed(p.Line, p.Line, 0)
		return Point{Line: p.Line, Column: p.Column + utf8.RuneCountInString(parts[0])}
	}

	last := parts[len(parts)-1]
	inserted := make([]string, 0, len(parts))
	inserted = append(inserted, head+parts[0])
	inserted = append(inserted, parts[1:len(parts)-1]...)
	inserted = append(inserted, last+tail)

	b.lines = spliceLines(b.lines, p.Line, 1, inserted)
	endLine := p.Line + len(parts) - 1
	b.changed(p.Line, endLine, len(parts)-1)
	return Point{Line: endLine, Column: utf8.RuneCountInString(last)}
}

// DeleteRange removes the half-open range between from and to, joining the
// head of the first line with the tail of the last. The endpoints may be given
// in either order. It returns the removed text.
func (b *Buffer) DeleteRange(from, to Point) string {
	r := NewRange(b.Clamp(from), b.Clamp(to))
	if r.IsEmpty() {
		return ""
	}
	removed := b.Slice(r.Start, r.End)

	head := string([]rune(b.lines[r.Start.Line])[:r.Start.Column])
	tail := string([]rune(b.lines[r.End.Line])[r.End.Column:])

	b.lines = spliceLines(b.lines, r.Start.Line, r.End.Line-r.Start.Line+1, []string{head + tail})
	b.changed(r.Start.Line, r.Start.Line, r.Start.Line-r.End.Line)
	return removed
}

// SetLine replaces the text of line i.
func (b *Buffer) SetLine(i int, text string) error {
	if !b.HasLine(i) {
		return ErrLineOutOfRange
	}
	b.lines[i] = text
	b.changed(i, i, 0)
	return nil
}

// InsertLines inserts whole lines before index at. An index equal to
// LineCount appends.
func (b *Buffer) InsertLines(at int, lines ...string) error {
	if at < 0 || at > len(b.lines) {
		return ErrLineOutOfRange
	}
	if len(lines) == 0 {
		return nil
	}
	b.lines = spliceLines(b.lines, at, 0, lines)
	b.changed(at, at+len(lines)-1, len(lines))
	return nil
}

// RemoveLines removes count lines starting at from. Removing every line
// leaves a single empty line.
func (b *Buffer) RemoveLines(from, count int) error {
	if !b.HasLine(from) || count <= 0 {
		return ErrLineOutOfRange
	}
	if from+count > len(b.lines) {
		count = len(b.lines) - from
	}
	b.lines = spliceLines(b.lines, from, count, nil)
	if len(b.lines) == 0 {
		b.lines = []string{""}
		b.changed(0, 0, 1-count)
		return nil
	}
	b.changed(b.ClampLine(from), b.ClampLine(from), -count)
	return nil
}

// SwapLines exchanges two lines. It returns false if either is out of range.
func (b *Buffer) SwapLines(i, j int) bool {
	if !b.HasLine(i) || !b.HasLine(j) {
		return false
	}
	if i == j {
		return true
	}
	b.lines[i], b.lines[j] = b.lines[j], b.lines[i]
	b.changed(min(i, j), max(i, j), 0)
	return true
}

// spliceLines replaces n lines at index i with repl, returning the new slice.
func spliceLines(lines []string, i, n int, repl []string) []string {
	out := make([]string, 0, len(lines)-n+len(repl))
	out = append(out, lines[:i]...)
	out = append(out, repl...)
	out = append(out, lines[i+n:]...)
	return out
}
