package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/engine/cursor"
)

// Search selects the next occurrence of text after the main cursor, or the
// previous one when reverse is set, wrapping around the document once.
// Repeated searches continue from the last match. An empty text repeats the
// last query.
func (e *Editor) Search(text string, reverse bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if text == "" {
		text = e.lastQuery
	}
	if text == "" {
		return ErrEmptySearch
	}
	e.lastQuery = text

	p, ok := e.find(text, e.searchStart(text, reverse), reverse)
	if !ok {
		return ErrNoResults
	}
	e.selectMatch(p, text)
	return nil
}

// searchStart is where the next search begins: past the last match, or at
// the main cursor.
func (e *Editor) searchStart(text string, reverse bool) buffer.Point {
	if e.lastResult == nil {
		return e.cursors.Main().Position()
	}
	p := *e.lastResult
	if !reverse {
		p.Column += buffer.RuneLen(text)
	}
	return p
}

// find locates text starting at from, wrapping once.
func (e *Editor) find(text string, from buffer.Point, reverse bool) (buffer.Point, bool) {
	n := e.buf.LineCount()
	from = e.buf.Clamp(from)

	if !reverse {
		if col, ok := indexFrom(e.buf.Line(from.Line), text, from.Column); ok {
			return buffer.Point{Line: from.Line, Column: col}, true
		}
		for i := 1; i <= n; i++ {
			ln := (from.Line + i) % n
			if col, ok := indexFrom(e.buf.Line(ln), text, 0); ok {
				return buffer.Point{Line: ln, Column: col}, true
			}
		}
		return buffer.Point{}, false
	}

	if col, ok := lastIndexBefore(e.buf.Line(from.Line), text, from.Column); ok {
		return buffer.Point{Line: from.Line, Column: col}, true
	}
	for i := 1; i <= n; i++ {
		ln := ((from.Line-i)%n + n) % n
		line := e.buf.Line(ln)
		if col, ok := lastIndexBefore(line, text, buffer.RuneLen(line)); ok {
			return buffer.Point{Line: ln, Column: col}, true
		}
	}
	return buffer.Point{}, false
}

// indexFrom returns the rune column of the first occurrence of text in line
// at or after rune column col.
func indexFrom(line, text string, col int) (int, bool) {
	off := byteOffset(line, col)
	i := strings.Index(line[off:], text)
	if i < 0 {
		return 0, false
	}
	return col + utf8.RuneCountInString(line[off:off+i]), true
}

// lastIndexBefore returns the rune column of the last occurrence of text
// that starts before rune column col.
func lastIndexBefore(line, text string, col int) (int, bool) {
	best := -1
	off, runes := 0, 0
	for {
		i := strings.Index(line[off:], text)
		if i < 0 {
			break
		}
		runes += utf8.RuneCountInString(line[off : off+i])
		if runes >= col {
			break
		}
		best = runes
		_, size := utf8.DecodeRuneInString(line[off+i:])
		off += i + size
		runes++
	}
	return best, best >= 0
}

// byteOffset converts a rune column to a byte offset, clamped to the line.
func byteOffset(s string, col int) int {
	if col <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == col {
			return i
		}
		n++
	}
	return len(s)
}

// selectMatch gives the main cursor a selection over the match at p and
// scrolls it into view.
func (e *Editor) selectMatch(p buffer.Point, text string) {
	e.endSelection(nil)
	e.cursors.RemoveSecondary()
	end := buffer.Point{Line: p.Line, Column: p.Column + buffer.RuneLen(text)}
	c := e.cursors.Main()
	c.Selection = &cursor.Selection{FromX: p.Column, FromY: p.Line, ToX: end.Column, ToY: end.Line}
	c.SetPosition(end)
	e.lastResult = &p
	if !e.vp.IsOnScreen(p.Line) {
		e.vp.CenterOn(p.Line)
	}
}

// SelectNextOccurrence adds a cursor selecting the next occurrence of the
// main selection's text.
func (e *Editor) SelectNextOccurrence() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selectNextOccurrence()
}

func (e *Editor) selectNextOccurrence() {
	c := e.cursors.Main()
	if c.Selection == nil || c.Selection.IsEmpty() {
		return
	}
	sel := c.Selection.Range()
	text := e.buf.Slice(sel.Start, sel.End)
	if text == "" || strings.Contains(text, "\n") {
		return
	}

	if e.occurrences == nil {
		e.occurrences = map[buffer.Point]bool{sel.Start: true}
	}
	from := sel.Start
	if e.lastResult != nil {
		from = *e.lastResult
	}
	from.Column++

	p, ok := e.find(text, from, false)
	if !ok || e.occurrences[p] {
		return
	}
	e.occurrences[p] = true
	e.lastResult = &p

	end := p.Column + buffer.RuneLen(text)
	nc := e.cursors.Add(p.Line, end, true)
	nc.Selection = &cursor.Selection{FromX: p.Column, FromY: p.Line, ToX: end, ToY: p.Line}
	if !e.vp.IsOnScreen(p.Line) {
		e.vp.CenterOn(p.Line)
	}
}
