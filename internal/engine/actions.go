package engine

import (
	"strings"

	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/engine/cursor"
	"github.com/dshills/codecore/internal/input"
)

// action is the handler for a named key.
type action struct {
	run func(e *Editor, c *cursor.Cursor, ev input.Event)

	// deletesSelection removes the cursor's selection before run, recording
	// one undo snapshot for both.
	deletesSelection bool
	// keep, when set, reports that the selection should survive this event.
	keep func(ev input.Event, c *cursor.Cursor) bool
}

var actions = map[string]action{
	input.KeyEscape:     {run: (*Editor).escape},
	input.KeyBackspace:  {run: (*Editor).backspace},
	input.KeyDelete:     {run: (*Editor).deleteForward},
	input.KeyTab:        {run: (*Editor).tab, deletesSelection: true, keep: keepIndentSelection},
	input.KeyHome:       {run: (*Editor).home},
	input.KeyEnd:        {run: (*Editor).end},
	input.KeyEnter:      {run: (*Editor).enter, deletesSelection: true},
	input.KeyArrowUp:    {run: (*Editor).arrowUp},
	input.KeyArrowDown:  {run: (*Editor).arrowDown},
	input.KeyArrowLeft:  {run: (*Editor).arrowLeft},
	input.KeyArrowRight: {run: (*Editor).arrowRight},
	input.KeyPageUp:     {run: (*Editor).pageUp},
	input.KeyPageDown:   {run: (*Editor).pageDown},
}

// keepIndentSelection keeps selections that Tab indents or Shift+Tab
// outdents.
func keepIndentSelection(ev input.Event, c *cursor.Cursor) bool {
	return ev.Modifiers.Shift || c.Selection.Lines() > 1
}

func (e *Editor) escape(_ *cursor.Cursor, _ input.Event) {
	e.endSelection(nil)
	e.cursors.RemoveSecondary()
}

// ============================================================================
// Deletion
// ============================================================================

func (e *Editor) backspace(c *cursor.Cursor, ev input.Event) {
	e.saveUndo(c, false)

	if c.Selection != nil {
		wholeLine := e.cursors.TripleClick()
		e.deleteSelection(c)
		if wholeLine && e.buf.LineCount() > 1 {
			_ = e.buf.RemoveLines(c.Line, 1)
			c.Column = 0
			c.Line = e.buf.ClampLine(c.Line)
		}
		return
	}

	if e.buf.CharAt(c.Position(), -1) != "" {
		from := c.Column - 1
		if ev.Modifiers.Ctrl {
			if w := cursor.WordAt(e.buf.Line(c.Line), c.Column, -1); w.Len() > 1 {
				from = w.From
			}
		}
		e.buf.DeleteRange(buffer.Point{Line: c.Line, Column: from}, c.Position())
		c.Column = from
		return
	}

	if c.Line > 0 {
		prev := e.lineEnd(c.Line - 1)
		e.buf.DeleteRange(prev, c.Position())
		c.SetPosition(prev)
		e.cursors.MergeLine(prev.Line)
	}
}

func (e *Editor) deleteForward(c *cursor.Cursor, _ input.Event) {
	e.saveUndo(c, false)

	if c.Selection != nil {
		e.deleteSelection(c)
		return
	}
	if e.buf.CharAt(c.Position(), 0) != "" {
		e.buf.DeleteRange(c.Position(), buffer.Point{Line: c.Line, Column: c.Column + 1})
		e.nextOffset = -1
		return
	}
	if e.buf.HasLine(c.Line + 1) {
		e.buf.DeleteRange(c.Position(), buffer.Point{Line: c.Line + 1})
	}
}

// deleteSelection removes the text selected by c and leaves the cursor at
// its start.
func (e *Editor) deleteSelection(c *cursor.Cursor) {
	sel := c.Selection
	if sel == nil {
		return
	}
	sel.InvertIfNecessary()
	e.buf.DeleteRange(sel.From(), sel.To())
	c.SetPosition(e.buf.Clamp(sel.From()))
	e.endSelection(c)
}

// ============================================================================
// Line boundaries
// ============================================================================

// home toggles between the first non-blank character and column zero.
func (e *Editor) home(c *cursor.Cursor, ev input.Event) {
	line := e.buf.Line(c.Line)
	idx := buffer.FirstNonSpace(line)
	if idx == buffer.RuneLen(line) || idx == c.Column {
		idx = 0
	}

	shift := ev.Modifiers.Shift
	if shift && c.Selection == nil {
		e.cursors.StartSelection(c)
	}
	c.Column = idx
	e.cursors.MergeLine(c.Line)
	if shift {
		e.extendSelection(c, cursor.SelectXY, cursor.MotionBackward)
	} else {
		e.endSelection(nil)
	}
}

func (e *Editor) end(c *cursor.Cursor, ev input.Event) {
	e.toLineEnd(c, ev.Modifiers.Shift, false)
}

// toLineEnd moves c past the last character of its line. With keep set an
// existing selection is left alone.
func (e *Editor) toLineEnd(c *cursor.Cursor, shift, keep bool) {
	switch {
	case shift && c.Selection == nil:
		e.cursors.StartSelection(c)
	case !shift && !keep:
		e.endSelection(nil)
	}
	c.Column = e.buf.LineLen(c.Line)
	if shift {
		e.extendSelection(c, cursor.SelectXY, cursor.MotionForward)
	}
	e.cursors.MergeLine(c.Line)
}

// ============================================================================
// Line breaks and indentation
// ============================================================================

// enter splits the line, indenting the new line like the old one. Between
// a brace pair the closing brace moves down a further line and the cursor
// sits on an indented blank line between them.
func (e *Editor) enter(c *cursor.Cursor, _ input.Event) {
	e.saveUndo(c, true)

	before := e.buf.CharAt(c.Position(), -1)
	after := e.buf.CharAt(c.Position(), 0)
	head := e.buf.Line(c.Line)
	ln := c.Line

	e.buf.InsertAt(c.Line, c.Column, "\n")
	c.Line, c.Column = ln+1, 0

	spaces := buffer.FirstNonSpace(head)
	if spaces == buffer.RuneLen(head) {
		spaces = 0
	}
	ts := e.tabSpaces
	tabs := spaces / ts

	if before == "{" && after == "}" {
		inner := strings.Repeat(" ", (tabs+1)*ts)
		_ = e.buf.InsertLines(ln+1, inner)
		e.buf.InsertAt(ln+2, 0, strings.Repeat(" ", spaces))
		c.Column = buffer.RuneLen(inner)
		return
	}
	indent := strings.Repeat(" ", tabs*ts)
	e.buf.InsertAt(c.Line, 0, indent)
	c.Column = buffer.RuneLen(indent)
}

func (e *Editor) tab(c *cursor.Cursor, ev input.Event) {
	e.saveUndo(c, false)

	if ev.Modifiers.Shift {
		e.removeIndent(c)
		return
	}

	ts := e.tabSpaces
	if sel := c.Selection; sel != nil && sel.Lines() > 1 {
		sel.InvertIfNecessary()
		for ln := sel.FromY; ln <= sel.ToY; ln++ {
			line := e.buf.Line(ln)
			if line == "" {
				continue
			}
			start := buffer.FirstNonSpace(line)
			n := ts - start%ts
			e.buf.InsertAt(ln, 0, strings.Repeat(" ", n))
			if c.Line == ln {
				c.Column += n
			}
			if sel.FromY == ln {
				sel.FromX += n
			}
			if sel.ToY == ln {
				sel.ToX += n
			}
		}
		return
	}

	n := ts - c.Column%ts
	e.buf.InsertAt(c.Line, c.Column, strings.Repeat(" ", n))
	c.Column += n
	if c.Selection != nil {
		c.Selection.Shift(n, 0)
	}
}

// removeIndent outdents the cursor's line, or every selected line, to the
// previous tab stop.
func (e *Editor) removeIndent(c *cursor.Cursor) {
	from, to := c.Line, c.Line
	sel := c.Selection
	if sel != nil {
		sel.InvertIfNecessary()
		from, to = sel.FromY, sel.ToY
	}

	ts := e.tabSpaces
	for ln := from; ln <= to; ln++ {
		line := e.buf.Line(ln)
		start := buffer.FirstNonSpace(line)
		if start == 0 {
			continue
		}
		n := start % ts
		if n == 0 {
			n = ts
		}
		e.buf.DeleteRange(buffer.Point{Line: ln}, buffer.Point{Line: ln, Column: n})
		if c.Line == ln {
			c.Column = max(0, c.Column-n)
		}
		if sel != nil {
			if sel.FromY == ln {
				sel.FromX = max(0, sel.FromX-n)
			}
			if sel.ToY == ln {
				sel.ToX = max(0, sel.ToX-n)
			}
		}
	}
}

// ============================================================================
// Vertical motion
// ============================================================================

// lineUp moves c up one line, clamping its column. It reports whether the
// cursor moved.
func (e *Editor) lineUp(c *cursor.Cursor) bool {
	if c.Line == 0 {
		return false
	}
	c.Line--
	c.Column = min(c.Column, e.buf.LineLen(c.Line))
	return true
}

// lineDown moves c down one line, clamping its column. It reports whether
// the cursor moved.
func (e *Editor) lineDown(c *cursor.Cursor) bool {
	if !e.buf.HasLine(c.Line + 1) {
		return false
	}
	c.Line++
	c.Column = min(c.Column, e.buf.LineLen(c.Line))
	return true
}

func (e *Editor) arrowUp(c *cursor.Cursor, ev input.Event) {
	if ev.Modifiers.Shift {
		if c.Selection == nil {
			e.cursors.StartSelection(c)
		}
		e.lineUp(c)
		if e.buf.CharAt(c.Position(), 0) == "" {
			c.Column = e.buf.LineLen(c.Line)
		}
		e.extendSelection(c, cursor.SelectXY, cursor.MotionBackward)
		return
	}
	e.endSelection(nil)
	e.lineUp(c)
	if e.buf.CharAt(c.Position(), 0) == "" {
		e.toLineEnd(c, false, false)
	}
}

func (e *Editor) arrowDown(c *cursor.Cursor, ev input.Event) {
	shift := ev.Modifiers.Shift
	if shift {
		if c.Selection == nil {
			e.cursors.StartSelection(c)
		}
	} else {
		e.endSelection(nil)
	}
	moved := e.lineDown(c)
	if !moved || e.buf.CharAt(c.Position(), 0) == "" {
		c.Column = e.buf.LineLen(c.Line)
	}
	if shift {
		e.extendSelection(c, cursor.SelectXY, cursor.MotionForward)
	}
	e.cursors.MergeLine(c.Line)
}

func (e *Editor) pageUp(c *cursor.Cursor, ev input.Event) {
	e.page(c, ev, -1)
}

func (e *Editor) pageDown(c *cursor.Cursor, ev input.Event) {
	e.page(c, ev, 1)
}

// page moves c by a screen less two lines of overlap.
func (e *Editor) page(c *cursor.Cursor, ev input.Event, dir int) {
	shift := ev.Modifiers.Shift
	if shift && c.Selection == nil {
		e.cursors.StartSelection(c)
	} else if !shift {
		e.endSelection(nil)
	}

	n := max(e.vp.LinesOnScreen()-2, 1)
	c.Line = e.buf.ClampLine(c.Line + dir*n)
	c.Column = min(c.Column, e.buf.LineLen(c.Line))

	if shift {
		motion := cursor.MotionForward
		if dir < 0 {
			motion = cursor.MotionBackward
		}
		e.extendSelection(c, cursor.SelectXY, motion)
	}
	e.cursors.MergeLine(c.Line)
}

// ============================================================================
// Horizontal motion
// ============================================================================

func (e *Editor) arrowLeft(c *cursor.Cursor, ev input.Event) {
	if c.Line == 0 && c.Column == 0 {
		if !ev.Modifiers.Shift {
			e.endSelection(c)
		}
		return
	}
	shift := ev.Modifiers.Shift

	if ev.Modifiers.Meta {
		e.home(c, ev)
		return
	}

	if ev.Modifiers.Ctrl {
		w := cursor.WordAt(e.buf.Line(c.Line), c.Column, -1)
		if w.Len() == 0 {
			if shift && c.Selection == nil {
				e.cursors.StartSelection(c)
			}
			if e.lineUp(c) {
				c.Column = e.buf.LineLen(c.Line)
				e.cursors.MergeLine(c.Line)
			}
			if shift {
				e.extendSelection(c, cursor.SelectXY, cursor.MotionBackward)
			}
			return
		}
		step := min(max(c.Column-w.From, 1), w.Len())
		e.stepHorizontal(c, -step, shift, cursor.MotionBackward)
		return
	}

	if e.buf.CharAt(c.Position(), -1) != "" {
		if !shift && c.Selection != nil && !c.Selection.IsEmpty() {
			c.Selection.InvertIfNecessary()
			c.SetPosition(c.Selection.From())
			e.endSelection(c)
			return
		}
		e.stepHorizontal(c, -1, shift, cursor.MotionBackward)
		return
	}

	if shift && c.Selection == nil {
		e.cursors.StartSelection(c)
	} else if !shift {
		e.endSelection(c)
	}
	if e.lineUp(c) {
		c.Column = e.buf.LineLen(c.Line)
		e.cursors.MergeLine(c.Line)
	}
	if shift {
		e.extendSelection(c, cursor.SelectXY, cursor.MotionBackward)
	}
}

func (e *Editor) arrowRight(c *cursor.Cursor, ev input.Event) {
	last := e.buf.LineCount() - 1
	if c.Line == last && c.Column >= e.buf.LineLen(last) {
		if !ev.Modifiers.Shift {
			e.endSelection(c)
		}
		return
	}
	shift := ev.Modifiers.Shift

	if ev.Modifiers.Meta {
		e.toLineEnd(c, shift, false)
		return
	}

	if ev.Modifiers.Ctrl {
		w := cursor.WordAt(e.buf.Line(c.Line), c.Column, 0)
		if w.Len() == 0 {
			if shift && c.Selection == nil {
				e.cursors.StartSelection(c)
			}
			if e.lineDown(c) {
				c.Column = 0
				e.cursors.MergeLine(c.Line)
			}
			if shift {
				e.extendSelection(c, cursor.SelectXY, cursor.MotionForward)
			}
			return
		}
		step := max(w.Len()-(c.Column-w.From), 1)
		e.stepHorizontal(c, step, shift, cursor.MotionForward)
		return
	}

	if e.buf.CharAt(c.Position(), 0) != "" {
		if !shift && c.Selection != nil && !c.Selection.IsEmpty() {
			c.Selection.InvertIfNecessary()
			c.SetPosition(c.Selection.To())
			e.endSelection(c)
			return
		}
		e.stepHorizontal(c, 1, shift, cursor.MotionForward)
		return
	}

	if shift && c.Selection == nil {
		e.cursors.StartSelection(c)
	} else if !shift {
		e.endSelection(c)
	}
	if e.lineDown(c) {
		c.Column = 0
		e.cursors.MergeLine(c.Line)
	}
	if shift {
		e.extendSelection(c, cursor.SelectXY, cursor.MotionForward)
	}
}

// stepHorizontal moves c by n columns within its line, extending or ending
// the selection.
func (e *Editor) stepHorizontal(c *cursor.Cursor, n int, shift bool, motion cursor.Motion) {
	if shift {
		if c.Selection == nil {
			e.cursors.StartSelection(c)
		}
		c.Column += n
		e.extendSelection(c, cursor.SelectX, motion)
		return
	}
	e.endSelection(c)
	c.Column += n
}
