package engine

import (
	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/engine/cursor"
)

// duplicateLine copies the cursor's line below itself and moves the cursor
// onto the copy.
func (e *Editor) duplicateLine(c *cursor.Cursor) {
	e.endSelection(nil)
	e.saveUndo(c, true)
	_ = e.buf.InsertLines(c.Line, e.buf.Line(c.Line))
	c.Line++
}

// swapLine exchanges the cursor's line with its neighbour above (dir -1) or
// below (dir 1). The cursor travels with its line.
func (e *Editor) swapLine(c *cursor.Cursor, dir int) {
	target := c.Line + dir
	if !e.buf.HasLine(target) {
		return
	}
	e.saveUndo(c, true)
	e.buf.SwapLines(c.Line, target)
	c.Line = target
	if c.Selection != nil {
		c.Selection.Shift(0, dir)
	}
}

// SelectAll selects the whole document with the main cursor.
func (e *Editor) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selectAll()
}

func (e *Editor) selectAll() {
	e.endSelection(nil)
	e.cursors.RemoveSecondary()
	c := e.cursors.Main()
	c.SetPosition(buffer.Point{})
	e.cursors.StartSelection(c)
	end := e.buf.End()
	c.Selection.ToX, c.Selection.ToY = end.Column, end.Line
	c.SetPosition(end)
}

// GoToLine moves the main cursor to the start of a one-based line number,
// clamped to the document, and scrolls it into view.
func (e *Editor) GoToLine(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endSelection(nil)
	e.cursors.RemoveSecondary()
	c := e.cursors.Main()
	c.SetPosition(buffer.Point{Line: e.buf.ClampLine(n - 1)})
	e.scrollToMain()
}
