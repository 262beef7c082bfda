package engine

import (
	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/engine/cursor"
	"github.com/dshills/codecore/internal/input"
)

// handleMouse applies a pointer event. Positions are container coordinates
// as understood by the viewport.
func (e *Editor) handleMouse(ev input.Event) {
	switch ev.Kind {
	case input.MouseDown:
		e.press(ev)
	case input.MouseMove:
		if !e.mouseDown && !ev.Pressed {
			return
		}
		e.drag(ev)
	case input.MouseUp:
		e.release(ev)
	case input.Click:
		switch ev.Clicks {
		case 2:
			e.selectWord()
		case 3:
			e.selectLine()
		}
	case input.Wheel:
		e.vp.ScrollBy(int(ev.DeltaY))
		return
	}
	e.cursors.Clamp(e.buf)
	e.scrollToMain()
}

// pointAt maps container coordinates to a position inside the document.
func (e *Editor) pointAt(ev input.Event) buffer.Point {
	p := e.vp.PositionAt(ev.Position.X, ev.Position.Y)
	return e.buf.Clamp(p)
}

func (e *Editor) stampPress(ev input.Event) {
	e.lastMouseDown = ev.Time
	if e.lastMouseDown.IsZero() {
		e.lastMouseDown = e.now()
	}
}

func (e *Editor) press(ev input.Event) {
	e.mouseDown = true
	e.stampPress(ev)
	mods := ev.Modifiers

	if mods.Shift && !mods.Alt {
		e.extending = true
		c := e.cursors.Main()
		if c.Selection == nil {
			e.cursors.StartSelection(c)
		}
		c.SetPosition(e.pointAt(ev))
		e.extendSelection(c, cursor.SelectXY, cursor.MotionMouse)
		return
	}

	e.endSelection(nil)
	p := e.pointAt(ev)
	if mods.Alt {
		e.cursors.Add(p.Line, p.Column, false)
		return
	}
	e.cursors.RemoveSecondary()
	e.cursors.Main().SetPosition(p)
}

// drag extends the main selection from where the button went down to the
// pointer.
func (e *Editor) drag(ev input.Event) {
	c := e.cursors.Main()
	if c.Selection == nil {
		e.cursors.StartSelection(c)
	}
	c.SetPosition(e.pointAt(ev))
	e.extendSelection(c, cursor.SelectXY, cursor.MotionMouse)
}

// release ends the press. A quick click leaves no selection behind, nor
// does a drag that never left its starting position.
func (e *Editor) release(ev input.Event) {
	at := ev.Time
	if at.IsZero() {
		at = e.now()
	}
	if !e.extending && at.Sub(e.lastMouseDown) < QuickRelease {
		e.endSelection(nil)
	}
	if sel := e.cursors.Main().Selection; sel != nil && sel.IsEmpty() {
		e.endSelection(e.cursors.Main())
	}
	e.mouseDown = false
	e.extending = false
}

// selectWord selects the word under the main cursor.
func (e *Editor) selectWord() {
	c := e.cursors.Main()
	w := cursor.WordAt(e.buf.Line(c.Line), c.Column, 0)
	if w.Len() == 0 {
		return
	}
	c.Selection = &cursor.Selection{FromX: w.From, FromY: c.Line, ToX: w.To, ToY: c.Line}
	c.Column = w.To
}

// selectLine selects the main cursor's whole line.
func (e *Editor) selectLine() {
	c := e.cursors.Main()
	n := e.buf.LineLen(c.Line)
	c.Selection = &cursor.Selection{FromY: c.Line, ToX: n, ToY: c.Line}
	c.Column = n
	e.cursors.SetTripleClick(true)
	e.cursors.MergeLine(c.Line)
}
