package engine

import (
	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/renderer"
	"github.com/dshills/codecore/internal/renderer/highlight"
)

// Render returns a frame describing the visible part of the document.
func (e *Editor) Render() renderer.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := e.vp.Metrics()
	visible := e.vp.Visible()
	f := renderer.Frame{
		Editor:        e.id.String(),
		Lines:         renderer.Window(e.vp, e.provider),
		Visible:       visible,
		TopLine:       int(e.vp.ScrollTop() / m.LineHeight),
		LeftCell:      int(e.vp.ScrollLeft() / m.CharWidth),
		LineCount:     e.buf.LineCount(),
		TabWidth:      e.buf.TabWidth(),
		BlockComments: e.provider.BlockComments(visible.End),
	}
	for _, c := range e.cursors.All() {
		f.Carets = append(f.Carets, renderer.Caret{Point: c.Position(), Main: c.IsMain()})
		if c.Selection != nil && !c.Selection.IsEmpty() {
			f.Selections = append(f.Selections, c.Selection.Range())
		}
	}
	return f
}

// RenderLines returns the tokenized lines of the viewport window.
func (e *Editor) RenderLines() []renderer.Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return renderer.Window(e.vp, e.provider)
}

// Tokens returns the highlighted tokens of one line.
func (e *Editor) Tokens(line int) []highlight.Token {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.buf.HasLine(line) {
		return nil
	}
	return e.provider.Tokens(line)
}

// Cursor returns the position of the main cursor.
func (e *Editor) Cursor() buffer.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors.Main().Position()
}
