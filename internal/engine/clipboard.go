package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/engine/cursor"
)

// Clipboard is the text transport for copy, cut and paste.
// Implementations may block; the editor never holds its lock while calling
// them.
type Clipboard interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, text string) error
}

// MemoryClipboard is an in-process Clipboard.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// NewMemoryClipboard creates an empty clipboard.
func NewMemoryClipboard() *MemoryClipboard {
	return &MemoryClipboard{}
}

// Read returns the stored text.
func (m *MemoryClipboard) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// Write replaces the stored text.
func (m *MemoryClipboard) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// clipboardOp carries clipboard traffic for one key event. Paste text is
// read before the editor lock is taken and copied text is written after it
// is released.
type clipboardOp struct {
	in    string
	out   string
	write bool
}

// copyText queues the selection, or a newline and the cursor's line when
// nothing is selected.
func (e *Editor) copyText(c *cursor.Cursor) {
	e.clip.out = e.clipboardText(c)
	e.clip.write = true
}

func (e *Editor) clipboardText(c *cursor.Cursor) string {
	if c.Selection == nil {
		return "\n" + e.buf.Line(c.Line)
	}
	c.Selection.InvertIfNecessary()
	return e.buf.Slice(c.Selection.From(), c.Selection.To())
}

// cut queues the same text as copyText and removes it. Without a selection
// the whole line goes.
func (e *Editor) cut(c *cursor.Cursor) {
	e.saveUndo(c, true)
	e.clip.out = e.clipboardText(c)
	e.clip.write = true

	if c.Selection != nil {
		e.deleteSelection(c)
		return
	}
	ln := c.Line
	_ = e.buf.RemoveLines(ln, 1)
	c.Column = 0
	if !e.buf.HasLine(ln) {
		e.lineUp(c)
	}
}

// paste inserts the clipboard text at c with tabs expanded. Pasting into an
// empty document also picks a language for the pasted text.
func (e *Editor) paste(c *cursor.Cursor) {
	detect := e.buf.LineCount() == 1 && e.buf.Line(0) == ""
	text := strings.ReplaceAll(e.clip.in, "\t", strings.Repeat(" ", e.tabSpaces))

	e.saveUndo(c, true)
	e.insertText(c, text)

	if detect {
		if l, ok := e.registry.Detect(text); ok {
			e.setLanguage(l)
		}
	}
}

// insertText replaces the selection of c, if any, with text and leaves the
// cursor after it.
func (e *Editor) insertText(c *cursor.Cursor, text string) {
	if c.Selection != nil {
		e.deleteSelection(c)
	}
	e.endSelection(nil)
	end := e.buf.InsertAt(c.Line, c.Column, strings.ReplaceAll(text, "\r", ""))
	c.SetPosition(end)
}

// lineEnd returns the position after the last rune of line.
func (e *Editor) lineEnd(line int) buffer.Point {
	return buffer.Point{Line: line, Column: e.buf.LineLen(line)}
}
