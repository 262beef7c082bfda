package engine

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/codecore/internal/engine/cursor"
	"github.com/dshills/codecore/internal/input"
)

// closers maps an opening character to the one inserted after it.
var closers = map[string]string{
	`"`: `"`,
	`'`: `'`,
	"(": ")",
	"{": "}",
	"[": "]",
}

// HandleEvent applies one input event.
//
// The paste key reads the clipboard before the editor is locked, and copied
// or cut text is written after it is unlocked. Clipboard failures are
// returned; the edit itself has already been applied when a write fails.
func (e *Editor) HandleEvent(ctx context.Context, ev input.Event) error {
	if ev.Kind != input.KeyPress {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.handleMouse(ev)
		return nil
	}

	var pasted string
	if command(ev) && strings.ToLower(ev.Key) == "v" {
		if e.clipboard == nil {
			return ErrNoClipboard
		}
		text, err := e.clipboard.Read(ctx)
		if err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
		pasted = text
	}

	e.mu.Lock()
	e.clip = clipboardOp{in: pasted}
	e.saveWanted = false
	e.processKey(ev)
	op, save := e.clip, e.saveWanted
	var text string
	if save {
		text = e.buf.Text()
	}
	e.clip = clipboardOp{}
	e.mu.Unlock()

	if op.write {
		if e.clipboard == nil {
			return ErrNoClipboard
		}
		if err := e.clipboard.Write(ctx, op.out); err != nil {
			return fmt.Errorf("write clipboard: %w", err)
		}
	}
	if save && e.onSave != nil {
		if err := e.onSave(text); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// command reports whether Ctrl or Meta is held.
func command(ev input.Event) bool {
	return ev.Modifiers.Ctrl || ev.Modifiers.Meta
}

func (e *Editor) processKey(ev input.Event) {
	if command(ev) && e.globalKey(ev) {
		e.cursors.Clamp(e.buf)
		e.scrollToMain()
		return
	}
	e.forEachCursor(ev.IsArrow(), func(c *cursor.Cursor) {
		e.keyAtCursor(c, ev)
	})
	e.scrollToMain()
}

// globalKey handles shortcuts that act on the whole editor rather than on
// each cursor. It reports whether the key was consumed.
func (e *Editor) globalKey(ev input.Event) bool {
	key := strings.ToLower(ev.Key)
	switch key {
	case "a":
		e.selectAll()
	case "b", "c", "u":
		if e.keyChain != "k" {
			return false
		}
		e.keyChain = ""
		switch key {
		case "b":
			e.blockComment()
		case "c":
			e.comment()
		case "u":
			e.uncomment()
		}
		return true
	case "d":
		e.selectNextOccurrence()
	case "k":
		e.keyChain = "k"
		return true
	case "s":
		e.saveWanted = true
	case "y":
		e.redo()
	case "z":
		e.undo()
	case "+", "=":
		if !e.fontSizing {
			return false
		}
		e.setFontSize(e.vp.Metrics().FontSize + 1)
	case "-":
		if !e.fontSizing {
			return false
		}
		e.setFontSize(e.vp.Metrics().FontSize - 1)
	default:
		e.keyChain = ""
		return false
	}
	e.keyChain = ""
	return true
}

// keyAtCursor applies one key to one cursor.
func (e *Editor) keyAtCursor(c *cursor.Cursor, ev input.Event) {
	act, isAction := actions[ev.Key]
	if !isAction && !ev.IsChar() {
		return
	}
	mods := ev.Modifiers
	key := ev.Key
	if !isAction {
		key = strings.ToLower(key)
	}

	if command(ev) {
		switch key {
		case "c":
			e.copyText(c)
			return
		case "v":
			e.paste(c)
			return
		case "x":
			e.cut(c)
			return
		case input.KeyArrowDown:
			if !mods.Shift {
				if e.cursors.IsLast(c) {
					e.cursors.Add(c.Line, c.Column, true)
					e.lineDown(c)
				}
				return
			}
		}
	}

	if mods.Alt {
		switch key {
		case "d":
			e.duplicateLine(c)
			return
		case input.KeyArrowUp:
			e.swapLine(c, -1)
			return
		case input.KeyArrowDown:
			e.swapLine(c, 1)
			return
		}
	}

	if isAction {
		if c.Selection != nil && act.deletesSelection && (act.keep == nil || !act.keep(ev, c)) {
			e.saveUndo(c, true)
			e.deleteSelection(c)
			e.skipUndo = true
			defer func() { e.skipUndo = false }()
		}
		act.run(e, c, ev)
		return
	}

	if command(ev) {
		return
	}
	e.typeChar(c, ev.Key)
}

// typeChar types one character at c.
//
// Quotes, parentheses and braces typed over a single-line selection enclose
// it. Typing a closing character in front of the same character steps over
// it, and an opening character followed by whitespace or the end of the line
// also inserts its closer.
func (e *Editor) typeChar(c *cursor.Cursor, key string) {
	e.saveUndo(c, false)
	startCol := c.Column

	if sel := c.Selection; sel != nil && !sel.IsEmpty() && sel.SameLine() && encloses(key) {
		sel.InvertIfNecessary()
		closer := closers[key]
		e.buf.InsertAt(sel.FromY, sel.FromX, key)
		e.buf.InsertAt(sel.ToY, sel.ToX+1, closer)
		c.Line = sel.ToY
		c.Column = sel.ToX + 1
		sel.Shift(1, 0)
		e.nextOffset = 2 - (c.Column - startCol)
		return
	}
	if c.Selection != nil {
		e.deleteSelection(c)
	}

	next := e.buf.CharAt(c.Position(), 0)
	if isCloser(key) && next == key {
		c.Column++
		e.nextOffset = -1
		return
	}

	e.buf.InsertAt(c.Line, c.Column, key)
	c.Column++

	if closer, ok := closers[key]; ok && (next == "" || isSpace(next)) {
		e.buf.InsertAt(c.Line, c.Column, closer)
		e.nextOffset++
	}
}

func encloses(key string) bool {
	switch key {
	case `"`, `'`, "(", "{":
		return true
	}
	return false
}

func isCloser(key string) bool {
	switch key {
	case `"`, `'`, ")", "}", "]":
		return true
	}
	return false
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return s != ""
}
