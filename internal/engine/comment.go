package engine

import (
	"strings"

	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/engine/cursor"
)

// Comment prefixes the selected lines, or the lines holding a cursor, with
// the language's line comment token.
func (e *Editor) Comment() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.comment()
}

// BlockComment wraps the main selection in the language's block comment
// tokens.
func (e *Editor) BlockComment() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blockComment()
}

// Uncomment removes one line comment token from the selected lines, or the
// lines holding a cursor.
func (e *Editor) Uncomment() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.uncomment()
}

func (e *Editor) comment() {
	if !e.language.SingleLineComments {
		return
	}
	main := e.cursors.Main()
	if sel := main.Selection; sel != nil {
		e.commentSelection(main, sel)
		return
	}

	e.saveUndo(main, true)
	token := e.language.SingleLineCommentToken + " "
	for _, ln := range e.cursorLines() {
		line := e.buf.Line(ln)
		if strings.TrimSpace(line) == "" {
			continue
		}
		at := buffer.FirstNonSpace(line)
		e.buf.InsertAt(ln, at, token)
		e.shiftLine(ln, at, buffer.RuneLen(token))
	}
}

// commentSelection comments every non-blank selected line at the smallest
// indent among them, so the tokens line up.
func (e *Editor) commentSelection(c *cursor.Cursor, sel *cursor.Selection) {
	sel.InvertIfNecessary()
	e.saveUndo(c, true)

	indent := -1
	for ln := sel.FromY; ln <= sel.ToY; ln++ {
		line := e.buf.Line(ln)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if at := buffer.FirstNonSpace(line); indent < 0 || at < indent {
			indent = at
		}
	}
	if indent < 0 {
		return
	}

	token := e.language.SingleLineCommentToken + " "
	n := buffer.RuneLen(token)
	for ln := sel.FromY; ln <= sel.ToY; ln++ {
		if strings.TrimSpace(e.buf.Line(ln)) == "" {
			continue
		}
		e.buf.InsertAt(ln, indent, token)
		if sel.FromY == ln && sel.FromX >= indent {
			sel.FromX += n
		}
		if sel.ToY == ln && sel.ToX >= indent {
			sel.ToX += n
		}
		if c.Line == ln && c.Column >= indent {
			c.Column += n
		}
	}
}

func (e *Editor) blockComment() {
	if !e.language.BlockComments {
		return
	}
	c := e.cursors.Main()
	sel := c.Selection
	if sel == nil {
		return
	}
	sel.InvertIfNecessary()
	e.saveUndo(c, true)

	opener, closer := e.language.BlockCommentOpen, e.language.BlockCommentClose
	opener += " "
	closer = " " + closer
	n := buffer.RuneLen(opener)

	first := e.buf.Line(sel.FromY)
	at := 0
	if strings.TrimSpace(first) != "" {
		at = buffer.FirstNonSpace(first)
	}
	e.buf.InsertAt(sel.FromY, at, opener)
	e.buf.InsertAt(sel.ToY, e.buf.LineLen(sel.ToY), closer)

	if sel.FromX >= at {
		sel.FromX += n
	}
	if sel.SameLine() && sel.ToX >= at {
		sel.ToX += n
	}
	if c.Line == sel.FromY && c.Column >= at {
		c.Column += n
	}
}

func (e *Editor) uncomment() {
	if !e.language.SingleLineComments {
		return
	}
	main := e.cursors.Main()
	token := e.language.SingleLineCommentToken

	var lines []int
	if sel := main.Selection; sel != nil {
		sel.InvertIfNecessary()
		for ln := sel.FromY; ln <= sel.ToY; ln++ {
			lines = append(lines, ln)
		}
	} else {
		lines = e.cursorLines()
	}

	e.saveUndo(main, true)
	for _, ln := range lines {
		line := e.buf.Line(ln)
		remove := token + " "
		idx := strings.Index(line, remove)
		if idx < 0 {
			remove = token
			idx = strings.Index(line, remove)
		}
		if idx < 0 {
			continue
		}
		at := buffer.RuneLen(line[:idx])
		n := buffer.RuneLen(remove)
		e.buf.DeleteRange(buffer.Point{Line: ln, Column: at}, buffer.Point{Line: ln, Column: at + n})
		e.shiftLine(ln, at, -n)
	}
}

// cursorLines returns each line holding a cursor once, in cursor order.
func (e *Editor) cursorLines() []int {
	seen := make(map[int]bool)
	var lines []int
	for _, c := range e.cursors.All() {
		if !seen[c.Line] {
			seen[c.Line] = true
			lines = append(lines, c.Line)
		}
	}
	return lines
}

// shiftLine moves cursors and selection ends on line ln that sit at or
// after column at by n columns, never before at.
func (e *Editor) shiftLine(ln, at, n int) {
	shift := func(col int) int {
		if col < at {
			return col
		}
		return max(col+n, at)
	}
	for _, c := range e.cursors.All() {
		if c.Line == ln {
			c.Column = shift(c.Column)
		}
		if sel := c.Selection; sel != nil {
			if sel.FromY == ln {
				sel.FromX = shift(sel.FromX)
			}
			if sel.ToY == ln {
				sel.ToX = shift(sel.ToX)
			}
		}
	}
}
