// Package statusline formats and draws the bar under the text: file,
// language and cursor position, or a transient message.
package statusline

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/codecore/internal/renderer/backend"
	"github.com/dshills/codecore/internal/renderer/highlight"
)

// MessageType selects how a message is drawn.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// Info is the state shown by the bar.
type Info struct {
	File     string
	Language string
	Modified bool
	// Line and Column are zero-based; the bar shows them one-based.
	Line, Column int
	Lines        int
	Cursors      int

	Message     string
	MessageType MessageType
}

// Left returns the text drawn at the left edge.
func (i Info) Left() string {
	if i.Message != "" {
		return " " + i.Message
	}
	name := i.File
	if name == "" {
		name = "[No Name]"
	}
	if i.Modified {
		name += " [+]"
	}
	return " " + name
}

// Right returns the text drawn at the right edge, or "" while a message
// is shown.
func (i Info) Right() string {
	if i.Message != "" {
		return ""
	}
	s := fmt.Sprintf("Ln %d, Col %d", i.Line+1, i.Column+1)
	if i.Cursors > 1 {
		s = fmt.Sprintf("%d cursors  %s", i.Cursors, s)
	}
	if i.Lines > 0 {
		s += fmt.Sprintf(" | %d%%", (i.Line+1)*100/i.Lines)
	}
	if i.Language != "" {
		s += "  " + i.Language
	}
	return s + " "
}

// Style returns the bar style for a theme.
func (i Info) Style(t *highlight.Theme) tcell.Style {
	base := tcell.StyleDefault.Background(t.LineHighlight).Foreground(t.Foreground)
	switch i.MessageType {
	case MessageError:
		return base.Foreground(tcell.ColorRed).Bold(true)
	case MessageWarning:
		return base.Foreground(tcell.ColorYellow)
	}
	return base
}

// Draw paints the bar on one row. The right part is dropped when both do
// not fit.
func Draw(b backend.Backend, row, width int, info Info, t *highlight.Theme) {
	style := info.Style(t)
	b.Fill(0, row, width, 1, ' ', style)

	left, right := info.Left(), info.Right()
	lw, rw := runewidth.StringWidth(left), runewidth.StringWidth(right)
	put(b, 0, row, width, left, style)
	if right != "" && lw+rw < width {
		put(b, width-rw, row, width, right, style)
	}
}

func put(b backend.Backend, x, row, width int, s string, style tcell.Style) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if x+w > width {
			return
		}
		b.SetContent(x, row, r, style)
		x += max(w, 1)
	}
}
