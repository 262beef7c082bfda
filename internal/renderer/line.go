package renderer

import (
	"github.com/dshills/codecore/internal/renderer/highlight"
	"github.com/dshills/codecore/internal/renderer/viewport"
)

// Line is one rendered document line.
type Line struct {
	// Number is the zero-based line index in the document.
	Number int
	Tokens []highlight.Token
	// Lang is the language key used as the first CSS class of spans.
	Lang string
}

// Text returns the line text.
func (l Line) Text() string {
	return highlight.Join(l.Tokens)
}

// HTML returns the line as escaped markup.
func (l Line) HTML() string {
	return highlight.HTML(l.Lang, l.Tokens)
}

// Window tokenizes the lines inside the viewport window.
func Window(vp *viewport.Viewport, p *highlight.Provider) []Line {
	r := vp.Visible()
	p.SetWindow(r.Start, r.End)
	key := ""
	if h := p.Highlighter(); h != nil {
		key = h.Language().Key
	}
	lines := make([]Line, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		lines = append(lines, Line{Number: i, Tokens: p.Tokens(i), Lang: key})
	}
	return lines
}
