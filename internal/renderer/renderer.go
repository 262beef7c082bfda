package renderer

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/renderer/backend"
	"github.com/dshills/codecore/internal/renderer/gutter"
	"github.com/dshills/codecore/internal/renderer/highlight"
	"github.com/dshills/codecore/internal/renderer/statusline"
)

// Options configures the renderer.
type Options struct {
	Gutter               gutter.Config
	CursorStyle          backend.CursorStyle
	HighlightCurrentLine bool
	// StatusLine reserves the bottom row for the status bar.
	StatusLine bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Gutter:               gutter.DefaultConfig(),
		CursorStyle:          backend.CursorBlock,
		HighlightCurrentLine: true,
	}
}

// Renderer draws frames onto a backend.
type Renderer struct {
	mu sync.Mutex

	backend backend.Backend
	theme   *highlight.Theme
	gutter  *gutter.Gutter
	opts    Options
	status  statusline.Info

	frames uint64
}

// New creates a renderer. A nil theme selects the default theme.
func New(b backend.Backend, theme *highlight.Theme, opts Options) *Renderer {
	if theme == nil {
		theme = highlight.DefaultTheme()
	}
	b.SetCursorStyle(opts.CursorStyle)
	return &Renderer{
		backend: b,
		theme:   theme,
		gutter:  gutter.New(opts.Gutter),
		opts:    opts,
	}
}

// SetTheme changes the theme used by later frames.
func (r *Renderer) SetTheme(t *highlight.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t != nil {
		r.theme = t
	}
}

// Theme returns the current theme.
func (r *Renderer) Theme() *highlight.Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// GutterWidth returns the gutter width for a document of lineCount lines.
func (r *Renderer) GutterWidth(lineCount int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gutter.SetLineCount(lineCount)
	return r.gutter.Width()
}

// SetStatus sets what the status bar shows in later frames.
func (r *Renderer) SetStatus(info statusline.Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = info
}

// TextRows returns how many of the backend's rows show text.
func (r *Renderer) TextRows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, h := r.backend.Size()
	return r.textRows(h)
}

func (r *Renderer) textRows(h int) int {
	if r.opts.StatusLine {
		return max(h-1, 0)
	}
	return h
}

// FrameCount returns the number of frames drawn.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Draw paints a frame and flushes it to the backend.
func (r *Renderer) Draw(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, screenH := r.backend.Size()
	base := r.theme.Base()
	r.backend.Fill(0, 0, w, screenH, ' ', base)
	h := r.textRows(screenH)

	tabWidth := f.TabWidth
	if tabWidth <= 0 {
		tabWidth = 4
	}
	main, hasMain := f.Main()

	r.gutter.SetLineCount(f.LineCount)
	r.gutter.SetCurrentLine(main.Line)
	r.gutter.SetBlockComments(f.BlockComments)
	gw := r.gutter.Width()

	for row := 0; row < h; row++ {
		n := f.TopLine + row
		line, ok := f.Line(n)
		if !ok {
			break
		}
		current := hasMain && n == main.Line
		lineBase := base
		if current && r.opts.HighlightCurrentLine {
			lineBase = base.Background(r.theme.LineHighlight)
			r.backend.Fill(gw, row, w-gw, 1, ' ', lineBase)
		}
		r.drawGutter(row, n)
		r.drawLine(f, line, row, gw, w, tabWidth, lineBase)
	}

	if r.opts.StatusLine && screenH > 0 {
		statusline.Draw(r.backend, screenH-1, w, r.status, r.theme)
	}
	r.placeCursor(f, main, hasMain, gw, w, h, tabWidth)
	r.backend.Show()
	r.frames++
}

func (r *Renderer) drawGutter(row, line int) {
	label, current := r.gutter.Label(line)
	style := tcell.StyleDefault.Foreground(r.theme.Gutter).Background(r.theme.Background)
	if current {
		style = style.Foreground(r.theme.Foreground).Bold(true)
	}
	for x, ch := range []rune(label) {
		r.backend.SetContent(x, row, ch, style)
	}
}

func (r *Renderer) drawLine(f Frame, line Line, row, gw, w, tabWidth int, lineBase tcell.Style) {
	_, bg, _ := lineBase.Decompose()
	cell, col := 0, 0
	for _, tok := range line.Tokens {
		style := r.theme.Style(tok.Class)
		if bg != r.theme.Background {
			style = style.Background(bg)
		}
		for _, ch := range tok.Text {
			width := runeCells(ch, cell, tabWidth)
			p := buffer.Point{Line: line.Number, Column: col}
			s := style
			if f.selected(p) {
				s = s.Background(r.theme.Selection)
			}
			if f.secondaryAt(p) {
				s = s.Reverse(true)
			}
			r.put(ch, gw+cell-f.LeftCell, row, width, gw, w, s)
			cell += width
			col++
		}
	}

	// A secondary caret at the end of the line has no rune to invert.
	if f.secondaryAt(buffer.Point{Line: line.Number, Column: col}) {
		r.put(' ', gw+cell-f.LeftCell, row, 1, gw, w, lineBase.Reverse(true))
	}
}

// put draws one rune of the given cell width if it fits between the gutter
// and the right edge. Tabs are drawn as spaces.
func (r *Renderer) put(ch rune, x, row, width, gw, w int, s tcell.Style) {
	if x < gw || x+width > w {
		return
	}
	if ch == '\t' {
		for i := 0; i < width; i++ {
			r.backend.SetContent(x+i, row, ' ', s)
		}
		return
	}
	r.backend.SetContent(x, row, ch, s)
}

func (r *Renderer) placeCursor(f Frame, main Caret, ok bool, gw, w, h, tabWidth int) {
	row := main.Line - f.TopLine
	line, inWindow := f.Line(main.Line)
	if !ok || !inWindow || row < 0 || row >= h {
		r.backend.HideCursor()
		return
	}
	x := gw + CellOf(line.Text(), main.Column, tabWidth) - f.LeftCell
	if x < gw || x >= w {
		r.backend.HideCursor()
		return
	}
	r.backend.ShowCursor(x, row)
}
