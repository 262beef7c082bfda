// Package viewport decides which document lines are materialized for
// rendering and maps between pixels and document positions.
package viewport

import (
	"math"
	"sync"

	"github.com/dshills/codecore/internal/engine/buffer"
)

// Font size limits and defaults.
const (
	DefaultFontSize  = 14
	MinFontSize      = 9
	MaxFontSize      = 22
	DefaultCharWidth = 7.0
	// LinePadding is added to the font size to get the line height.
	LinePadding = 6
	// DefaultGutterWidth is the horizontal padding before column zero.
	DefaultGutterWidth = 48.0
	// DefaultClickSlop shifts pointer x toward the nearer column boundary.
	DefaultClickSlop = 3.0
)

// Metrics are the measurements the host supplies. All values are pixels,
// or cells for a terminal host.
type Metrics struct {
	FontSize   int
	CharWidth  float64
	LineHeight float64
	// Width and Height are the size of the scrolling container.
	Width, Height float64
	// XPadding is the space left of column zero, usually the gutter.
	XPadding float64
	// ClickSlop is added to pointer x before dividing by CharWidth.
	ClickSlop float64
}

// DefaultMetrics returns metrics for the default font in an empty container.
func DefaultMetrics() Metrics {
	return Metrics{
		FontSize:   DefaultFontSize,
		CharWidth:  DefaultCharWidth,
		LineHeight: DefaultFontSize + LinePadding,
		XPadding:   DefaultGutterWidth,
		ClickSlop:  DefaultClickSlop,
	}
}

// CellMetrics returns metrics for a terminal of the given size, where one
// character is one cell and one line is one row.
func CellMetrics(cols, rows, gutter int) Metrics {
	return Metrics{
		FontSize:   1,
		CharWidth:  1,
		LineHeight: 1,
		Width:      float64(max(cols-gutter, 1)),
		Height:     float64(max(rows, 1)),
		XPadding:   float64(gutter),
	}
}

// Range is a half-open span of lines [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of lines in the range.
func (r Range) Len() int {
	return max(r.End-r.Start, 0)
}

// Contains reports whether line falls inside the range.
func (r Range) Contains(line int) bool {
	return line >= r.Start && line < r.End
}

// Viewport tracks the scroll offset of a document view and the window of
// lines around it that are kept tokenized.
type Viewport struct {
	mu sync.RWMutex

	metrics Metrics
	margins MarginConfig

	scrollTop     float64
	scrollLeft    float64
	lastScrollTop float64

	lineCount int
	first     int
	visible   Range
}

// Option configures a Viewport.
type Option func(*Viewport)

// WithMetrics sets the initial metrics.
func WithMetrics(m Metrics) Option {
	return func(v *Viewport) {
		v.metrics = m
	}
}

// WithMargins sets the render margins.
func WithMargins(m MarginConfig) Option {
	return func(v *Viewport) {
		v.margins = m
	}
}

// New creates a viewport over a document of lineCount lines.
func New(lineCount int, opts ...Option) *Viewport {
	v := &Viewport{
		metrics:   DefaultMetrics(),
		margins:   DefaultMargins(),
		lineCount: max(lineCount, 1),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.metrics = sanitize(v.metrics)
	v.rewindow()
	return v
}

// sanitize keeps the divisors positive.
func sanitize(m Metrics) Metrics {
	if m.CharWidth <= 0 {
		m.CharWidth = DefaultCharWidth
	}
	if m.LineHeight <= 0 {
		m.LineHeight = float64(max(m.FontSize, 1) + LinePadding)
	}
	m.Width = math.Max(m.Width, 0)
	m.Height = math.Max(m.Height, 0)
	return m
}

// Metrics returns the current metrics.
func (v *Viewport) Metrics() Metrics {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.metrics
}

// SetMetrics replaces the metrics and recomputes the window.
func (v *Viewport) SetMetrics(m Metrics) Range {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.metrics = sanitize(m)
	v.clampScroll()
	return v.rewindow()
}

// SetFontSize changes the font size, clamped to MinFontSize..MaxFontSize.
// The line height becomes size+LinePadding and charWidth, measured by the
// host for the new font, replaces the old one. The window is recomputed
// before any other math uses the new metrics. It returns the size applied.
func (v *Viewport) SetFontSize(size int, charWidth float64) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	size = min(max(size, MinFontSize), MaxFontSize)
	v.metrics.FontSize = size
	v.metrics.LineHeight = float64(size + LinePadding)
	if charWidth > 0 {
		v.metrics.CharWidth = charWidth
	}
	v.clampScroll()
	v.rewindow()
	return size
}

// SetLineCount records the document length and recomputes the window.
func (v *Viewport) SetLineCount(n int) Range {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineCount = max(n, 1)
	v.clampScroll()
	return v.rewindow()
}

// LineCount returns the document length the viewport was last told about.
func (v *Viewport) LineCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lineCount
}

// Visible returns the current window of materialized lines.
func (v *Viewport) Visible() Range {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.visible
}

// rewindow places the window around the first line on screen, extended by
// the margins, and swallows the tail of the document when it is closer than
// the bottom margin (internal, no lock).
func (v *Viewport) rewindow() Range {
	v.first = int(v.scrollTop / v.metrics.LineHeight)
	total := v.linesOnScreen()
	start := max(0, v.first-v.margins.Up)
	end := min(v.lineCount, v.first+total+v.margins.Down)
	if diff := max(v.lineCount-end, 0); diff <= v.margins.Down {
		end += diff
	}
	v.visible = Range{Start: start, End: min(end, v.lineCount)}
	return v.visible
}

func (v *Viewport) linesOnScreen() int {
	return int(v.metrics.Height / v.metrics.LineHeight)
}

// LinesOnScreen returns how many whole lines fit in the container.
func (v *Viewport) LinesOnScreen() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.linesOnScreen()
}

// FirstLine returns the first line on screen as of the last re-window.
func (v *Viewport) FirstLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.first
}

// ScrollTop returns the vertical scroll offset.
func (v *Viewport) ScrollTop() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scrollTop
}

// ScrollLeft returns the horizontal scroll offset.
func (v *Viewport) ScrollLeft() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scrollLeft
}

// SetScrollTop scrolls vertically and reports whether the window moved.
// Scrolling down re-windows once the offset passes the boundary where the
// bottom margin starts running out; scrolling up re-windows once it passes
// above the window start.
func (v *Viewport) SetScrollTop(y float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.setScrollTop(y)
}

func (v *Viewport) setScrollTop(y float64) bool {
	v.scrollTop = y
	v.clampScroll()
	y = v.scrollTop

	lh := v.metrics.LineHeight
	rewindow := false
	if y > v.lastScrollTop {
		if v.visible.End < v.lineCount-1 {
			boundary := float64(max(v.visible.End-v.linesOnScreen(), 0)-1) * lh
			rewindow = y >= boundary
		}
	} else {
		rewindow = y < float64(v.visible.Start)*lh
	}
	v.lastScrollTop = y

	if !rewindow {
		return false
	}
	old := v.visible
	return v.rewindow() != old
}

// ScrollBy scrolls by a number of lines.
func (v *Viewport) ScrollBy(lines int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.setScrollTop(v.scrollTop + float64(lines)*v.metrics.LineHeight)
}

// MaxScrollTop returns the largest vertical offset that still shows the
// last line.
func (v *Viewport) MaxScrollTop() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.maxScrollTop()
}

func (v *Viewport) maxScrollTop() float64 {
	return math.Max(float64(v.lineCount)*v.metrics.LineHeight-v.metrics.Height, 0)
}

func (v *Viewport) clampScroll() {
	v.scrollTop = math.Min(math.Max(v.scrollTop, 0), v.maxScrollTop())
	v.scrollLeft = math.Max(v.scrollLeft, 0)
}

// Contains reports whether line is inside the window.
func (v *Viewport) Contains(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.visible.Contains(line)
}

// ToLocal converts a document line to its index within the window, or -1
// when the line is outside it.
func (v *Viewport) ToLocal(line int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.visible.Contains(line) {
		return -1
	}
	return line - v.visible.Start
}

// IsOnScreen reports whether line is inside the container, not merely in
// the window.
func (v *Viewport) IsOnScreen(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	lh := v.metrics.LineHeight
	top := float64(line) * lh
	return top+lh > v.scrollTop && top < v.scrollTop+v.metrics.Height
}

// EnsureVisible scrolls the least amount that puts line on screen and
// reports whether it scrolled.
func (v *Viewport) EnsureVisible(line int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	line = min(max(line, 0), v.lineCount-1)
	lh := v.metrics.LineHeight
	first := int(v.scrollTop / lh)
	last := int((v.metrics.Height + v.scrollTop) / lh)

	switch {
	case line < first:
		v.setScrollTop(float64(line) * lh)
	case line >= last && v.metrics.Height > 0:
		v.setScrollTop(float64(line+1)*lh - v.metrics.Height)
	default:
		return false
	}
	return true
}

// EnsureColumnVisible scrolls horizontally so col stays one character
// away from either edge. It reports whether it scrolled.
func (v *Viewport) EnsureColumnVisible(col int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	cw := v.metrics.CharWidth
	x := float64(col) * cw
	width := v.metrics.Width

	var next float64
	switch {
	case width > 0 && x >= v.scrollLeft+width-cw:
		next = math.Max(x-(width-cw), 0)
	case x < v.scrollLeft+cw:
		next = math.Max(x-cw, 0)
	default:
		return false
	}
	if next == v.scrollLeft {
		return false
	}
	v.scrollLeft = next
	return true
}

// CenterOn scrolls so line sits in the middle of the container.
func (v *Viewport) CenterOn(line int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	half := float64(v.linesOnScreen()/2) * v.metrics.LineHeight
	return v.setScrollTop(float64(line)*v.metrics.LineHeight - half)
}

// PositionAt maps a point in the container to a document position. The
// column is (x - XPadding + ClickSlop) / CharWidth, never negative; the line is
// clamped to the document. Column clamping to the line length is left to
// the caller, which owns the text.
func (v *Viewport) PositionAt(x, y float64) buffer.Point {
	v.mu.RLock()
	defer v.mu.RUnlock()

	m := v.metrics
	line := int((y + v.scrollTop) / m.LineHeight)
	col := int((x + v.scrollLeft - m.XPadding + m.ClickSlop) / m.CharWidth)
	return buffer.Point{
		Line:   min(max(line, 0), v.lineCount-1),
		Column: max(col, 0),
	}
}

// PixelOf returns the container coordinates of the top-left corner of p.
func (v *Viewport) PixelOf(p buffer.Point) (x, y float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	m := v.metrics
	x = float64(p.Column)*m.CharWidth + m.XPadding - v.scrollLeft
	y = float64(p.Line)*m.LineHeight - v.scrollTop
	return x, y
}
