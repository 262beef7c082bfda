package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/engine/cursor"
	"github.com/dshills/codecore/internal/engine/history"
	"github.com/dshills/codecore/internal/lang"
	"github.com/dshills/codecore/internal/renderer/highlight"
	"github.com/dshills/codecore/internal/renderer/viewport"
)

// Re-export commonly used types for convenience.
type (
	// Point is a line/column position.
	Point = buffer.Point

	// Range is an ordered span of positions.
	Range = buffer.Range

	// CursorState is a saved cursor.
	CursorState = cursor.State
)

// Editor is a document with cursors, history, highlighting and a viewport.
type Editor struct {
	mu sync.Mutex

	id     uuid.UUID
	logger zerolog.Logger

	buf      *buffer.Buffer
	cursors  *cursor.Set
	history  *history.History
	registry *lang.Registry
	language *lang.Language
	provider *highlight.Provider
	vp       *viewport.Viewport

	clipboard Clipboard
	onSave    func(text string) error
	measure   func(fontSize int) float64
	now       func() time.Time

	// Configuration
	tabSpaces     int
	cacheSize     int
	scriptTimeout time.Duration
	fontSizing    bool
	langName      string
	metrics       viewport.Metrics
	margins       viewport.MarginConfig
	historyOpts   []history.Option

	// Per-event state
	keyChain   string
	nextOffset int
	skipUndo   bool
	clip       clipboardOp
	saveWanted bool

	// Mouse state
	mouseDown     bool
	extending     bool
	lastMouseDown time.Time

	// Search state, cleared whenever selections end.
	lastQuery   string
	lastResult  *Point
	occurrences map[Point]bool
}

// New creates an editor holding an empty document.
func New(opts ...Option) *Editor {
	e := &Editor{
		id:         uuid.New(),
		logger:     zerolog.Nop(),
		registry:   lang.NewBuiltinRegistry(),
		now:        time.Now,
		tabSpaces:  DefaultTabSpaces,
		cacheSize:  DefaultCacheSize,
		fontSizing: true,
		metrics:    viewport.DefaultMetrics(),
		margins:    viewport.DefaultMargins(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.buf = buffer.New(buffer.WithTabWidth(e.tabSpaces))
	e.cursors = cursor.NewSet()
	e.history = history.New(append([]history.Option{history.WithLogger(e.logger)}, e.historyOpts...)...)
	e.vp = viewport.New(e.buf.LineCount(), viewport.WithMetrics(e.metrics), viewport.WithMargins(e.margins))
	e.language = e.registry.Lookup(e.langName)
	e.provider = highlight.NewProvider(e.newHighlighter(e.language), e.buf.Line, e.cacheSize)
	e.buf.OnChange(e.bufferChanged)

	e.logger = e.logger.With().Str("editor", e.id.String()).Logger()
	return e
}

func (e *Editor) newHighlighter(l *lang.Language) *highlight.Highlighter {
	opts := []highlight.Option{highlight.WithLogger(e.logger)}
	if e.scriptTimeout > 0 {
		opts = append(opts, highlight.WithScriptTimeout(e.scriptTimeout))
	}
	return highlight.New(l, opts...)
}

// bufferChanged keeps the tokenizer cache and the viewport in step with the
// document.
func (e *Editor) bufferChanged(c buffer.Change) {
	e.provider.InvalidateLines(c.FirstLine)
	if c.LinesDelta != 0 {
		e.vp.SetLineCount(e.buf.LineCount())
	}
}

// ID returns the editor's unique identifier.
func (e *Editor) ID() uuid.UUID {
	return e.id
}

// Close releases the highlighter.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if h := e.provider.Highlighter(); h != nil {
		h.Close()
	}
}

// ============================================================================
// Document
// ============================================================================

// Text returns the document joined with newlines.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Text()
}

// Lines returns a copy of the document lines.
func (e *Editor) Lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Lines()
}

// LineCount returns the number of lines.
func (e *Editor) LineCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.LineCount()
}

// Line returns one line of the document, or "" outside it.
func (e *Editor) Line(i int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Line(i)
}

// SetText replaces the document. Secondary cursors are dropped and the main
// cursor moves to the end of the text. A non-empty language selects the
// highlighting language; an unknown name is an error and leaves the
// language unchanged. History is kept, so the replacement can be undone
// only if the caller saved before it.
func (e *Editor) SetText(text, language string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var l *lang.Language
	if language != "" {
		var err error
		if l, err = e.registry.Get(language); err != nil {
			return err
		}
	}

	e.buf.SetText(text)
	e.vp.SetLineCount(e.buf.LineCount())
	e.endSelection(nil)
	e.cursors.RemoveSecondary()
	e.cursors.Main().SetPosition(e.buf.End())
	if l != nil {
		e.setLanguage(l)
	}
	e.scrollToMain()
	return nil
}

// Open loads a file's contents, choosing the language from the file name
// or, failing that, from the text. History is cleared and the cursor goes
// to the start of the document.
func (e *Editor) Open(filename, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.buf.SetText(text)
	e.vp.SetLineCount(e.buf.LineCount())
	e.endSelection(nil)
	e.cursors.RemoveSecondary()
	e.cursors.Main().SetPosition(Point{})
	e.history.Clear()
	e.vp.ScrollToTop()

	l, ok := e.registry.DetectFile(filename, text)
	if !ok {
		l = e.registry.PlainText()
	}
	e.setLanguage(l)
	e.logger.Debug().Str("file", filename).Str("lang", l.Name).Int("lines", e.buf.LineCount()).Msg("opened")
}

// InsertText inserts text at every cursor as one undoable edit, replacing
// selections.
func (e *Editor) InsertText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saveUndo(e.cursors.Main(), true)
	e.forEachCursor(false, func(c *cursor.Cursor) {
		e.insertText(c, text)
	})
	e.scrollToMain()
}

// ============================================================================
// Language
// ============================================================================

// Language returns the highlighting language.
func (e *Editor) Language() *lang.Language {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.language
}

// SetLanguage selects the highlighting language by name or key.
func (e *Editor) SetLanguage(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, err := e.registry.Get(name)
	if err != nil {
		return err
	}
	e.setLanguage(l)
	return nil
}

// SetRegistry swaps in a new language registry, for example after language
// files were reloaded. The current language is looked up again by name and
// falls back to Plain Text when it no longer exists.
func (e *Editor) SetRegistry(r *lang.Registry) {
	if r == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registry = r
	e.setLanguage(r.Lookup(e.language.Name))
}

func (e *Editor) setLanguage(l *lang.Language) {
	old := e.provider.Highlighter()
	e.language = l
	e.provider.SetHighlighter(e.newHighlighter(l))
	if old != nil {
		old.Close()
	}
	e.logger.Debug().Str("lang", l.Name).Msg("language changed")
}

// ============================================================================
// Cursors
// ============================================================================

// Cursors returns the state of every cursor in creation order.
func (e *Editor) Cursors() []CursorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors.Save()
}

// MainCursor returns the state of the main cursor.
func (e *Editor) MainCursor() CursorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors.Main().Save()
}

// SetCursor drops secondary cursors and selections and moves the main
// cursor, clamped to the document.
func (e *Editor) SetCursor(line, column int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endSelection(nil)
	e.cursors.RemoveSecondary()
	e.cursors.Main().SetPosition(e.buf.Clamp(Point{Line: line, Column: column}))
	e.scrollToMain()
}

// AddCursor adds a secondary cursor. It returns false if a cursor already
// sat at the position; that cursor is removed unless it is the main one.
func (e *Editor) AddCursor(line, column int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.buf.Clamp(Point{Line: line, Column: column})
	return e.cursors.Add(p.Line, p.Column, false) != nil
}

// Select gives the main cursor a selection from one position to another and
// places the cursor at the to end.
func (e *Editor) Select(from, to Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	from, to = e.buf.Clamp(from), e.buf.Clamp(to)
	e.endSelection(nil)
	c := e.cursors.Main()
	c.SetPosition(to)
	c.Selection = &cursor.Selection{FromX: from.Column, FromY: from.Line, ToX: to.Column, ToY: to.Line}
}

// SelectedText returns the text selected by the main cursor.
func (e *Editor) SelectedText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel := e.cursors.Main().Selection
	if sel == nil {
		return ""
	}
	r := sel.Range()
	return e.buf.Slice(r.Start, r.End)
}

// forEachCursor runs fn on every cursor in creation order, carrying the
// column and line offsets each one produces to the next cursor on the same
// line. With arrows set, no offset is carried.
func (e *Editor) forEachCursor(arrows bool, fn func(c *cursor.Cursor)) {
	var (
		prev   *cursor.State
		dx, dy int
	)
	for _, c := range e.cursors.All() {
		if e.cursors.Get(c.ID()) == nil {
			continue // merged away by an earlier cursor
		}
		switch {
		case prev != nil && prev.Line == c.Line && !arrows:
			c.Column += dx
			c.Line += dy
			if c.Selection != nil {
				c.Selection.Shift(dx, dy)
			}
		case prev != nil && prev.Line != c.Line:
			dx = 0
		}

		before := c.Save()
		prev = &before
		e.nextOffset = 0

		fn(c)

		dx += c.Column - before.Column + e.nextOffset
		dy += c.Line - before.Line
	}
	e.nextOffset = 0
	e.cursors.Clamp(e.buf)
}

// endSelection ends one cursor's selection, or every selection when c is
// nil, together with the search state tied to them.
func (e *Editor) endSelection(c *cursor.Cursor) {
	e.lastResult = nil
	e.occurrences = nil
	if c == nil {
		e.cursors.EndAllSelections()
		return
	}
	e.cursors.EndSelection(c)
}

// extendSelection moves the cursor's selection end to the cursor.
func (e *Editor) extendSelection(c *cursor.Cursor, flags cursor.Flags, motion cursor.Motion) {
	if !e.cursors.UpdateSelection(c, flags, motion) {
		e.lastResult = nil
		e.occurrences = nil
	}
}

// ============================================================================
// History
// ============================================================================

func (e *Editor) snapshot() history.Snapshot {
	return history.NewSnapshot(e.buf.Lines(), e.cursors.Save())
}

// saveUndo records the state before an edit made through c. Only the main
// cursor records.
func (e *Editor) saveUndo(c *cursor.Cursor, force bool) {
	if e.skipUndo || !c.IsMain() {
		return
	}
	e.history.Save(e.snapshot(), force, true)
}

func (e *Editor) restore(s history.Snapshot) {
	e.buf.Replace(s.Lines)
	e.vp.SetLineCount(e.buf.LineCount())
	e.lastResult = nil
	e.occurrences = nil
	e.cursors.Restore(s.Cursors)
	e.cursors.Clamp(e.buf)
	e.scrollToMain()
}

// Undo restores the state before the last recorded edit. It returns false
// when there is nothing to undo.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo()
}

// Redo reapplies the last undone edit. It returns false when there is
// nothing to redo.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redo()
}

func (e *Editor) undo() bool {
	s, err := e.history.Undo(e.snapshot())
	if err != nil {
		return false
	}
	e.restore(s)
	e.logger.Debug().Int("undo", e.history.UndoCount()).Int("redo", e.history.RedoCount()).Msg("undo")
	return true
}

func (e *Editor) redo() bool {
	s, err := e.history.Redo(e.snapshot())
	if err != nil {
		return false
	}
	e.restore(s)
	e.logger.Debug().Int("undo", e.history.UndoCount()).Int("redo", e.history.RedoCount()).Msg("redo")
	return true
}

// CanUndo reports whether Undo would do anything.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// ============================================================================
// Viewport
// ============================================================================

// Viewport returns the editor's viewport. Callers sharing the editor with
// other goroutines should use SetMetrics instead of mutating it.
func (e *Editor) Viewport() *viewport.Viewport {
	return e.vp
}

// Revision returns the document revision, which changes with every edit.
func (e *Editor) Revision() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Revision()
}

// SetMetrics replaces the viewport metrics, for example after the host
// window was resized, and keeps the main cursor on screen.
func (e *Editor) SetMetrics(m viewport.Metrics) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vp.SetMetrics(m)
	e.scrollToMain()
}

// FontSize returns the current font size.
func (e *Editor) FontSize() int {
	return e.vp.Metrics().FontSize
}

// SetFontSize changes the font size, clamped to the viewport limits, and
// returns the size applied.
func (e *Editor) SetFontSize(size int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setFontSize(size)
}

func (e *Editor) setFontSize(size int) int {
	m := e.vp.Metrics()
	size = min(max(size, viewport.MinFontSize), viewport.MaxFontSize)
	var cw float64
	switch {
	case e.measure != nil:
		cw = e.measure(size)
	case m.FontSize > 0:
		cw = m.CharWidth * float64(size) / float64(m.FontSize)
	}
	applied := e.vp.SetFontSize(size, cw)
	e.logger.Debug().Int("size", applied).Float64("charWidth", e.vp.Metrics().CharWidth).Msg("font size")
	return applied
}

// scrollToMain scrolls so the main cursor is on screen.
func (e *Editor) scrollToMain() {
	c := e.cursors.Main()
	e.vp.EnsureVisible(c.Line)
	e.vp.EnsureColumnVisible(c.Column)
}
