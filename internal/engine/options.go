package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/codecore/internal/engine/history"
	"github.com/dshills/codecore/internal/lang"
	"github.com/dshills/codecore/internal/renderer/viewport"
)

// Default configuration values.
const (
	DefaultTabSpaces = 4
	// DefaultCacheSize is the number of tokenized lines kept per editor.
	DefaultCacheSize = 1000
	// QuickRelease is the press duration under which a mouse release
	// discards the selection made by the press.
	QuickRelease = 120 * time.Millisecond
)

// Option configures an Editor during creation.
type Option func(*Editor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithClipboard sets the clipboard used by copy, cut and paste.
func WithClipboard(c Clipboard) Option {
	return func(e *Editor) {
		e.clipboard = c
	}
}

// WithRegistry sets the language registry. The default holds the builtin
// languages.
func WithRegistry(r *lang.Registry) Option {
	return func(e *Editor) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithLanguage selects the initial language by name. Unknown names fall
// back to Plain Text.
func WithLanguage(name string) Option {
	return func(e *Editor) {
		e.langName = name
	}
}

// WithTabSpaces sets the indent width used by Tab, Enter and paste.
func WithTabSpaces(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.tabSpaces = n
		}
	}
}

// WithMetrics sets the viewport metrics.
func WithMetrics(m viewport.Metrics) Option {
	return func(e *Editor) {
		e.metrics = m
	}
}

// WithMargins sets how many lines around the screen stay tokenized.
func WithMargins(m viewport.MarginConfig) Option {
	return func(e *Editor) {
		e.margins = m
	}
}

// WithHistory passes options to the undo history.
func WithHistory(opts ...history.Option) Option {
	return func(e *Editor) {
		e.historyOpts = append(e.historyOpts, opts...)
	}
}

// WithCacheSize bounds the number of tokenized lines kept in memory.
func WithCacheSize(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.cacheSize = n
		}
	}
}

// WithScriptTimeout bounds each call into a language's rule script.
func WithScriptTimeout(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.scriptTimeout = d
		}
	}
}

// WithClock replaces the time source used for mouse timing.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithCharMeasure sets the function that returns the character width for
// a font size. The default scales the current width linearly.
func WithCharMeasure(fn func(fontSize int) float64) Option {
	return func(e *Editor) {
		e.measure = fn
	}
}

// WithFontSizing enables or disables the font size keys. Terminal hosts
// have no font to resize and turn them off.
func WithFontSizing(enabled bool) Option {
	return func(e *Editor) {
		e.fontSizing = enabled
	}
}

// WithSaveHandler sets the function called with the document text when the
// save key is pressed.
func WithSaveHandler(fn func(text string) error) Option {
	return func(e *Editor) {
		e.onSave = fn
	}
}
