package history

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures a History.
type Option func(*History)

// WithMaxSteps sets the undo depth bound. Non-positive values are ignored.
func WithMaxSteps(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.maxSteps = n
		}
	}
}

// WithWindow sets the coalescing window.
func WithWindow(d time.Duration) Option {
	return func(h *History) {
		if d >= 0 {
			h.window = d
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(h *History) {
		h.logger = l
	}
}
