package history

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Defaults for a new History.
const (
	DefaultMaxSteps = 16
	DefaultWindow   = 2 * time.Second
)

// History manages undo/redo snapshot stacks for one document.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot

	// Coalescing state
	lastSave time.Time
	inBurst  bool

	// Configuration
	maxSteps int
	window   time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// New creates a history manager.
func New(opts ...Option) *History {
	h := &History{
		maxSteps: DefaultMaxSteps,
		window:   DefaultWindow,
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Save records a snapshot taken before an edit.
// Unforced saves are coalesced into bursts; see the package documentation.
// It returns true if the snapshot was recorded.
func (h *History) Save(s Snapshot, force, clearRedo bool) bool {
	if !force {
		now := h.now()
		switch {
		case !h.inBurst:
			h.inBurst = true
			h.lastSave = now
		case now.Sub(h.lastSave) > h.window:
			h.inBurst = false
		default:
			h.lastSave = now
			return false
		}
	}

	if clearRedo {
		h.redoStack = h.redoStack[:0]
	}
	h.pushUndo(s)
	h.logger.Debug().
		Int("undo", len(h.undoStack)).
		Int("redo", len(h.redoStack)).
		Bool("force", force).
		Msg("history snapshot")
	return true
}

// pushUndo appends to the undo stack, evicting the oldest entry past maxSteps.
func (h *History) pushUndo(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if over := len(h.undoStack) - h.maxSteps; over > 0 {
		h.undoStack = append(h.undoStack[:0], h.undoStack[over:]...)
	}
}

// Undo pops the most recent snapshot and pushes current onto the redo stack.
func (h *History) Undo(current Snapshot) (Snapshot, error) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, ErrNothingToUndo
	}
	h.redoStack = append(h.redoStack, current)

	s := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	return s, nil
}

// Redo pops the most recently undone snapshot and pushes current onto the
// undo stack without clearing the redo stack.
func (h *History) Redo(current Snapshot) (Snapshot, error) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, ErrNothingToRedo
	}
	h.Save(current, true, false)

	s := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	return s, nil
}

// CanUndo returns true if there are entries to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there are entries to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// MaxSteps returns the undo depth bound.
func (h *History) MaxSteps() int {
	return h.maxSteps
}

// BreakBurst ends the current coalescing burst so the next unforced save is
// recorded.
func (h *History) BreakBurst() {
	h.inBurst = false
}

// Clear removes all history and resets coalescing.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.inBurst = false
}
