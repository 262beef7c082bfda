// Package history provides undo/redo functionality for the text editor engine.
//
// History records whole-document snapshots rather than edit commands. A
// Snapshot holds a deep copy of every line plus the saved state of every
// cursor, so restoring one needs no knowledge of the edit that followed it.
//
// # Coalescing
//
// Rapid edits collapse into one undo step. An unforced Save opens a burst
// window (two seconds by default) and records a snapshot; further unforced
// saves inside the window are suppressed and push the window forward; the
// first unforced save after the window lapses records a snapshot and closes
// the burst. Structural edits (line joins, pastes, comment toggles, line
// swaps) pass force and are always recorded.
//
// # Stacks
//
//	h := history.New(history.WithMaxSteps(16))
//
//	h.Save(snapshotBeforeEdit, false, true)
//
//	if prev, err := h.Undo(current); err == nil {
//	    restore(prev)
//	}
//
// Undo pushes the current state onto the redo stack before returning the
// popped snapshot; Redo does the reverse without clearing the redo stack. Any
// other Save with clearRedo set discards the redo stack. The undo stack keeps
// at most MaxSteps entries and evicts the oldest on overflow.
package history
