// Package engine provides the Editor, the facade that turns input events
// into edits on a document.
//
// An Editor owns one buffer, its cursors, an undo history, a tokenizing
// highlight provider, and a viewport. Hosts feed it input.Event values and
// read back render frames:
//
//	ed := engine.New(engine.WithClipboard(clip))
//	ed.SetText("int x = 5;", "C")
//	_ = ed.HandleEvent(ctx, input.KeyEvent("d", input.Modifiers{}))
//	frame := ed.Render()
//
// # Cursors
//
// Keys are applied to every cursor in creation order. After each cursor is
// processed, the distance it moved (plus any adjustment its action reports)
// is carried to the next cursor when that cursor sits on the same line, so
// cursors on one line stay anchored to the same text while the line grows or
// shrinks underneath them. Arrow keys never carry an offset.
//
// # History
//
// Only edits made through the main cursor record undo snapshots. Typing
// coalesces into bursts; structural edits (Enter, paste, line moves, comment
// toggling) always record a snapshot.
//
// # Thread Safety
//
// Every exported method takes the editor lock and runs to completion. The
// clipboard is the only call that may block and it is made without holding
// the lock.
package engine
