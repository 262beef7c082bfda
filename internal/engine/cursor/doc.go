// Package cursor provides cursor and selection management for text editing.
//
// The cursor package handles:
//
//   - Cursor records stored in a Set, addressed by stable ID and kept in
//     creation order
//   - Selections described by a from point and a to point
//   - The per-cursor selection state machine (start, update, end)
//   - Word boundaries for word-wise navigation and deletion
//
// Selection Model:
//
// A Selection holds two (column, line) pairs, From and To. They are not kept
// in document order while the user drags or extends a selection: From may
// lie after To. InvertIfNecessary normalizes the pair before the selection is
// used as a range.
//
// Which end moves when a selection is extended depends on the motion that
// caused it. Mouse motion always moves From. Keyboard motion moves From when
// the cursor sits before From, and otherwise keeps extending the end the
// previous update moved only if the key grows the selection forward
// (ArrowRight, ArrowDown, End). This keeps a selection from flipping order
// halfway through a keyboard extension.
//
// Multi-Cursor Support:
//
// Set always holds exactly one main cursor. Secondary cursors are created by
// Add and destroyed by Remove, RemoveSecondary, or MergeLine. Adding a cursor
// on top of an existing secondary cursor removes the existing one instead,
// so toggling a position with Alt-click works without extra bookkeeping.
//
// A Set is not safe for concurrent use.
package cursor
