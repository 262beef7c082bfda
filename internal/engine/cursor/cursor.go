package cursor

import "fmt"

// ID identifies a cursor for its whole lifetime.
type ID uint32

// Cursor is an insertion point with an optional selection.
// Line and Column are kept inside the document by the code that moves them.
type Cursor struct {
	id        ID
	main      bool
	Line      int
	Column    int
	Selection *Selection
}

// ID returns the cursor's stable identifier.
func (c *Cursor) ID() ID {
	return c.id
}

// IsMain reports whether this is the main cursor.
func (c *Cursor) IsMain() bool {
	return c.main
}

// Position returns the cursor position as a point.
func (c *Cursor) Position() Point {
	return Point{Line: c.Line, Column: c.Column}
}

// SetPosition moves the cursor.
func (c *Cursor) SetPosition(p Point) {
	c.Line = p.Line
	c.Column = p.Column
}

// HasSelection reports whether the cursor carries a selection.
func (c *Cursor) HasSelection() bool {
	return c.Selection != nil
}

// String returns a string representation of the cursor.
func (c *Cursor) String() string {
	if c.Selection != nil {
		return fmt.Sprintf("Cursor#%d(%d:%d, %s)", c.id, c.Line, c.Column, c.Selection)
	}
	return fmt.Sprintf("Cursor#%d(%d:%d)", c.id, c.Line, c.Column)
}

// State is a saved copy of a cursor, used by history snapshots.
type State struct {
	Line      int
	Column    int
	Main      bool
	Selection *Selection
}

// Save captures the cursor's current state.
func (c *Cursor) Save() State {
	return State{
		Line:      c.Line,
		Column:    c.Column,
		Main:      c.main,
		Selection: c.Selection.Clone(),
	}
}
