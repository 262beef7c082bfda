package cursor

import "github.com/dshills/codecore/internal/engine/buffer"

// Motion describes what moved a cursor while it was selecting.
type Motion uint8

const (
	// MotionMouse is a click or drag.
	MotionMouse Motion = iota
	// MotionForward is a key that grows a selection toward the end of the
	// document: ArrowRight, ArrowDown, End.
	MotionForward
	// MotionBackward is any other selecting key.
	MotionBackward
)

// Set holds the cursors of one editor in creation order.
// It always contains exactly one main cursor.
type Set struct {
	cursors []*Cursor
	nextID  ID

	// Transient drag state, cleared by EndSelection.
	tripleClick bool
	fromMoved   bool
}

// NewSet creates a set with a main cursor at the start of the document.
func NewSet() *Set {
	s := &Set{}
	s.cursors = []*Cursor{s.newCursor(0, 0, true)}
	return s
}

func (s *Set) newCursor(line, column int, main bool) *Cursor {
	c := &Cursor{id: s.nextID, main: main, Line: line, Column: column}
	s.nextID++
	return c
}

// Main returns the main cursor.
func (s *Set) Main() *Cursor {
	for _, c := range s.cursors {
		if c.main {
			return c
		}
	}
	// Unreachable while the set invariant holds.
	return s.cursors[0]
}

// All returns the cursors in creation order.
// The returned slice is a copy; the cursors are shared.
func (s *Set) All() []*Cursor {
	out := make([]*Cursor, len(s.cursors))
	copy(out, s.cursors)
	return out
}

// Len returns the number of cursors.
func (s *Set) Len() int {
	return len(s.cursors)
}

// IsMulti returns true if there is more than one cursor.
func (s *Set) IsMulti() bool {
	return len(s.cursors) > 1
}

// Get returns the cursor with the given ID, or nil.
func (s *Set) Get(id ID) *Cursor {
	for _, c := range s.cursors {
		if c.id == id {
			return c
		}
	}
	return nil
}

// Last returns the most recently created cursor.
func (s *Set) Last() *Cursor {
	return s.cursors[len(s.cursors)-1]
}

// IsLast reports whether c is the most recently created cursor.
func (s *Set) IsLast(c *Cursor) bool {
	return s.Last() == c
}

// At returns the first cursor at the given position, or nil.
func (s *Set) At(line, column int) *Cursor {
	for _, c := range s.cursors {
		if c.Line == line && c.Column == column {
			return c
		}
	}
	return nil
}

// Add creates a secondary cursor at the given position.
// If a cursor already exists there and force is false, the existing cursor is
// removed (unless it is the main cursor) and nil is returned.
func (s *Set) Add(line, column int, force bool) *Cursor {
	if existing := s.At(line, column); existing != nil && !force {
		if !existing.main {
			s.Remove(existing.id)
		}
		return nil
	}
	c := s.newCursor(line, column, false)
	s.cursors = append(s.cursors, c)
	return c
}

// Remove deletes the cursor with the given ID.
// The main cursor cannot be removed.
func (s *Set) Remove(id ID) bool {
	for i, c := range s.cursors {
		if c.id != id {
			continue
		}
		if c.main {
			return false
		}
		s.cursors = append(s.cursors[:i], s.cursors[i+1:]...)
		return true
	}
	return false
}

// RemoveSecondary drops every cursor except the main one.
func (s *Set) RemoveSecondary() {
	s.cursors = []*Cursor{s.Main()}
}

// MergeLine removes all but one cursor on the given line.
// The main cursor survives if it is on the line, otherwise the oldest does.
func (s *Set) MergeLine(line int) {
	var keep *Cursor
	for _, c := range s.cursors {
		if c.Line != line {
			continue
		}
		if keep == nil || c.main {
			keep = c
		}
	}
	if keep == nil {
		return
	}
	out := s.cursors[:0]
	for _, c := range s.cursors {
		if c.Line != line || c == keep {
			out = append(out, c)
		}
	}
	s.cursors = out
}

// Clamp moves every cursor and selection endpoint back inside the document.
func (s *Set) Clamp(b *buffer.Buffer) {
	for _, c := range s.cursors {
		c.SetPosition(b.Clamp(c.Position()))
		if sel := c.Selection; sel != nil {
			from := b.Clamp(sel.From())
			to := b.Clamp(sel.To())
			sel.FromX, sel.FromY = from.Column, from.Line
			sel.ToX, sel.ToY = to.Column, to.Line
		}
	}
}

// Save captures every cursor in creation order.
func (s *Set) Save() []State {
	out := make([]State, len(s.cursors))
	for i, c := range s.cursors {
		out[i] = c.Save()
	}
	return out
}

// Restore rebuilds the set from saved states. The state flagged main, or the
// first one if none is, restores the main cursor; the rest become secondary
// cursors in order. Drag state is cleared.
func (s *Set) Restore(states []State) {
	main := s.Main()
	main.Selection = nil
	s.cursors = []*Cursor{main}
	s.clearDrag()
	if len(states) == 0 {
		return
	}

	mainIdx := 0
	for i, st := range states {
		if st.Main {
			mainIdx = i
			break
		}
	}
	for i, st := range states {
		c := main
		if i != mainIdx {
			c = s.newCursor(st.Line, st.Column, false)
			s.cursors = append(s.cursors, c)
		}
		c.Line, c.Column = st.Line, st.Column
		c.Selection = st.Selection.Clone()
	}
}

// StartSelection anchors an empty selection at the cursor's position.
func (s *Set) StartSelection(c *Cursor) *Selection {
	c.Selection = NewSelection(c.Line, c.Column)
	return c.Selection
}

// UpdateSelection moves one end of the cursor's selection to the cursor
// position, starting a selection first if the cursor has none. It returns
// false if a keyboard update left the selection empty, in which case the
// selection has been ended.
func (s *Set) UpdateSelection(c *Cursor, flags Flags, motion Motion) bool {
	sel := c.Selection
	if sel == nil {
		sel = s.StartSelection(c)
	}

	moveFrom := true
	if motion != MotionMouse && c.Position().Compare(sel.From()) >= 0 {
		moveFrom = s.fromMoved && motion == MotionForward
	}

	if moveFrom {
		if flags&SelectX != 0 {
			sel.FromX = c.Column
		}
		if flags&SelectY != 0 {
			sel.FromY = c.Line
		}
	} else {
		if flags&SelectX != 0 {
			sel.ToX = c.Column
		}
		if flags&SelectY != 0 {
			sel.ToY = c.Line
		}
	}
	s.fromMoved = moveFrom

	if motion != MotionMouse && sel.IsEmpty() {
		s.EndSelection(c)
		return false
	}
	return true
}

// EndSelection discards the cursor's selection and the drag state.
func (s *Set) EndSelection(c *Cursor) {
	s.clearDrag()
	if c != nil {
		c.Selection = nil
	}
}

// EndAllSelections discards every selection and the drag state.
func (s *Set) EndAllSelections() {
	s.clearDrag()
	for _, c := range s.cursors {
		c.Selection = nil
	}
}

// HasSelection reports whether any cursor carries a selection.
func (s *Set) HasSelection() bool {
	for _, c := range s.cursors {
		if c.Selection != nil {
			return true
		}
	}
	return false
}

// TripleClick reports whether the current selection came from a triple click.
func (s *Set) TripleClick() bool {
	return s.tripleClick
}

// SetTripleClick marks the current selection as a whole-line selection.
func (s *Set) SetTripleClick(v bool) {
	s.tripleClick = v
}

func (s *Set) clearDrag() {
	s.tripleClick = false
	s.fromMoved = false
}
