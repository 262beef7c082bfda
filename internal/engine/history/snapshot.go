package history

import "github.com/dshills/codecore/internal/engine/cursor"

// Snapshot is a saved document state.
type Snapshot struct {
	Lines   []string
	Cursors []cursor.State
}

// NewSnapshot deep-copies lines and cursor states into a snapshot.
func NewSnapshot(lines []string, cursors []cursor.State) Snapshot {
	s := Snapshot{
		Lines:   make([]string, len(lines)),
		Cursors: make([]cursor.State, len(cursors)),
	}
	copy(s.Lines, lines)
	for i, c := range cursors {
		c.Selection = c.Selection.Clone()
		s.Cursors[i] = c
	}
	return s
}
