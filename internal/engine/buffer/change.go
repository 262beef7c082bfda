package buffer

// Change describes the lines touched by a mutation.
// FirstLine and LastLine are indices in the document after the change.
// LinesDelta is the number of lines added (positive) or removed (negative).
type Change struct {
	FirstLine  int
	LastLine   int
	LinesDelta int
	Revision   uint64
}

// Listener is called synchronously after every mutation.
type Listener func(Change)

// OnChange registers a listener for buffer mutations.
func (b *Buffer) OnChange(fn Listener) {
	if fn != nil {
		b.listeners = append(b.listeners, fn)
	}
}

// changed records a mutation and notifies listeners.
// A change that shifts lines extends to the end of the document.
func (b *Buffer) changed(first, last, delta int) {
	b.revision++
	if delta != 0 {
		last = len(b.lines) - 1
	}
	last = max(first, last)

	c := Change{
		FirstLine:  first,
		LastLine:   last,
		LinesDelta: delta,
		Revision:   b.revision,
	}
	for _, fn := range b.listeners {
		fn(c)
	}
}
