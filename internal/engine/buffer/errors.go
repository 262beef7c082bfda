package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrLineOutOfRange indicates a line index outside the document.
	ErrLineOutOfRange = errors.New("line out of range")
)
