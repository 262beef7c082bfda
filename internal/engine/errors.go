package engine

import "errors"

// Errors returned by editor operations.
var (
	// ErrNoResults indicates a search found no match.
	ErrNoResults = errors.New("no results")

	// ErrEmptySearch indicates a search without text and no previous query.
	ErrEmptySearch = errors.New("empty search")

	// ErrNoClipboard indicates a clipboard key was used without a clipboard.
	ErrNoClipboard = errors.New("no clipboard configured")
)
