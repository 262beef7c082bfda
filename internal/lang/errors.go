package lang

import "errors"

// Errors returned by the lang package.
var (
	ErrUnknownLanguage   = errors.New("unknown language")
	ErrInvalidDefinition = errors.New("invalid language definition")
)
