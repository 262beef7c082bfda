// Package backend provides the terminal surface the renderer draws on.
package backend

import "github.com/gdamore/tcell/v2"

// CursorStyle defines how the cursor appears.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
	CursorHidden
)

// ParseCursorStyle maps a configuration value to a cursor style.
// Unknown names fall back to CursorBlock.
func ParseCursorStyle(name string) CursorStyle {
	switch name {
	case "underline":
		return CursorUnderline
	case "bar":
		return CursorBar
	case "hidden":
		return CursorHidden
	default:
		return CursorBlock
	}
}

// Backend defines the interface for display backends.
// Implementations handle actual drawing to the terminal.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current dimensions in cells.
	Size() (width, height int)

	// SetContent writes one rune. Wide runes occupy two cells.
	// Positions outside the surface are ignored.
	SetContent(x, y int, r rune, style tcell.Style)

	// Fill fills a rectangle with the given rune.
	Fill(x, y, width, height int, r rune, style tcell.Style)

	// Clear clears the entire surface.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// SetCursorStyle changes the cursor appearance.
	SetCursorStyle(style CursorStyle)

	// PollEvent blocks for the next event. It returns nil after Shutdown.
	PollEvent() tcell.Event

	// PostEvent queues a synthetic event.
	PostEvent(ev tcell.Event) error

	// Beep produces an audible or visual bell.
	Beep()
}
