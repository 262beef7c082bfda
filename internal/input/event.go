package input

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Kind is the type of an input event.
type Kind uint8

const (
	KeyPress Kind = iota
	MouseDown
	MouseMove
	MouseUp
	Click
	Wheel
)

var kindNames = [...]string{
	KeyPress:  "KeyPress",
	MouseDown: "MouseDown",
	MouseMove: "MouseMove",
	MouseUp:   "MouseUp",
	Click:     "Click",
	Wheel:     "Wheel",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Named keys.
const (
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
	KeyTab        = "Tab"
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyInsert     = "Insert"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Modifiers holds the modifier keys active during an event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Any reports whether any modifier is held.
func (m Modifiers) Any() bool {
	return m.Shift || m.Ctrl || m.Alt || m.Meta
}

// String returns a representation like "Ctrl+Shift".
func (m Modifiers) String() string {
	var parts []string
	if m.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if m.Alt {
		parts = append(parts, "Alt")
	}
	if m.Shift {
		parts = append(parts, "Shift")
	}
	if m.Meta {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// Position is a point in container coordinates: pixels for a graphical
// host, cells for a terminal.
type Position struct {
	X, Y float64
}

// Event is a single input event.
type Event struct {
	Kind      Kind
	Modifiers Modifiers
	Position  Position

	// Key is set for KeyPress events.
	Key string

	// Clicks counts consecutive clicks for MouseDown and Click: 1, 2 or 3.
	Clicks int

	// Pressed reports whether the primary button is held during MouseMove.
	Pressed bool

	// DeltaY is the Wheel distance in lines; positive scrolls down.
	DeltaY float64

	Time time.Time
}

// KeyEvent creates a key press.
func KeyEvent(key string, mods Modifiers) Event {
	return Event{Kind: KeyPress, Key: key, Modifiers: mods}
}

// MouseEvent creates a pointer event at (x, y).
func MouseEvent(kind Kind, x, y float64, mods Modifiers) Event {
	return Event{Kind: kind, Position: Position{X: x, Y: y}, Modifiers: mods, Clicks: 1}
}

// IsChar reports whether the event types a single printable character.
func (e Event) IsChar() bool {
	if e.Kind != KeyPress || utf8.RuneCountInString(e.Key) != 1 {
		return false
	}
	return unicode.IsPrint(e.Rune())
}

// Rune returns the character of a single-rune key, or 0.
func (e Event) Rune() rune {
	r, size := utf8.DecodeRuneInString(e.Key)
	if size == 0 || size != len(e.Key) {
		return 0
	}
	return r
}

// IsArrow reports whether the event is an arrow key.
func (e Event) IsArrow() bool {
	switch e.Key {
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight:
		return e.Kind == KeyPress
	}
	return false
}

// String returns a canonical representation such as "Ctrl+Shift+ArrowLeft"
// for key presses and the kind name otherwise.
func (e Event) String() string {
	if e.Kind != KeyPress {
		return e.Kind.String()
	}
	key := e.Key
	if key == " " {
		key = "Space"
	}
	if mods := e.Modifiers.String(); mods != "" {
		return mods + "+" + key
	}
	return key
}
