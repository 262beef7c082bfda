package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

var keyAliases = map[string]string{
	"enter":      KeyEnter,
	"return":     KeyEnter,
	"cr":         KeyEnter,
	"escape":     KeyEscape,
	"esc":        KeyEscape,
	"tab":        KeyTab,
	"backspace":  KeyBackspace,
	"bs":         KeyBackspace,
	"delete":     KeyDelete,
	"del":        KeyDelete,
	"insert":     KeyInsert,
	"ins":        KeyInsert,
	"home":       KeyHome,
	"end":        KeyEnd,
	"pageup":     KeyPageUp,
	"pgup":       KeyPageUp,
	"pagedown":   KeyPageDown,
	"pgdn":       KeyPageDown,
	"arrowup":    KeyArrowUp,
	"up":         KeyArrowUp,
	"arrowdown":  KeyArrowDown,
	"down":       KeyArrowDown,
	"arrowleft":  KeyArrowLeft,
	"left":       KeyArrowLeft,
	"arrowright": KeyArrowRight,
	"right":      KeyArrowRight,
	"space":      " ",
	"plus":       "+",
}

// ParseKey parses a key specification into a key press.
//
// Supported formats:
//   - Single character: "a", "{", "\""
//   - Named keys: "Enter", "Esc", "ArrowLeft", "Left", "Space"
//   - With modifiers: "Ctrl+k", "Alt+ArrowUp", "Ctrl+Shift+Left", "Ctrl+Plus"
func ParseKey(spec string) (Event, error) {
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	if utf8.RuneCountInString(spec) == 1 {
		return KeyEvent(spec, Modifiers{}), nil
	}

	parts := strings.Split(spec, "+")
	// A trailing "+" is the plus key itself: "Ctrl++".
	if strings.HasSuffix(spec, "++") {
		parts = append(strings.Split(strings.TrimSuffix(spec, "++"), "+"), "+")
	}

	var mods Modifiers
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control", "c":
			mods.Ctrl = true
		case "alt", "option", "a":
			mods.Alt = true
		case "shift", "s":
			mods.Shift = true
		case "meta", "cmd", "super", "m":
			mods.Meta = true
		default:
			return Event{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, p, spec)
		}
	}

	key := parts[len(parts)-1]
	if utf8.RuneCountInString(key) != 1 {
		name, ok := keyAliases[strings.ToLower(key)]
		if !ok {
			return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, key)
		}
		key = name
	}
	return KeyEvent(key, mods), nil
}

// MustParseKey is like ParseKey but panics on error.
func MustParseKey(spec string) Event {
	ev, err := ParseKey(spec)
	if err != nil {
		panic(err)
	}
	return ev
}
