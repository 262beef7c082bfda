// Package input defines the events an editor consumes and translates
// terminal events into them.
//
// An Event is a key press or a pointer action in container coordinates.
// The editor never sees the transport: a terminal host feeds events through
// a Translator, tests build them with ParseKey or the constructors, and a
// graphical host would fill in pixel positions itself.
//
// Key names follow the browser convention: printable keys are the character
// itself ("a", "{"), other keys are named ("Enter", "ArrowLeft", "Backspace").
package input
