// Package renderer turns the visible part of a document into output.
//
// A render pass has two halves. The first is pure: Window asks the
// viewport which lines are in its window and the highlight provider for
// their tokens, producing Line values. Line.HTML renders a line as escaped
// markup for hosts that draw HTML. The second half draws a Frame onto a
// terminal backend:
//
//	┌─────────────────────────────────────────┐
//	│  Frame: lines, carets, selections       │
//	├─────────────────────────────────────────┤
//	│  Renderer: gutter, theme styles, tabs   │
//	├─────────────────────────────────────────┤
//	│  backend.Backend (tcell)                │
//	└─────────────────────────────────────────┘
//
// Only lines inside the viewport window are ever tokenized.
package renderer
