// Package buffer provides the line-oriented document model for the editing
// core.
//
// A Buffer stores the document as an ordered slice of line strings without
// their terminators. It always holds at least one line; an empty document is
// a single empty line. Columns are measured in runes, not bytes, so a column
// is always a valid cursor stop regardless of the line's encoding.
//
// Basic usage:
//
//	buf := buffer.New()
//	buf.SetText("hello\nworld")
//
//	// Insert text, multi-line aware
//	end := buf.InsertAt(0, 5, ",\nbig")  // "hello," / "big" / "world"
//
//	// Delete a half-open range spanning lines
//	buf.DeleteRange(buffer.Point{Line: 0, Column: 5}, end)
//
// Positions:
//
// Point is a (line, column) pair. Positions handed to mutation methods are
// clamped to the document, never rejected: coordinate math derived from mouse
// input routinely lands a little outside the text near its edges.
//
// Change notification:
//
// Every mutation reports a Change describing the affected line span to the
// registered listeners. The editor uses the notification to invalidate
// cached tokenizer state from the first changed line onward.
//
// Buffers are not safe for concurrent use. The editor that owns a buffer
// serializes access to it.
package buffer
