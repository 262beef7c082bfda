// Package app hosts an editor in a terminal.
//
// It loads the configuration, builds the logger, the language store and
// the editor, then runs a loop that translates terminal events into editor
// events and draws a frame after each batch. Edits to the configuration
// files or the language directory are picked up while running.
package app
