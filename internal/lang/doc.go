// Package lang describes the languages the highlighter understands.
//
// A Language is immutable once built. The builtin table is embedded as YAML
// and user definitions may be loaded from TOML or YAML files, optionally
// carrying a Lua rule script. Languages are collected in a Registry, which
// resolves names and file extensions and guesses the language of a text.
//
// # Detection
//
// Detect scores every language: twenty points for each strong indicator
// substring found in the text and one point for each word of the text found
// in the language's keyword, statement, util, type or builtin lists. The best
// positive score wins. When nothing scores, chroma's lexer analysers are
// consulted and their answer is mapped back onto the registry.
package lang
