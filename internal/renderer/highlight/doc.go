// Package highlight classifies the tokens of a line of source text.
//
// A Highlighter is bound to one lang.Language. Tokenize splits a line into
// tokens, runs each through an ordered chain of rules (common rules, the
// language's rule set, an optional Lua script, then post rules) and returns
// the classified tokens together with the State carried into the next line.
// Concatenating the returned token texts always reproduces the input line.
//
// Provider caches per-line results for a document and recomputes them from
// the first changed line onward. HTML renders classified tokens as spans.
package highlight
