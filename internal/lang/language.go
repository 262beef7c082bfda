package lang

import (
	"sort"
	"strings"
)

// Default comment markers used when a definition leaves them out.
const (
	DefaultLineComment       = "//"
	DefaultBlockCommentOpen  = "/*"
	DefaultBlockCommentClose = "*/"
)

// PlainTextName is the name of the language used when nothing else matches.
const PlainTextName = "Plain Text"

// WordSet is a set of highlightable words.
type WordSet map[string]struct{}

// NewWordSet builds a set from words. When fold is true entries are stored
// lowercased.
func NewWordSet(words []string, fold bool) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		if fold {
			w = strings.ToLower(w)
		}
		s[w] = struct{}{}
	}
	return s
}

// Has reports whether w is in the set.
func (s WordSet) Has(w string) bool {
	_, ok := s[w]
	return ok
}

// Words returns the set's words in sorted order.
func (s WordSet) Words() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Language holds everything the highlighter needs to know about a language.
type Language struct {
	Name       string
	Key        string
	Extensions []string

	SingleLineComments     bool
	SingleLineCommentToken string
	BlockComments          bool
	BlockCommentOpen       string
	BlockCommentClose      string

	Numbers         bool
	Tags            bool
	IgnoreCase      bool
	UsePreprocessor bool

	// Strings maps an opening string delimiter to its closer.
	Strings map[string]string
	// IncludeStrings treats <...> after a preprocessor token as a string.
	IncludeStrings bool
	// LinkStrings treats [...] as a string.
	LinkStrings bool

	Keywords   WordSet
	Types      WordSet
	BuiltIns   WordSet
	Statements WordSet
	Symbols    WordSet
	Utils      WordSet

	// Indicators are substrings that strongly suggest the language.
	Indicators []string

	// RuleSet names the builtin language-specific highlight rules.
	RuleSet string
	// RuleScript is optional Lua source defining classify(token, prev, next).
	RuleScript string
}

// KeyFor derives the key used in CSS classes and rule set names:
// lowercase, no whitespace, '+' spelled 'p'.
func KeyFor(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r == '+':
			sb.WriteByte('p')
		case r == ' ' || r == '\t' || r == '\n':
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// IsPlain reports whether the language performs no highlighting.
func (l *Language) IsPlain() bool {
	return l.Key == KeyFor(PlainTextName)
}

func (l *Language) has(s WordSet, token string) bool {
	if l.IgnoreCase {
		token = strings.ToLower(token)
	}
	return s.Has(token)
}

// IsKeyword reports whether token is in the keyword list.
func (l *Language) IsKeyword(token string) bool { return l.has(l.Keywords, token) }

// IsType reports whether token is in the type list.
func (l *Language) IsType(token string) bool { return l.has(l.Types, token) }

// IsBuiltIn reports whether token is in the builtin list.
func (l *Language) IsBuiltIn(token string) bool { return l.has(l.BuiltIns, token) }

// IsStatement reports whether token is in the statement list.
func (l *Language) IsStatement(token string) bool { return l.has(l.Statements, token) }

// IsSymbol reports whether token is in the symbol list.
func (l *Language) IsSymbol(token string) bool { return l.has(l.Symbols, token) }

// IsUtil reports whether token is in the util list. Utils are never
// highlighted; they only feed detection.
func (l *Language) IsUtil(token string) bool { return l.has(l.Utils, token) }

// StringCloser returns the closer for an opening string delimiter.
func (l *Language) StringCloser(open string) (string, bool) {
	c, ok := l.Strings[open]
	return c, ok
}

// HasExtension reports whether ext (without the dot) belongs to the language.
func (l *Language) HasExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range l.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// vocabulary returns every listed word, used for detection scoring.
func (l *Language) vocabulary() []WordSet {
	return []WordSet{l.Keywords, l.Statements, l.Utils, l.Types, l.BuiltIns}
}

// PlainText returns a language with every feature disabled.
func PlainText() *Language {
	l, _ := Definition{
		Name:               PlainTextName,
		Extensions:         []string{"txt"},
		SingleLineComments: boolPtr(false),
		BlockComments:      boolPtr(false),
		Numbers:            boolPtr(false),
	}.Build()
	return l
}

func boolPtr(b bool) *bool { return &b }
