package highlight

import "unicode/utf8"

// Class is the highlight category of a token.
type Class uint8

// Token classes.
const (
	ClassNone Class = iota
	ClassComment
	ClassString
	ClassKeyword
	ClassBuiltin
	ClassStatement
	ClassSymbol
	ClassType
	ClassNumber
	ClassPreprocessor
	ClassMethod
	ClassEnum
	ClassVariable

	classCount
)

var classNames = [classCount]string{
	ClassNone:         "none",
	ClassComment:      "comment",
	ClassString:       "string",
	ClassKeyword:      "keyword",
	ClassBuiltin:      "builtin",
	ClassStatement:    "statement",
	ClassSymbol:       "symbol",
	ClassType:         "type",
	ClassNumber:       "number",
	ClassPreprocessor: "preprocessor",
	ClassMethod:       "method",
	ClassEnum:         "enum",
	ClassVariable:     "variable",
}

var classCSS = [classCount]string{
	ClassComment:      "cm-com",
	ClassString:       "cm-str",
	ClassKeyword:      "cm-kwd",
	ClassBuiltin:      "cm-bln",
	ClassStatement:    "cm-std",
	ClassSymbol:       "cm-sym",
	ClassType:         "cm-typ",
	ClassNumber:       "cm-dec",
	ClassPreprocessor: "cm-ppc",
	ClassMethod:       "cm-mtd",
	ClassEnum:         "cm-enu",
	ClassVariable:     "cm-var",
}

// String returns the class name.
func (c Class) String() string {
	if c < classCount {
		return classNames[c]
	}
	return "unknown"
}

// CSS returns the class attribute value used in HTML output, or "" for
// ClassNone.
func (c Class) CSS() string {
	if c < classCount {
		return classCSS[c]
	}
	return ""
}

// ParseClass accepts either a class name ("keyword") or its CSS form
// ("cm-kwd").
func ParseClass(s string) (Class, bool) {
	for i := ClassNone; i < classCount; i++ {
		if classNames[i] == s || (classCSS[i] != "" && classCSS[i] == s) {
			return i, true
		}
	}
	return ClassNone, false
}

// Token is a classified run of text on one line.
type Token struct {
	Text  string
	Class Class
	// Column is the rune offset of the token within its line.
	Column int
}

// Len returns the token length in runes.
func (t Token) Len() int {
	return utf8.RuneCountInString(t.Text)
}

// End returns the column just past the token.
func (t Token) End() int {
	return t.Column + t.Len()
}

// Contains reports whether col falls inside the token.
func (t Token) Contains(col int) bool {
	return col >= t.Column && col < t.End()
}

// TokenAt returns the token covering col.
func TokenAt(tokens []Token, col int) (Token, bool) {
	for _, tok := range tokens {
		if tok.Contains(col) {
			return tok, true
		}
		if tok.Column > col {
			break
		}
	}
	return Token{}, false
}

// Join concatenates token texts.
func Join(tokens []Token) string {
	n := 0
	for _, t := range tokens {
		n += len(t.Text)
	}
	b := make([]byte, 0, n)
	for _, t := range tokens {
		b = append(b, t.Text...)
	}
	return string(b)
}
