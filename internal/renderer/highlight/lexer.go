package highlight

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dshills/codecore/internal/lang"
)

// lexeme is a raw token before classification.
type lexeme struct {
	text   string
	offset int // byte offset in the line
	column int // rune offset in the line
}

var digits = regexp.MustCompile(`^\d+$`)

// split breaks a line into lexemes. A trailing single-line comment becomes
// one lexeme. Numeric fragments separated by '.' are merged, followed by the
// language-specific merges.
func split(l *lang.Language, line string, inBlock bool) []lexeme {
	if line == "" {
		return nil
	}

	code := line
	comment := commentStart(l, line, inBlock)
	if comment >= 0 {
		code = line[:comment]
	}

	var out []lexeme
	col := 0
	push := func(text string, off int) {
		out = append(out, lexeme{text: text, offset: off, column: col})
		col += utf8.RuneCountInString(text)
	}

	last := 0
	for _, m := range lang.Delimiters.FindAllStringIndex(code, -1) {
		if m[0] > last {
			push(code[last:m[0]], last)
		}
		push(code[m[0]:m[1]], m[0])
		last = m[1]
	}
	if last < len(code) {
		push(code[last:], last)
	}
	if comment >= 0 {
		push(line[comment:], comment)
	}

	out = mergeDecimals(out)
	switch l.RuleSet {
	case "cpp":
		out = mergeNumberRuns(l, out)
	case "css":
		out = mergeNumberRuns(l, out)
		out = mergePrefix(out, "!", func(next string) bool { return next == "important" })
	case "php":
		out = mergePrefix(out, "$", isWord)
	case "wgsl":
		out = mergePrefix(out, "@", isWord)
	}
	return out
}

// commentStart returns the byte offset of the single-line comment marker, or
// -1. Markers inside block comments, or preceded by an odd number of any
// string delimiter, do not count.
func commentStart(l *lang.Language, line string, inBlock bool) int {
	if !l.SingleLineComments || l.SingleLineCommentToken == "" {
		return -1
	}
	marker := l.SingleLineCommentToken
	pos := 0
	for pos < len(line) {
		rest := line[pos:]
		if inBlock {
			end := strings.Index(rest, l.BlockCommentClose)
			if end < 0 {
				return -1
			}
			pos += end + len(l.BlockCommentClose)
			inBlock = false
			continue
		}

		idx := strings.Index(rest, marker)
		if idx < 0 {
			return -1
		}
		if l.BlockComments {
			if open := strings.Index(rest, l.BlockCommentOpen); open >= 0 && open < idx {
				pos += open + len(l.BlockCommentOpen)
				inBlock = true
				continue
			}
		}
		if !insideString(l, line[:pos+idx]) {
			return pos + idx
		}
		pos += idx + len(marker)
	}
	return -1
}

// insideString reports whether prefix leaves a string delimiter unbalanced.
func insideString(l *lang.Language, prefix string) bool {
	for _, closer := range l.Strings {
		if strings.Count(prefix, closer)%2 != 0 {
			return true
		}
	}
	return false
}

// mergeDecimals joins "1" "." "5" into "1.5", "." "5" into ".5" and
// "1" "." into "1.".
func mergeDecimals(in []lexeme) []lexeme {
	out := make([]lexeme, 0, len(in))
	for i := 0; i < len(in); i++ {
		t := in[i]
		if t.text != "." {
			out = append(out, t)
			continue
		}
		var prev *lexeme
		if len(out) > 0 && digits.MatchString(out[len(out)-1].text) {
			prev = &out[len(out)-1]
		}
		nextDigits := i+1 < len(in) && digits.MatchString(in[i+1].text)

		switch {
		case prev != nil && nextDigits:
			prev.text += "." + in[i+1].text
			i++
		case nextDigits:
			t.text += in[i+1].text
			out = append(out, t)
			i++
		case prev != nil:
			prev.text += "."
		default:
			out = append(out, t)
		}
	}
	return out
}

// mergeNumberRuns extends each number with following lexemes for as long
// as the concatenation still reads as a number: "1." "5f" -> "1.5f".
func mergeNumberRuns(l *lang.Language, in []lexeme) []lexeme {
	out := make([]lexeme, 0, len(in))
	for i := 0; i < len(in); i++ {
		t := in[i]
		if IsNumber(l, t.text) {
			for i+1 < len(in) && IsNumber(l, t.text+in[i+1].text) {
				t.text += in[i+1].text
				i++
			}
		}
		out = append(out, t)
	}
	return out
}

// mergePrefix glues a lone prefix lexeme onto the lexeme after it when
// accept approves of that lexeme.
func mergePrefix(in []lexeme, prefix string, accept func(string) bool) []lexeme {
	out := make([]lexeme, 0, len(in))
	for i := 0; i < len(in); i++ {
		t := in[i]
		if t.text == prefix && i+1 < len(in) && accept(in[i+1].text) {
			t.text += in[i+1].text
			i++
		}
		out = append(out, t)
	}
	return out
}

// isWord reports whether s is a non-delimiter lexeme.
func isWord(s string) bool {
	return s != "" && !lang.Delimiters.MatchString(s)
}

// isBlank reports whether s is a whitespace lexeme.
func isBlank(s string) bool {
	return s == " " || s == "\t"
}
