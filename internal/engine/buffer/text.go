package buffer

import "unicode/utf8"

// FirstNonSpace returns the rune index of the first character of s that is
// not a space, or the rune length of s if it has none.
func FirstNonSpace(s string) int {
	i := 0
	for _, r := range s {
		if r != ' ' && r != '\t' {
			return i
		}
		i++
	}
	return i
}

// RuneLen returns the length of s in runes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// SliceRunes returns s[from:to] measured in runes, clamping both bounds.
func SliceRunes(s string, from, to int) string {
	runes := []rune(s)
	from = max(0, min(from, len(runes)))
	to = max(from, min(to, len(runes)))
	return string(runes[from:to])
}
