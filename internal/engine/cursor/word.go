package cursor

// IsWordRune reports whether r is part of a word for navigation purposes:
// ASCII letters, digits, and the characters _ # !.
func IsWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '#', r == '!':
		return true
	}
	return false
}

// Word is a span of a line found by WordAt.
// From is inclusive and To exclusive, both in runes.
type Word struct {
	Text string
	From int
	To   int
}

// Len returns the word length in runes.
func (w Word) Len() int {
	return w.To - w.From
}

// WordAt finds the word containing column col+offset of line.
//
// A run of word runes is returned whole. A space is expanded to its run of
// spaces: toward the left when offset is negative, toward the right
// otherwise. Any other rune is returned on its own. An index outside the line
// yields an empty word at the clamped index.
func WordAt(line string, col, offset int) Word {
	runes := []rune(line)
	idx := col + offset
	if idx < 0 || idx >= len(runes) {
		idx = max(0, min(idx, len(runes)))
		return Word{From: idx, To: idx}
	}

	r := runes[idx]
	switch {
	case IsWordRune(r):
		from, to := idx, idx
		for from > 0 && IsWordRune(runes[from-1]) {
			from--
		}
		for to < len(runes) && IsWordRune(runes[to]) {
			to++
		}
		return Word{Text: string(runes[from:to]), From: from, To: to}

	case r == ' ':
		from, to := idx, idx+1
		if offset < 0 {
			for from > 0 && runes[from-1] == ' ' {
				from--
			}
		} else {
			for to < len(runes) && runes[to] == ' ' {
				to++
			}
		}
		return Word{Text: string(runes[from:to]), From: from, To: to}
	}

	return Word{Text: string(r), From: idx, To: idx + 1}
}
