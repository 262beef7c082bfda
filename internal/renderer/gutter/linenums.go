package gutter

import "strconv"

// LineNumberMode defines how line numbers are displayed.
type LineNumberMode uint8

const (
	// LineNumberAbsolute shows absolute line numbers (1, 2, 3, ...).
	LineNumberAbsolute LineNumberMode = iota

	// LineNumberRelative shows the distance from the cursor line.
	LineNumberRelative

	// LineNumberHybrid shows absolute for current line, relative for others.
	LineNumberHybrid
)

// ParseMode maps a configuration value to a mode.
// Unknown values select LineNumberAbsolute.
func ParseMode(s string) LineNumberMode {
	switch s {
	case "relative":
		return LineNumberRelative
	case "hybrid":
		return LineNumberHybrid
	default:
		return LineNumberAbsolute
	}
}

// number returns the number to display for a line.
func number(mode LineNumberMode, line, current int) int {
	switch mode {
	case LineNumberRelative:
		return absDiff(line, current)
	case LineNumberHybrid:
		if line == current {
			return line + 1
		}
		return absDiff(line, current)
	default:
		return line + 1
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// PadLeft pads a string with spaces on the left to the specified width.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := make([]byte, width-len(s))
	for i := range pad {
		pad[i] = ' '
	}
	return string(pad) + s
}

// DigitWidth returns the width needed to print every line number of a
// document with lineCount lines, never less than minWidth.
func DigitWidth(lineCount, minWidth int) int {
	return max(len(strconv.Itoa(max(lineCount, 1))), minWidth)
}
