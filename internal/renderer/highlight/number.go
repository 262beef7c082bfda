package highlight

import (
	"regexp"
	"strings"

	"github.com/dshills/codecore/internal/lang"
)

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	radixLiteral   = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// IsNumber reports whether token is a numeric literal in l. Languages with
// numbers disabled never have numeric tokens. C++ accepts an f suffix and,
// on integers, a u suffix; WGSL accepts the u suffix; CSS accepts a trailing
// percent sign.
func IsNumber(l *lang.Language, token string) bool {
	if !l.Numbers || token == "" {
		return false
	}

	sub := token[:len(token)-1]
	switch last := token[len(token)-1]; {
	case l.RuleSet == "cpp" && last == 'f':
		return IsNumber(l, sub)
	case (l.RuleSet == "cpp" || l.RuleSet == "wgsl") && last == 'u':
		return !strings.Contains(token, ".") && IsNumber(l, sub)
	case l.RuleSet == "css" && last == '%':
		return IsNumber(l, sub)
	}
	return isNumeric(token)
}

// isNumeric accepts decimal literals with optional sign, fraction and
// exponent, 0x/0o/0b integers and Infinity.
func isNumeric(s string) bool {
	switch s {
	case "Infinity", "+Infinity", "-Infinity":
		return true
	}
	return decimalLiteral.MatchString(s) || radixLiteral.MatchString(s)
}

// unitStripper removes CSS-style unit letters before a second number test.
var unitStripper = strings.NewReplacer("p", "", "x", "", "e", "", "m", "", "%", "")
