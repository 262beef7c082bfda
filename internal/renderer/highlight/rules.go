package highlight

import (
	"strings"

	"github.com/dshills/codecore/internal/lang"
)

// Context is what a rule sees of the token being classified.
type Context struct {
	Lang *lang.Language

	Token string
	// Prev and Next are the nearest lexemes that are not blank; Next also
	// skips double quotes. Empty means none.
	Prev, Next string
	// PrevRaw and NextRaw are the immediate neighbours.
	PrevRaw, NextRaw string

	Index int
	Line  string

	InBlockComment bool
	InString       bool
	// Scope is the innermost open brace block, if any.
	Scope    Scope
	HasScope bool

	lexemes []lexeme
	header  *bool
	state   *State
}

// Declared returns the kind the token was declared with earlier in the
// document, or "".
func (c *Context) Declared() string {
	if c.state == nil {
		return ""
	}
	return c.state.Declared(c.Token)
}

// Declare remembers the token as a name of the given kind for later lines.
func (c *Context) Declare(kind string) {
	if c.state != nil && isLetter(c.Token) {
		*c.state = c.state.declare(c.Token, kind)
	}
}

// First reports whether the token is the first of its line.
func (c *Context) First() bool { return c.Index == 0 }

// Last reports whether the token is the last of its line.
func (c *Context) Last() bool { return c.Index == len(c.lexemes)-1 }

// Tokens returns the raw text of every lexeme on the line.
func (c *Context) Tokens() []string {
	out := make([]string, len(c.lexemes))
	for i, lx := range c.lexemes {
		out[i] = lx.text
	}
	return out
}

// Enclosed reports whether the token at index i sits between open and
// closer on its line, with no closer between the opener and the token.
// Symbols of the language are never enclosed.
func (c *Context) Enclosed(i int, open, closer string) bool {
	if i < 0 || i >= len(c.lexemes) {
		return false
	}
	lx := c.lexemes[i]
	before := c.Line[:lx.offset]

	start := strings.LastIndex(before, open)
	if start < 0 {
		return false
	}
	if strings.LastIndex(before, closer) > start {
		return false
	}
	end := strings.Index(c.Line[lx.offset:], closer)
	if end < 0 {
		return false
	}
	end += lx.offset
	return start < lx.offset && end >= lx.offset+len(lx.text) && !c.Lang.IsSymbol(lx.text)
}

// Rule classifies a token when Test passes. A Discard rule consumes the
// token without emitting it.
type Rule struct {
	Name    string
	Test    func(*Context) bool
	Class   Class
	Discard bool
	// Action runs after Test passes.
	Action func(*Context)
}

// isLetter reports whether s contains an ASCII letter.
func isLetter(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i] | 0x20; c >= 'a' && c <= 'z' {
			return true
		}
	}
	return false
}

func isKeyword(c *Context) bool {
	l := c.Lang
	kw := l.IsKeyword(c.Token) || l.RuleSet == "xml"

	if l.RuleSet == "cmake" {
		switch {
		case c.Token == "$" && c.Enclosed(c.Index+2, "{", "}"):
			kw = true
		case c.Enclosed(c.Index, "{", "}"):
			kw = kw || (c.Index >= 2 && c.lexemes[c.Index-2].text == "$")
		}
	}

	if l.RuleSet == "markdown" {
		return *c.header
	}
	if l.Tags {
		kw = kw && c.Enclosed(c.Index, "<", ">")
	}
	return kw
}

// commonRules run first for every language.
var commonRules = []Rule{
	{Name: "block-comment", Class: ClassComment, Test: func(c *Context) bool { return c.InBlockComment }},
	{Name: "string", Discard: true, Test: func(c *Context) bool { return c.InString }},
	{Name: "line-comment", Class: ClassComment, Test: func(c *Context) bool {
		return strings.HasPrefix(c.Token, c.Lang.SingleLineCommentToken)
	}},
	{Name: "keyword", Class: ClassKeyword, Test: isKeyword},
	{Name: "builtin", Class: ClassBuiltin, Test: func(c *Context) bool {
		return c.Lang.IsBuiltIn(c.Token) && (!c.Lang.Tags || c.Enclosed(c.Index, "<", ">"))
	}},
	{Name: "statement", Class: ClassStatement, Test: func(c *Context) bool { return c.Lang.IsStatement(c.Token) }},
	{Name: "symbol", Class: ClassSymbol, Test: func(c *Context) bool { return c.Lang.IsSymbol(c.Token) }},
	{Name: "type", Class: ClassType, Test: func(c *Context) bool { return c.Lang.IsType(c.Token) }},
	{Name: "number", Class: ClassNumber, Test: func(c *Context) bool {
		return IsNumber(c.Lang, c.Token) || IsNumber(c.Lang, unitStripper.Replace(c.Token))
	}},
	{Name: "preprocessor", Class: ClassPreprocessor, Test: func(c *Context) bool {
		return c.Lang.UsePreprocessor && strings.Contains(c.Token, "#")
	}},
}

// postRules run after the language rules.
var postRules = []Rule{
	{Name: "method", Class: ClassMethod, Test: func(c *Context) bool {
		return isLetter(c.Token) && c.Token[0] != '@' && c.Token != "," && c.Next == "("
	}},
}

func inEnum(c *Context) bool {
	return c.HasScope && c.Scope.Kind == ScopeEnum && c.Token != ","
}

func enclosedType(c *Context) bool {
	return c.Token != "," && c.Enclosed(c.Index, "<", ">")
}

// ruleSets holds the language-specific rules, keyed by lang.Language.RuleSet.
var ruleSets = map[string][]Rule{
	"javascript": {
		{Name: "class-name", Class: ClassType, Test: func(c *Context) bool {
			return c.Prev == "class" && c.Next == "{"
		}},
	},

	"typescript": {
		{Name: "enum-member", Class: ClassEnum, Test: inEnum},
		{Name: "annotation", Class: ClassType, Test: func(c *Context) bool {
			return (c.Prev == ":" && c.Next != "" && isLetter(c.Token)) ||
				((c.Prev == "interface" || c.Prev == "enum") && c.Next == "{")
		}},
		{Name: "class-name", Class: ClassType, Test: func(c *Context) bool {
			return (c.Prev == "class" && (c.Next == "{" || c.Next == "<")) ||
				(c.Prev == "new" && (c.Next == "(" || c.Next == "<"))
		}},
		{Name: "generic", Class: ClassType, Test: enclosedType},
	},

	"cpp": {
		{Name: "enum-member", Class: ClassEnum, Test: inEnum,
			Action: func(c *Context) { c.Declare(DeclEnum) }},
		{Name: "enum-value", Class: ClassEnum, Test: func(c *Context) bool { return c.Declared() == DeclEnum }},
		{Name: "class-name", Class: ClassType,
			Test: func(c *Context) bool {
				return (c.Prev == "class" || c.Prev == "struct") && c.Next == "{"
			},
			Action: func(c *Context) { c.Declare(DeclType) },
		},
		{Name: "template-arg", Class: ClassType, Test: func(c *Context) bool {
			return c.Prev == "<" && (c.Next == ">" || c.Next == "*")
		}},
		{Name: "qualifier", Class: ClassType, Test: func(c *Context) bool {
			return c.Next == "::" || (c.Prev == "::" && c.Next != "(")
		}},
		{Name: "declared-type", Class: ClassType, Test: func(c *Context) bool { return c.Declared() == DeclType }},
	},

	"wgsl": {
		{Name: "return-type", Class: ClassType, Test: func(c *Context) bool {
			return c.Prev == ">" && (c.Next == "" || c.Next == "{")
		}},
		{Name: "annotation", Class: ClassType, Test: func(c *Context) bool {
			return (c.Prev == ":" && c.Next != "") || (c.Prev == "struct" && c.Next == "{")
		}},
		{Name: "generic", Class: ClassType, Test: enclosedType},
	},

	"css": {
		{Name: "selector", Class: ClassKeyword, Test: func(c *Context) bool {
			return c.Prev == "." || c.Prev == "::" || (c.Prev == ":" && c.Next == "{") ||
				(c.Token[0] == '#' && c.Prev != ":")
		}},
		{Name: "value", Class: ClassString, Test: func(c *Context) bool {
			return c.Prev == ":" && (c.Next == ";" || c.Next == "!important")
		}},
		{Name: "property", Class: ClassType, Test: func(c *Context) bool {
			return (c.Prev == "" || c.Prev == "{" || c.Prev == ";") && c.Next == ":"
		}},
		{Name: "variable", Class: ClassType, Test: func(c *Context) bool {
			return c.Prev == "(" && c.Next == ")" && strings.HasPrefix(c.Token, "--")
		}},
	},

	"batch": {
		{Name: "label", Class: ClassKeyword, Test: func(c *Context) bool {
			return c.Token == "@" || c.Prev == ":" || c.Prev == "@"
		}},
	},

	"markdown": {
		{Name: "header", Class: ClassKeyword,
			Test:   func(c *Context) bool { return c.First() && strings.Contains(c.Token, "#") },
			Action: func(c *Context) { *c.header = true },
		},
	},

	"php": {
		{Name: "variable", Class: ClassVariable, Test: func(c *Context) bool {
			return strings.HasPrefix(c.Token, "$")
		}},
		{Name: "class-name", Class: ClassType, Test: func(c *Context) bool {
			return (c.Prev == "class" && (c.Next == "{" || c.Next == "implements")) || c.Prev == "enum"
		}},
	},
}

// RuleSet returns the language-specific rules registered under name.
func RuleSet(name string) []Rule {
	return ruleSets[name]
}
