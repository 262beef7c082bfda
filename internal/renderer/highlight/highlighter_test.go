package highlight

import (
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/dshills/codecore/internal/lang"
)

var builtin = lang.NewBuiltinRegistry()

func newHighlighter(t *testing.T, name string, opts ...Option) *Highlighter {
	t.Helper()
	l, err := builtin.Get(name)
	if err != nil {
		t.Fatalf("language %q: %v", name, err)
	}
	h := New(l, opts...)
	t.Cleanup(h.Close)
	return h
}

// tokenizeLines runs lines through h, threading the state.
func tokenizeLines(h *Highlighter, lines ...string) [][]Token {
	out := make([][]Token, len(lines))
	var st State
	for i, line := range lines {
		out[i], st = h.Tokenize(line, st)
	}
	return out
}

func find(tokens []Token, text string) (Token, bool) {
	for _, tok := range tokens {
		if tok.Text == text {
			return tok, true
		}
	}
	return Token{}, false
}

func expectClass(t *testing.T, tokens []Token, text string, want Class) {
	t.Helper()
	tok, ok := find(tokens, text)
	if !ok {
		t.Fatalf("no token %q in %v", text, tokens)
	}
	if tok.Class != want {
		t.Errorf("token %q: got class %s, want %s", text, tok.Class, want)
	}
}

func TestTokenizeCStatement(t *testing.T) {
	h := newHighlighter(t, "C")
	tokens, _ := h.Tokenize("int x = 5; // set", State{})

	want := []Token{
		{Text: "int", Class: ClassKeyword, Column: 0},
		{Text: " ", Column: 3},
		{Text: "x", Column: 4},
		{Text: " ", Column: 5},
		{Text: "=", Class: ClassSymbol, Column: 6},
		{Text: " ", Column: 7},
		{Text: "5", Class: ClassNumber, Column: 8},
		{Text: ";", Class: ClassSymbol, Column: 9},
		{Text: " ", Column: 10},
		{Text: "// set", Class: ClassComment, Column: 11},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("got  %v\nwant %v", tokens, want)
	}
}

func TestTokenizeReproducesLine(t *testing.T) {
	tests := []struct {
		lang string
		line string
	}{
		{"C", "int x = 5; // set"},
		{"C", "#include <stdio.h>"},
		{"C++", "std::vector<int> v = {1.5f, 0x1F, 10u};"},
		{"JavaScript", `const s = "a // b" + 'c' + ` + "`d`;"},
		{"TypeScript", "enum Color { Red, Green }"},
		{"Python", "def f(x):  # comment"},
		{"CSS", "div.box { width: 50%; margin: 12px !important; }"},
		{"HTML", `<a href="x.html">link</a> <!-- note -->`},
		{"Markdown", "## Heading with [a link](http://x.io) and ünïcödé"},
		{"PHP", "$name = 'x'; echo $name;"},
		{"WGSL", "@group(0) @binding(1) var<uniform> u: vec4<f32>;"},
		{"Batch", "@echo off :: comment"},
		{"C", "\tint\ttab;"},
		{"C", `char *s = "unterminated`},
		{"C", ""},
		{"Plain Text", "just <text>"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.line, func(t *testing.T) {
			h := newHighlighter(t, tt.lang)
			tokens, _ := h.Tokenize(tt.line, State{})
			if got := Join(tokens); got != tt.line {
				t.Errorf("Join = %q, want %q", got, tt.line)
			}
			col := 0
			for _, tok := range tokens {
				if tok.Column != col {
					t.Errorf("token %q at column %d, want %d", tok.Text, tok.Column, col)
				}
				col += utf8.RuneCountInString(tok.Text)
			}
		})
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	h := newHighlighter(t, "C++")
	line := "class Widget { int n = 3; };"
	a, sa := h.Tokenize(line, State{})
	b, sb := h.Tokenize(line, State{})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("tokens differ between runs:\n%v\n%v", a, b)
	}
	if !sa.Equal(sb) {
		t.Error("end states differ between runs")
	}
}

func TestBlockCommentAcrossLines(t *testing.T) {
	h := newHighlighter(t, "C")
	lines := tokenizeLines(h, "a /* start", "middle", "end */ b")

	expectClass(t, lines[0], "a", ClassNone)
	expectClass(t, lines[0], "/*", ClassComment)
	expectClass(t, lines[0], "start", ClassComment)
	expectClass(t, lines[1], "middle", ClassComment)
	expectClass(t, lines[2], "end", ClassComment)
	expectClass(t, lines[2], "*/", ClassComment)
	expectClass(t, lines[2], "b", ClassNone)

	_, st := h.Tokenize("/* open", State{})
	if !st.BlockComment {
		t.Error("unterminated block comment should carry into the next line")
	}
	_, st = h.Tokenize("/* closed */", State{})
	if st.BlockComment {
		t.Error("closed block comment should not carry")
	}
}

func TestLineCommentInsideString(t *testing.T) {
	h := newHighlighter(t, "JavaScript")
	tokens, _ := h.Tokenize(`let s = "a // b";`, State{})

	tok, ok := find(tokens, `"a // b"`)
	if !ok {
		t.Fatalf("string not merged into one token: %v", tokens)
	}
	if tok.Class != ClassString || tok.Column != 8 {
		t.Errorf("got %+v, want string at column 8", tok)
	}
	expectClass(t, tokens, "let", ClassKeyword)
	expectClass(t, tokens, ";", ClassSymbol)
}

func TestUnterminatedStringEndsAtLineEnd(t *testing.T) {
	h := newHighlighter(t, "C")
	tokens, st := h.Tokenize(`x = "open`, State{})
	last := tokens[len(tokens)-1]
	if last.Text != `"open` || last.Class != ClassString {
		t.Errorf("got %+v, want trailing string", last)
	}

	next, _ := h.Tokenize("y;", st)
	expectClass(t, next, "y", ClassNone)
}

func TestIncludeStrings(t *testing.T) {
	h := newHighlighter(t, "C")
	tokens, _ := h.Tokenize("#include <stdio.h>", State{})
	expectClass(t, tokens, "#include", ClassPreprocessor)
	expectClass(t, tokens, "<stdio.h>", ClassString)
}

func TestEnumScopeAcrossLines(t *testing.T) {
	h := newHighlighter(t, "C++")
	lines := tokenizeLines(h,
		"enum Color",
		"{",
		"  RED,",
		"  GREEN",
		"};",
		"Color c = GREEN;",
	)

	expectClass(t, lines[2], "RED", ClassEnum)
	expectClass(t, lines[3], "GREEN", ClassEnum)
	expectClass(t, lines[5], "GREEN", ClassEnum)
	expectClass(t, lines[5], "c", ClassNone)
}

func TestScopeStack(t *testing.T) {
	h := newHighlighter(t, "C++")
	_, st := h.Tokenize("namespace app { class Widget {", State{})
	if st.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", st.Depth())
	}
	sc, _ := st.Scope()
	if sc.Kind != ScopeClass || sc.Name != "Widget" {
		t.Errorf("innermost scope %+v", sc)
	}

	_, st = h.Tokenize("void run() {", st)
	if sc, _ := st.Scope(); sc.Kind != ScopeMethod || sc.Name != "run" {
		t.Errorf("method scope %+v", sc)
	}

	_, st = h.Tokenize("} } }", st)
	if st.Depth() != 0 {
		t.Errorf("braces should close every scope, depth %d", st.Depth())
	}
}

func TestDeclaredTypes(t *testing.T) {
	h := newHighlighter(t, "C++")
	lines := tokenizeLines(h,
		"struct Point {",
		"};",
		"Point p;",
	)
	expectClass(t, lines[0], "Point", ClassType)
	expectClass(t, lines[2], "Point", ClassType)
	expectClass(t, lines[2], "p", ClassNone)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		lang  string
		line  string
		token string
	}{
		{"C++", "float f = 1.5f;", "1.5f"},
		{"C++", "int h = 0x1F;", "0x1F"},
		{"C++", "auto n = 10u;", "10u"},
		{"C", "double d = .5;", ".5"},
		{"C", "double e = 3.;", "3."},
		{"CSS", "div { width: 50%; }", "50%"},
		{"CSS", "div { margin: 12px; }", "12px"},
		{"Python", "x = 1e10", "1e10"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h := newHighlighter(t, tt.lang)
			tokens, _ := h.Tokenize(tt.line, State{})
			expectClass(t, tokens, tt.token, ClassNumber)
		})
	}
}

func TestIsNumber(t *testing.T) {
	cpp, _ := builtin.Get("C++")
	html, _ := builtin.Get("HTML")

	for _, s := range []string{"0", "-3", "+2.5", "1e-3", "0b101", "0o17", "Infinity", "2f", "7u"} {
		if !IsNumber(cpp, s) {
			t.Errorf("IsNumber(cpp, %q) = false", s)
		}
	}
	for _, s := range []string{"", "f", "x1", "1.5u", "0x", "--"} {
		if IsNumber(cpp, s) {
			t.Errorf("IsNumber(cpp, %q) = true", s)
		}
	}
	if IsNumber(html, "42") {
		t.Error("languages without numbers never have numeric tokens")
	}
}

func TestCSSImportant(t *testing.T) {
	h := newHighlighter(t, "CSS")
	tokens, _ := h.Tokenize("p { color: red !important; }", State{})
	expectClass(t, tokens, "!important", ClassBuiltin)
}

func TestMarkdown(t *testing.T) {
	h := newHighlighter(t, "Markdown")

	tokens, _ := h.Tokenize("# Title here", State{})
	expectClass(t, tokens, "#", ClassKeyword)
	expectClass(t, tokens, "Title", ClassKeyword)
	expectClass(t, tokens, "here", ClassKeyword)

	tokens, _ = h.Tokenize("see [docs](x) now", State{})
	expectClass(t, tokens, "docs", ClassString)
	expectClass(t, tokens, "see", ClassNone)
	expectClass(t, tokens, "now", ClassNone)
}

func TestHTMLTags(t *testing.T) {
	h := newHighlighter(t, "HTML")
	tokens, _ := h.Tokenize("<body>hi body</body>", State{})

	var body []Class
	for _, tok := range tokens {
		if tok.Text == "body" {
			body = append(body, tok.Class)
		}
	}
	want := []Class{ClassKeyword, ClassNone, ClassKeyword}
	if !reflect.DeepEqual(body, want) {
		t.Errorf("body classes %v, want %v", body, want)
	}
	expectClass(t, tokens, "hi", ClassNone)
}

func TestPHPVariables(t *testing.T) {
	h := newHighlighter(t, "PHP")
	tokens, _ := h.Tokenize("$name = 1;", State{})
	expectClass(t, tokens, "$name", ClassVariable)
}

func TestMethodRule(t *testing.T) {
	h := newHighlighter(t, "JavaScript")
	tokens, _ := h.Tokenize("run(x);", State{})
	expectClass(t, tokens, "run", ClassMethod)
	expectClass(t, tokens, "x", ClassNone)
}

func TestExtraRules(t *testing.T) {
	todo := Rule{Name: "todo", Class: ClassBuiltin, Test: func(c *Context) bool { return c.Token == "TODO" }}
	h := newHighlighter(t, "C")
	h.rules = append(h.rules, todo)
	tokens, _ := h.Tokenize("TODO fix", State{})
	expectClass(t, tokens, "TODO", ClassBuiltin)
}

func scriptLanguage(t *testing.T, src string) *lang.Language {
	t.Helper()
	l, err := lang.Definition{Name: "Toy", Keywords: []string{"let"}, Rules: src}.Build()
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestLuaRules(t *testing.T) {
	l := scriptLanguage(t, `
function classify(token, prev, next)
  if token == "foo" then return "type" end
  if prev == "foo" then return "cm-kwd" end
  return nil
end`)
	h := New(l)
	defer h.Close()

	tokens, _ := h.Tokenize("foo bar baz", State{})
	expectClass(t, tokens, "foo", ClassType)
	expectClass(t, tokens, "bar", ClassKeyword)
	expectClass(t, tokens, "baz", ClassNone)

	// Common rules run before the script.
	tokens, _ = h.Tokenize("let foo", State{})
	expectClass(t, tokens, "let", ClassKeyword)
}

func TestLuaRulesBroken(t *testing.T) {
	for _, src := range []string{
		"this is not lua",
		"x = 1",
		`function classify() error("boom") end`,
	} {
		h := New(scriptLanguage(t, src))
		tokens, _ := h.Tokenize("foo", State{})
		expectClass(t, tokens, "foo", ClassNone)
		h.Close()
	}
}

func TestLuaRulesTimeout(t *testing.T) {
	h := New(scriptLanguage(t, "function classify() while true do end end"),
		WithScriptTimeout(20*time.Millisecond))
	defer h.Close()

	start := time.Now()
	tokens, _ := h.Tokenize("foo", State{})
	if time.Since(start) > 2*time.Second {
		t.Fatal("script was not interrupted")
	}
	expectClass(t, tokens, "foo", ClassNone)
}

func TestLuaSandbox(t *testing.T) {
	h := New(scriptLanguage(t, `
function classify(token)
  if dofile == nil and require == nil and os == nil and io == nil then return "builtin" end
end`))
	defer h.Close()
	tokens, _ := h.Tokenize("foo", State{})
	expectClass(t, tokens, "foo", ClassBuiltin)
}

func TestPlainText(t *testing.T) {
	h := New(nil)
	tokens, st := h.Tokenize("int x = 5;", State{})
	if len(tokens) != 1 || tokens[0].Class != ClassNone {
		t.Errorf("plain text should be a single unclassified token, got %v", tokens)
	}
	if !st.Equal(State{}) {
		t.Error("plain text should not change state")
	}
}

func TestTokenAt(t *testing.T) {
	h := newHighlighter(t, "C")
	tokens, _ := h.Tokenize("int x;", State{})
	tok, ok := TokenAt(tokens, 1)
	if !ok || tok.Text != "int" {
		t.Errorf("TokenAt(1) = %+v, %v", tok, ok)
	}
	if _, ok := TokenAt(tokens, 99); ok {
		t.Error("TokenAt past the line should fail")
	}
}

func TestParseClass(t *testing.T) {
	for c := ClassNone; c < classCount; c++ {
		got, ok := ParseClass(c.String())
		if !ok || got != c {
			t.Errorf("ParseClass(%q) = %v, %v", c.String(), got, ok)
		}
		if css := c.CSS(); css != "" {
			if got, _ := ParseClass(css); got != c {
				t.Errorf("ParseClass(%q) = %v", css, got)
			}
		}
	}
	if _, ok := ParseClass("bogus"); ok {
		t.Error("unknown class should not parse")
	}
	if !strings.HasPrefix(ClassKeyword.CSS(), "cm-") {
		t.Error("css classes carry the cm- prefix")
	}
}
