package highlight

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/codecore/internal/lang"
)

// Highlighter tokenizes and classifies lines of one language.
// It is safe for concurrent use.
type Highlighter struct {
	lang      *lang.Language
	rules     []Rule
	post      []Rule
	script    *script
	logger    zerolog.Logger
	scriptDur time.Duration
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithLogger sets the logger used for rule script failures.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Highlighter) {
		h.logger = l
	}
}

// WithScriptTimeout bounds each call into the language's rule script.
func WithScriptTimeout(d time.Duration) Option {
	return func(h *Highlighter) {
		h.scriptDur = d
	}
}

// New creates a highlighter for l. A nil language highlights nothing.
// A rule script that fails to load is logged and ignored.
func New(l *lang.Language, opts ...Option) *Highlighter {
	if l == nil {
		l = lang.PlainText()
	}
	h := &Highlighter{
		lang:      l,
		logger:    zerolog.Nop(),
		scriptDur: DefaultScriptTimeout,
	}
	h.rules = append(h.rules, RuleSet(l.RuleSet)...)
	for _, opt := range opts {
		opt(h)
	}
	h.post = postRules

	if l.RuleScript != "" {
		s, err := compileScript(l.RuleScript, h.scriptDur)
		if err != nil {
			h.logger.Warn().Err(err).Str("language", l.Name).Msg("rule script disabled")
		} else {
			h.script = s
		}
	}
	return h
}

// Language returns the highlighter's language.
func (h *Highlighter) Language() *lang.Language {
	return h.lang
}

// Close releases the rule script, if any.
func (h *Highlighter) Close() {
	if h.script != nil {
		h.script.close()
	}
}

// lineRun carries the per-line mutable state of Tokenize.
type lineRun struct {
	state   State
	tokens  []Token
	pending strings.Builder
	pendCol int
	opener  string // current string opener, "" outside strings
	closer  string
	header  bool
}

// Tokenize classifies line given the state at its start and returns the
// tokens and the state at its end. Strings never span lines.
func (h *Highlighter) Tokenize(line string, in State) ([]Token, State) {
	if h.lang.IsPlain() {
		if line == "" {
			return nil, in
		}
		return []Token{{Text: line}}, in
	}

	lexemes := split(h.lang, line, in.BlockComment)
	if len(lexemes) == 0 {
		return nil, in
	}

	run := &lineRun{state: in}
	run.state.Pending = ""
	l := h.lang

	for i, lx := range lexemes {
		tok := lx.text
		ctx := &Context{
			Lang:    l,
			Token:   tok,
			Index:   i,
			Line:    line,
			lexemes: lexemes,
			header:  &run.header,
			state:   &run.state,
		}
		ctx.Prev, ctx.Next = neighbours(lexemes, i)
		if i > 0 {
			ctx.PrevRaw = lexemes[i-1].text
		}
		if i+1 < len(lexemes) {
			ctx.NextRaw = lexemes[i+1].text
		}

		if l.BlockComments && !run.state.BlockComment && run.opener == "" &&
			strings.HasPrefix(tok, l.BlockCommentOpen) {
			run.state.BlockComment = true
		}
		code := !run.state.BlockComment && run.opener == ""
		if code && tok == "}" {
			run.state = run.state.pop()
		}

		ended := h.trackString(run, ctx)
		ctx.InBlockComment = run.state.BlockComment
		ctx.InString = run.opener != ""
		ctx.Scope, ctx.HasScope = run.state.Scope()

		class, discard := h.classify(ctx)
		if discard {
			if run.pending.Len() == 0 {
				run.pendCol = lx.column
			}
			run.pending.WriteString(tok)
		}

		if run.opener != "" && (ended || ctx.Last()) && !ctx.InBlockComment {
			run.tokens = append(run.tokens, Token{Text: run.pending.String(), Class: ClassString, Column: run.pendCol})
			run.pending.Reset()
			discard = true
		}
		if ended {
			run.opener, run.closer = "", ""
		}
		if !discard {
			run.tokens = append(run.tokens, Token{Text: tok, Class: class, Column: lx.column})
		}

		if ctx.InBlockComment && strings.HasPrefix(tok, l.BlockCommentClose) {
			run.state.BlockComment = false
		}
		if code && tok == "{" {
			run.state = run.state.push(openScope(lexemes[:i], in.Pending))
		}
	}

	run.state.Pending = pendingScope(l, lexemes, in.Pending)
	return run.tokens, run.state
}

// trackString updates the string state for the current token and reports
// whether the token closes the open string.
func (h *Highlighter) trackString(run *lineRun, c *Context) bool {
	l := h.lang
	extra := map[string]string{}
	usePrev := false

	switch {
	case l.IncludeStrings && strings.Contains(c.Prev, "#"):
		extra["<"] = ">"
	case l.LinkStrings && (c.PrevRaw == "[" || c.NextRaw == "]"):
		usePrev = true
		extra["["] = "]"
	}

	if !usePrev {
		if run.state.BlockComment {
			return false
		}
		if l.Tags && !c.Enclosed(c.Index, "<", ">") {
			return false
		}
	}

	probe := c.Token
	if usePrev {
		probe = c.NextRaw
	}
	if run.opener != "" {
		return probe == run.closer
	}

	open := c.Token
	if usePrev {
		open = c.PrevRaw
	}
	closer, ok := extra[open]
	if !ok {
		closer, ok = l.StringCloser(open)
	}
	if !ok {
		return false
	}
	run.opener, run.closer = open, closer
	if usePrev {
		return c.NextRaw == closer
	}
	return false
}

// classify runs the rule chain. Blank tokens outside comments and strings
// only see the common rules.
func (h *Highlighter) classify(c *Context) (Class, bool) {
	for i := range commonRules {
		if r := &commonRules[i]; r.Test(c) {
			return r.apply(c)
		}
	}
	if isBlank(c.Token) {
		return ClassNone, false
	}
	for i := range h.rules {
		if r := &h.rules[i]; r.Test(c) {
			return r.apply(c)
		}
	}
	if h.script != nil {
		class, ok, err := h.script.classify(c.Token, c.Prev, c.Next)
		if err != nil {
			h.logger.Debug().Err(err).Str("language", h.lang.Name).Str("token", c.Token).Msg("rule script failed")
		} else if ok {
			return class, false
		}
	}
	for i := range h.post {
		if r := &h.post[i]; r.Test(c) {
			return r.apply(c)
		}
	}
	return ClassNone, false
}

func (r *Rule) apply(c *Context) (Class, bool) {
	if r.Action != nil {
		r.Action(c)
	}
	return r.Class, r.Discard
}

// neighbours returns the nearest non-blank lexeme before i and the nearest
// lexeme after i that is neither blank nor a double quote.
func neighbours(lexemes []lexeme, i int) (prev, next string) {
	for j := i - 1; j >= 0; j-- {
		if !isBlank(lexemes[j].text) {
			prev = lexemes[j].text
			break
		}
	}
	for j := i + 1; j < len(lexemes); j++ {
		if t := lexemes[j].text; !isBlank(t) && t != `"` {
			next = t
			break
		}
	}
	return prev, next
}

// openScope names the block opened by a '{' from the lexemes before it on
// the same line, back to the previous brace. A '{' with nothing before it
// uses the keyword carried over from earlier lines.
func openScope(before []lexeme, carried string) Scope {
	var ctx []string
	for j := len(before) - 1; j >= 0; j-- {
		t := before[j].text
		if t == "{" || t == "}" {
			break
		}
		if !isBlank(t) {
			ctx = append(ctx, t)
		}
	}
	if len(ctx) == 0 && carried != "" {
		return Scope{Kind: carried}
	}

	// ctx is reversed: the token nearest the brace comes first.
	for j, t := range ctx {
		if scopeKeywords[t] {
			sc := Scope{Kind: t}
			if j > 0 {
				sc.Name = ctx[j-1]
			}
			return sc
		}
	}
	for j, t := range ctx {
		if t == "(" && j+1 < len(ctx) {
			return Scope{Kind: ScopeMethod, Name: ctx[j+1]}
		}
	}
	return Scope{Kind: ScopeAnonymous}
}

// pendingScope returns the scope keyword a line leaves waiting for its
// brace. Lines with no code keep the incoming keyword.
func pendingScope(l *lang.Language, lexemes []lexeme, carried string) string {
	pending, sawCode := "", false
	for _, lx := range lexemes {
		switch t := lx.text; {
		case isBlank(t), strings.HasPrefix(t, l.SingleLineCommentToken):
		case t == "{" || t == "}" || t == ";":
			pending, sawCode = "", true
		case scopeKeywords[t]:
			pending, sawCode = t, true
		default:
			sawCode = true
		}
	}
	if !sawCode {
		return carried
	}
	return pending
}
