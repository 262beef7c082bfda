package highlight

import (
	"strings"
	"sync"

	"github.com/dshills/codecore/internal/lang"
)

// DefaultCacheSize is the number of lines a Provider keeps tokens for.
const DefaultCacheSize = 1000

// LineRange is an inclusive span of lines.
type LineRange struct {
	Start, End int
}

// Provider tokenizes the lines of one document on demand and caches the
// results. A cached line is reused only while both its text and the state it
// started in are unchanged.
//
// Tokenizer state is threaded only through the window set by SetWindow. The
// window's first line starts from a fresh state that carries just the block
// comment flag, found by scanning the raw text above it for comment markers.
// Lines outside the window are tokenized on their own the same way.
type Provider struct {
	mu sync.Mutex

	h     *Highlighter
	lines func(line int) string

	start, end int // window, end exclusive

	lineCache  map[int]*cachedLine
	stateCache map[int]State // state at the end of each window line
	blockCache map[int]bool  // block comment open at the end of each line
	maxCache   int
}

type cachedLine struct {
	text   string
	in     State
	out    State
	tokens []Token
}

// NewProvider creates a provider reading document lines through lines.
func NewProvider(h *Highlighter, lines func(line int) string, maxCache int) *Provider {
	if maxCache <= 0 {
		maxCache = DefaultCacheSize
	}
	return &Provider{
		h:          h,
		lines:      lines,
		lineCache:  make(map[int]*cachedLine),
		stateCache: make(map[int]State),
		blockCache: make(map[int]bool),
		maxCache:   maxCache,
	}
}

// SetHighlighter switches the highlighter and drops every cached line.
func (p *Provider) SetHighlighter(h *Highlighter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.h = h
	p.clearCache()
}

// Highlighter returns the active highlighter.
func (p *Provider) Highlighter() *Highlighter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.h
}

// SetWindow sets the lines [start, end) whose tokenizer state is threaded
// from one line to the next.
func (p *Provider) SetWindow(start, end int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	start = max(start, 0)
	end = max(end, start)
	if start != p.start {
		p.stateCache = make(map[int]State)
	}
	p.start, p.end = start, end
}

// Tokens returns the classified tokens of line.
func (p *Provider) Tokens(line int) []Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.h == nil || p.lines == nil || line < 0 {
		return nil
	}
	tokens, _ := p.tokenize(line, p.stateBefore(line))
	return tokens
}

// BlockComments returns the multi-line block comments among the first
// count lines, in document order. A comment left open ends on the last line.
// Only comment markers are scanned; nothing is classified.
func (p *Provider) BlockComments(count int) []LineRange {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.h == nil || p.lines == nil || count <= 0 {
		return nil
	}
	p.blockAt(count - 1)

	var out []LineRange
	open := -1
	in := false
	for line := 0; line < count; line++ {
		end := p.blockCache[line]
		switch {
		case !in && end:
			open = line
		case in && !end && open >= 0:
			out = append(out, LineRange{Start: open, End: line})
			open = -1
		}
		in = end
	}
	if open >= 0 {
		out = append(out, LineRange{Start: open, End: count - 1})
	}
	return out
}

// InvalidateLines drops cached results from startLine onward. Every later
// line may depend on the state carried out of startLine.
func (p *Provider) InvalidateLines(startLine int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for line := range p.lineCache {
		if line >= startLine {
			delete(p.lineCache, line)
		}
	}
	for line := range p.stateCache {
		if line >= startLine {
			delete(p.stateCache, line)
		}
	}
	for line := range p.blockCache {
		if line >= startLine {
			delete(p.blockCache, line)
		}
	}
}

func (p *Provider) inWindow(line int) bool {
	return line >= p.start && line < p.end
}

// tokenize returns the tokens and end state of line starting from in,
// reusing the cached result when neither has changed.
func (p *Provider) tokenize(line int, in State) ([]Token, State) {
	text := p.lines(line)
	if cached, ok := p.lineCache[line]; ok && cached.text == text && cached.in.Equal(in) {
		if p.inWindow(line) {
			p.stateCache[line] = cached.out
		}
		return cached.tokens, cached.out
	}

	tokens, out := p.h.Tokenize(text, in)
	if len(p.lineCache) >= p.maxCache {
		p.evictCache(line)
	}
	p.lineCache[line] = &cachedLine{text: text, in: in, out: out, tokens: tokens}
	if p.inWindow(line) {
		p.stateCache[line] = out
	}
	return tokens, out
}

// stateBefore returns the state line starts in. Inside the window it is the
// previous line's end state; elsewhere a fresh state.
func (p *Provider) stateBefore(line int) State {
	if line <= p.start || !p.inWindow(line) {
		return State{BlockComment: p.blockBefore(line)}
	}
	if s, ok := p.stateCache[line-1]; ok {
		return s
	}
	return p.computeStateUpTo(line - 1)
}

// computeStateUpTo fills the state cache from the window start through
// target, resuming from the nearest cached state.
func (p *Provider) computeStateUpTo(target int) State {
	from := p.start
	state := State{BlockComment: p.blockBefore(p.start)}
	for line := target; line > p.start; line-- {
		if s, ok := p.stateCache[line-1]; ok {
			from, state = line, s
			break
		}
	}
	for line := from; line <= target; line++ {
		if s, ok := p.stateCache[line]; ok {
			state = s
			continue
		}
		_, state = p.tokenize(line, state)
	}
	return state
}

func (p *Provider) blockBefore(line int) bool {
	if line <= 0 {
		return false
	}
	return p.blockAt(line - 1)
}

// blockAt reports whether a block comment is open at the end of line,
// scanning forward from the nearest known line.
func (p *Provider) blockAt(line int) bool {
	if v, ok := p.blockCache[line]; ok {
		return v
	}
	from, in := 0, false
	for l := line - 1; l >= 0; l-- {
		if v, ok := p.blockCache[l]; ok {
			from, in = l+1, v
			break
		}
	}
	lg := p.h.Language()
	for l := from; l <= line; l++ {
		in = blockOpenAfter(lg, p.lines(l), in)
		p.blockCache[l] = in
	}
	return in
}

// blockOpenAfter reports whether a block comment is still open at the end of
// line, given whether one was open at its start.
func blockOpenAfter(l *lang.Language, line string, in bool) bool {
	if !l.BlockComments || l.BlockCommentOpen == "" || l.BlockCommentClose == "" {
		return false
	}
	if cut := commentStart(l, line, in); cut >= 0 {
		line = line[:cut]
	}
	pos := 0
	for pos < len(line) {
		rest := line[pos:]
		if in {
			end := strings.Index(rest, l.BlockCommentClose)
			if end < 0 {
				return true
			}
			pos += end + len(l.BlockCommentClose)
			in = false
			continue
		}
		open := strings.Index(rest, l.BlockCommentOpen)
		if open < 0 {
			return false
		}
		pos += open + len(l.BlockCommentOpen)
		in = !insideString(l, line[:pos-len(l.BlockCommentOpen)])
	}
	return in
}

// evictCache drops about a quarter of the cached tokens, never keep.
func (p *Provider) evictCache(keep int) {
	toRemove := max(len(p.lineCache)/4, 1)
	removed := 0
	for line := range p.lineCache {
		if line == keep {
			continue
		}
		delete(p.lineCache, line)
		removed++
		if removed >= toRemove {
			break
		}
	}
}

func (p *Provider) clearCache() {
	p.lineCache = make(map[int]*cachedLine)
	p.stateCache = make(map[int]State)
	p.blockCache = make(map[int]bool)
}
