package lang

import (
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Scoring weights for Detect.
const (
	IndicatorScore = 20
	WordScore      = 1
)

// Delimiters splits a line into highlighter tokens. Each match is a token of
// its own; the text between matches forms word tokens.
var Delimiters = regexp.MustCompile("(<!--|-->|\\*/|/\\*|::|[\\[\\](){}<>.,;:*\"'`%@$!/=+\\- \t])")

// chromaAliases maps chroma lexer names that differ from ours.
var chromaAliases = map[string]string{
	"batchfile":  "Batch",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"c++":        "C++",
	"python 3":   "Python",
	"python":     "Python",
	"php":        "PHP",
	"css":        "CSS",
	"html":       "HTML",
	"xml":        "XML",
	"json":       "JSON",
	"rust":       "Rust",
	"cmake":      "CMake",
	"glsl":       "GLSL",
	"markdown":   "Markdown",
	"c":          "C",
}

// detectionWords returns the set of words in text that can score: tokens
// without quotes and at least three characters long.
func detectionWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	add := func(t string) {
		if len(t) < 3 || strings.Contains(t, `"`) {
			return
		}
		words[t] = struct{}{}
	}
	for _, line := range strings.Split(text, "\n") {
		last := 0
		for _, m := range Delimiters.FindAllStringIndex(line, -1) {
			add(line[last:m[0]])
			add(line[m[0]:m[1]])
			last = m[1]
		}
		add(line[last:])
	}
	return words
}

// Score returns the detection score of text for l.
func Score(l *Language, text string) int {
	return score(l, text, detectionWords(text))
}

func score(l *Language, text string, words map[string]struct{}) int {
	n := 0
	for _, ind := range l.Indicators {
		if strings.Contains(text, ind) {
			n += IndicatorScore
		}
	}
	for _, set := range l.vocabulary() {
		for w := range set {
			if _, ok := words[w]; ok {
				n += WordScore
			}
		}
	}
	return n
}

// Detect guesses the language of text. Ties go to the language registered
// first. When no language scores, chroma's analysers are consulted; if they
// fail too, ok is false.
func (r *Registry) Detect(text string) (l *Language, ok bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	words := detectionWords(text)
	best, bestScore := (*Language)(nil), 0
	for _, cand := range r.langs {
		if s := score(cand, text, words); s > bestScore {
			best, bestScore = cand, s
		}
	}
	if best != nil {
		return best, true
	}
	return r.fromChroma(lexers.Analyse(text))
}

// DetectFile resolves a language from filename first and from text when the
// extension is unknown.
func (r *Registry) DetectFile(filename, text string) (*Language, bool) {
	if l, ok := r.ForFile(filename); ok {
		return l, true
	}
	if l, ok := r.fromChroma(lexers.Match(filename)); ok {
		return l, true
	}
	return r.Detect(text)
}

func (r *Registry) fromChroma(lexer chroma.Lexer) (*Language, bool) {
	if lexer == nil {
		return nil, false
	}
	name := lexer.Config().Name
	if alias, ok := chromaAliases[strings.ToLower(name)]; ok {
		name = alias
	}
	l, err := r.Get(name)
	if err != nil {
		return nil, false
	}
	return l, true
}
