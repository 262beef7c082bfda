package highlight

import "strings"

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes the three characters that would break markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// HTML renders tokens as escaped markup. Classified tokens are wrapped in
// <span class="{langKey} {class}">; unclassified text is only escaped.
func HTML(langKey string, tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		css := t.Class.CSS()
		if css == "" {
			sb.WriteString(EscapeHTML(t.Text))
			continue
		}
		sb.WriteString(`<span class="`)
		sb.WriteString(langKey)
		sb.WriteByte(' ')
		sb.WriteString(css)
		sb.WriteString(`">`)
		sb.WriteString(EscapeHTML(t.Text))
		sb.WriteString("</span>")
	}
	return sb.String()
}

// HTMLLine tokenizes line and renders it. Plain Text is escaped only.
func (h *Highlighter) HTMLLine(line string, in State) (string, State) {
	if h.lang.IsPlain() {
		return EscapeHTML(line), in
	}
	tokens, out := h.Tokenize(line, in)
	return HTML(h.lang.Key, tokens), out
}
