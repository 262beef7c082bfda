package lang

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry is an immutable collection of languages.
// Later registrations replace earlier ones with the same name, so user
// definitions can override builtins.
type Registry struct {
	langs  []*Language
	byName map[string]*Language
	byExt  map[string]*Language
	plain  *Language
}

// NewRegistry builds a registry from langs. A Plain Text language is
// synthesized when none is given.
func NewRegistry(langs ...*Language) *Registry {
	r := &Registry{
		byName: make(map[string]*Language, len(langs)),
		byExt:  make(map[string]*Language),
	}
	for _, l := range langs {
		if l == nil {
			continue
		}
		name := strings.ToLower(l.Name)
		if old, ok := r.byName[name]; ok {
			for i, existing := range r.langs {
				if existing == old {
					r.langs[i] = l
				}
			}
		} else {
			r.langs = append(r.langs, l)
		}
		r.byName[name] = l
	}

	// Extensions resolve to the first language claiming them.
	for _, l := range r.langs {
		for _, ext := range l.Extensions {
			if _, taken := r.byExt[ext]; !taken {
				r.byExt[ext] = l
			}
		}
	}

	r.plain = r.byName[strings.ToLower(PlainTextName)]
	if r.plain == nil {
		r.plain = PlainText()
		r.langs = append([]*Language{r.plain}, r.langs...)
		r.byName[strings.ToLower(PlainTextName)] = r.plain
	}
	return r
}

// Get returns the language with the given name or key, case-insensitively.
func (r *Registry) Get(name string) (*Language, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if l, ok := r.byName[n]; ok {
		return l, nil
	}
	key := KeyFor(name)
	for _, l := range r.langs {
		if l.Key == key {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
}

// Lookup is like Get but falls back to Plain Text.
func (r *Registry) Lookup(name string) *Language {
	if l, err := r.Get(name); err == nil {
		return l
	}
	return r.plain
}

// PlainText returns the registry's Plain Text language.
func (r *Registry) PlainText() *Language {
	return r.plain
}

// ForExtension returns the language registered for a file extension.
// The extension may include the leading dot.
func (r *Registry) ForExtension(ext string) (*Language, bool) {
	l, ok := r.byExt[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return l, ok
}

// ForFile returns the language registered for filename's extension.
func (r *Registry) ForFile(filename string) (*Language, bool) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return nil, false
	}
	return r.ForExtension(ext)
}

// Names returns every language name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.langs))
	for i, l := range r.langs {
		out[i] = l.Name
	}
	return out
}

// Languages returns every language in registration order.
func (r *Registry) Languages() []*Language {
	out := make([]*Language, len(r.langs))
	copy(out, r.langs)
	return out
}

// Len returns the number of registered languages.
func (r *Registry) Len() int {
	return len(r.langs)
}

// With returns a new registry with langs added on top of r's.
func (r *Registry) With(langs ...*Language) *Registry {
	all := make([]*Language, 0, len(r.langs)+len(langs))
	all = append(all, r.langs...)
	all = append(all, langs...)
	return NewRegistry(all...)
}
