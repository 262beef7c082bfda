package lang

import (
	_ "embed"
	"sync"
)

//go:embed builtin.yaml
var builtinYAML []byte

var loadBuiltin = sync.OnceValues(func() ([]*Language, error) {
	defs, err := ParseYAML("builtin.yaml", builtinYAML)
	if err != nil {
		return nil, err
	}
	return buildAll(nil, "", defs)
})

// Builtin returns the languages compiled into the binary, in table order.
// The returned languages are shared and must not be modified.
func Builtin() []*Language {
	langs, err := loadBuiltin()
	if err != nil {
		panic("lang: invalid builtin table: " + err.Error())
	}
	out := make([]*Language, len(langs))
	copy(out, langs)
	return out
}

// NewBuiltinRegistry returns a registry holding only the builtin languages.
func NewBuiltinRegistry() *Registry {
	return NewRegistry(Builtin()...)
}
