package highlight

// Scope kinds pushed when a '{' opens a block.
const (
	ScopeClass     = "class"
	ScopeEnum      = "enum"
	ScopeFunction  = "function"
	ScopeInterface = "interface"
	ScopeType      = "type"
	ScopeStruct    = "struct"
	ScopeNamespace = "namespace"
	ScopeMethod    = "method"
	ScopeAnonymous = "anonymous"
)

// scopeKeywords open a named scope when they precede a '{'.
var scopeKeywords = map[string]bool{
	ScopeClass:     true,
	ScopeEnum:      true,
	ScopeFunction:  true,
	ScopeInterface: true,
	ScopeType:      true,
	ScopeStruct:    true,
	ScopeNamespace: true,
}

// Scope is an open brace block.
type Scope struct {
	Kind string
	Name string
}

// Declaration kinds remembered across lines.
const (
	DeclType = "type"
	DeclEnum = "enum"
)

type declNode struct {
	name, kind string
	parent     *declNode
	n          int
}

type scopeNode struct {
	Scope
	parent *scopeNode
	depth  int
}

// State is the tokenizer state at a line boundary. The zero value is the
// state at the start of a document. States are values; pushing a scope never
// modifies a state already handed out.
type State struct {
	// BlockComment is true while inside an unterminated block comment.
	BlockComment bool
	// Pending is a scope keyword seen without its '{' yet, such as
	// "enum Color" on a line of its own.
	Pending string

	scopes *scopeNode
	decls  *declNode
}

// Scope returns the innermost open scope.
func (s State) Scope() (Scope, bool) {
	if s.scopes == nil {
		return Scope{}, false
	}
	return s.scopes.Scope, true
}

// Depth returns the number of open scopes.
func (s State) Depth() int {
	if s.scopes == nil {
		return 0
	}
	return s.scopes.depth
}

// Scopes returns the open scopes, outermost first.
func (s State) Scopes() []Scope {
	out := make([]Scope, s.Depth())
	for n := s.scopes; n != nil; n = n.parent {
		out[n.depth-1] = n.Scope
	}
	return out
}

func (s State) push(sc Scope) State {
	s.scopes = &scopeNode{Scope: sc, parent: s.scopes, depth: s.Depth() + 1}
	return s
}

func (s State) pop() State {
	if s.scopes != nil {
		s.scopes = s.scopes.parent
	}
	return s
}

// Declared returns the kind a name was declared with on an earlier token,
// or "".
func (s State) Declared(name string) string {
	for n := s.decls; n != nil; n = n.parent {
		if n.name == name {
			return n.kind
		}
	}
	return ""
}

func (s State) declare(name, kind string) State {
	if s.Declared(name) == kind {
		return s
	}
	n := 1
	if s.decls != nil {
		n = s.decls.n + 1
	}
	s.decls = &declNode{name: name, kind: kind, parent: s.decls, n: n}
	return s
}

// Equal reports whether two states would tokenize the next line the same.
func (s State) Equal(o State) bool {
	if s.BlockComment != o.BlockComment || s.Pending != o.Pending || s.Depth() != o.Depth() {
		return false
	}
	a, b := s.scopes, o.scopes
	for a != nil && a != b {
		if a.Scope != b.Scope {
			return false
		}
		a, b = a.parent, b.parent
	}
	return declsEqual(s.decls, o.decls)
}

func declsEqual(a, b *declNode) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a != nil && a.n != b.n {
		return false
	}
	for a != nil && a != b {
		if a.name != b.name || a.kind != b.kind {
			return false
		}
		a, b = a.parent, b.parent
	}
	return true
}
