package highlight

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultScriptTimeout bounds a single classify call.
const DefaultScriptTimeout = 50 * time.Millisecond

// ScriptFunc is the global a rule script must define:
//
//	function classify(token, prev, next) return "cm-typ" end
//
// It returns a class name, a CSS class, or nil to decline.
const ScriptFunc = "classify"

var errNoClassify = errors.New("rule script does not define " + ScriptFunc)

// script runs a language's Lua rules. gopher-lua states are not safe for
// concurrent use, so calls are serialized.
type script struct {
	mu      sync.Mutex
	L       *lua.LState
	fn      lua.LValue
	timeout time.Duration
	closed  bool
}

// compileScript loads src into a fresh state with only the base, table,
// string and math libraries.
func compileScript(src string, timeout time.Duration) (*script, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	if err := doWithRecovery(func() error { return L.DoString(src) }); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading rule script: %w", err)
	}
	fn := L.GetGlobal(ScriptFunc)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, errNoClassify
	}
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	return &script{L: L, fn: fn, timeout: timeout}, nil
}

// classify calls the script. A script error or an unknown class name counts
// as declining.
func (s *script) classify(token, prev, next string) (Class, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ClassNone, false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	err := doWithRecovery(func() error {
		return s.L.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true},
			lua.LString(token), optString(prev), optString(next))
	})
	if err != nil {
		return ClassNone, false, err
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)

	str, ok := ret.(lua.LString)
	if !ok {
		return ClassNone, false, nil
	}
	c, ok := ParseClass(string(str))
	return c, ok, nil
}

func (s *script) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.L.Close()
		s.closed = true
	}
}

func optString(s string) lua.LValue {
	if s == "" {
		return lua.LNil
	}
	return lua.LString(s)
}

func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
