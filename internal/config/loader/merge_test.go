package loader

import (
	"reflect"
	"testing"
)

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor":  map[string]any{"tabSpaces": 4, "theme": "light"},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"editor":    map[string]any{"theme": "dark"},
		"languages": map[string]any{"dir": "/langs"},
		"logging":   "off",
	}
	got := DeepMerge(dst, src)
	want := map[string]any{
		"editor":    map[string]any{"tabSpaces": 4, "theme": "dark"},
		"languages": map[string]any{"dir": "/langs"},
		"logging":   "off",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeepMerge = %#v\nwant %#v", got, want)
	}

	// The merged map must not alias src.
	src["languages"].(map[string]any)["dir"] = "/changed"
	if v, _ := Get(got, "languages.dir"); v != "/langs" {
		t.Errorf("merged map aliases source: %v", v)
	}
}

func TestDeepMergeNilDst(t *testing.T) {
	got := DeepMerge(nil, map[string]any{"a": 1})
	if got["a"] != 1 {
		t.Errorf("got %v", got)
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{"a": map[string]any{"b": []any{"x", map[string]any{"c": 1}}}}
	dst := Clone(src)
	if !reflect.DeepEqual(src, dst) {
		t.Fatalf("Clone = %#v", dst)
	}
	dst["a"].(map[string]any)["b"].([]any)[0] = "y"
	if src["a"].(map[string]any)["b"].([]any)[0] != "x" {
		t.Error("Clone shares slices with the source")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestGetSet(t *testing.T) {
	m := make(map[string]any)
	Set(m, "editor.tabSpaces", 2)
	Set(m, "editor.theme", "dark")
	Set(m, "top", true)

	if v, ok := Get(m, "editor.tabSpaces"); !ok || v != 2 {
		t.Errorf("Get editor.tabSpaces = %v, %v", v, ok)
	}
	if v, ok := Get(m, "top"); !ok || v != true {
		t.Errorf("Get top = %v, %v", v, ok)
	}
	if _, ok := Get(m, "editor.missing"); ok {
		t.Error("missing key reported present")
	}
	if _, ok := Get(m, "top.deeper"); ok {
		t.Error("path through a scalar reported present")
	}

	// Set replaces a scalar on the way with a map.
	Set(m, "top.deeper", 1)
	if v, ok := Get(m, "top.deeper"); !ok || v != 1 {
		t.Errorf("Get top.deeper = %v, %v", v, ok)
	}
}
