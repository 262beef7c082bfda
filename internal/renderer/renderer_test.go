package renderer

import (
	"reflect"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codecore/internal/engine/buffer"
	"github.com/dshills/codecore/internal/lang"
	"github.com/dshills/codecore/internal/renderer/backend"
	"github.com/dshills/codecore/internal/renderer/gutter"
	"github.com/dshills/codecore/internal/renderer/highlight"
	"github.com/dshills/codecore/internal/renderer/statusline"
	"github.com/dshills/codecore/internal/renderer/viewport"
)

func newProvider(t *testing.T, lines []string) *highlight.Provider {
	t.Helper()
	l, err := lang.NewBuiltinRegistry().Get("C")
	if err != nil {
		t.Fatalf("C language missing: %v", err)
	}
	get := func(i int) string {
		if i < 0 || i >= len(lines) {
			return ""
		}
		return lines[i]
	}
	return highlight.NewProvider(highlight.New(l), get, 0)
}

func TestWindowFollowsViewport(t *testing.T) {
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = "int x;"
	}
	p := newProvider(t, lines)
	vp := viewport.New(len(lines), viewport.WithMetrics(viewport.CellMetrics(40, 10, 0)))

	got := Window(vp, p)
	if len(got) != 30 || got[0].Number != 0 || got[29].Number != 29 {
		t.Fatalf("unexpected window of %d lines", len(got))
	}
	if got[0].Lang != "c" {
		t.Errorf("expected language key c, got %q", got[0].Lang)
	}

	vp.SetScrollTop(100)
	got = Window(vp, p)
	if got[0].Number != 80 || len(got) != 50 {
		t.Fatalf("window after scroll starts at %d with %d lines", got[0].Number, len(got))
	}
}

func TestWindowSeesCommentOpenedAbove(t *testing.T) {
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = "int x;"
	}
	lines[10] = "/* long"
	lines[150] = "done */"
	p := newProvider(t, lines)
	vp := viewport.New(len(lines), viewport.WithMetrics(viewport.CellMetrics(40, 10, 0)))
	vp.SetScrollTop(100)

	got := Window(vp, p)
	if got[0].Number != 80 {
		t.Fatalf("window starts at %d", got[0].Number)
	}
	if tok := got[0].Tokens[0]; tok.Class != highlight.ClassComment {
		t.Errorf("line 80 should be inside the comment, got %+v", tok)
	}
	last := got[len(got)-1]
	if last.Number != 129 || last.Tokens[0].Class != highlight.ClassComment {
		t.Errorf("line %d: %+v", last.Number, last.Tokens)
	}
}

func TestLineHTML(t *testing.T) {
	p := newProvider(t, []string{"x = 1 < 2;"})
	vp := viewport.New(1, viewport.WithMetrics(viewport.CellMetrics(40, 10, 0)))
	line := Window(vp, p)[0]

	want := `x <span class="c cm-sym">=</span> <span class="c cm-dec">1</span> ` +
		`<span class="c cm-sym">&lt;</span> <span class="c cm-dec">2</span><span class="c cm-sym">;</span>`
	if got := line.HTML(); got != want {
		t.Errorf("HTML =\n%s\nwant\n%s", got, want)
	}
	if line.Text() != "x = 1 < 2;" {
		t.Errorf("Text = %q", line.Text())
	}
}

func TestCellOfAndColumnAt(t *testing.T) {
	if got := CellOf("a\tb", 2, 4); got != 4 {
		t.Errorf("CellOf after tab = %d, want 4", got)
	}
	if got := CellOf("世x", 1, 4); got != 2 {
		t.Errorf("CellOf after wide rune = %d, want 2", got)
	}
	tests := map[int]int{0: 0, 1: 1, 3: 1, 4: 2, 9: 3}
	for cell, want := range tests {
		if got := ColumnAt("a\tb", cell, 4); got != want {
			t.Errorf("ColumnAt(%d) = %d, want %d", cell, got, want)
		}
	}
}

type drawFixture struct {
	term  *backend.Terminal
	sim   tcell.SimulationScreen
	r     *Renderer
	frame Frame
}

func newDrawFixture(t *testing.T, lines ...string) *drawFixture {
	t.Helper()
	term, sim, err := backend.NewSimulation(20, 5)
	if err != nil {
		t.Fatalf("NewSimulation failed: %v", err)
	}
	t.Cleanup(term.Shutdown)

	opts := Options{Gutter: gutter.Config{ShowLineNumbers: true, MinWidth: 2}}
	r := New(term, nil, opts)
	p := newProvider(t, lines)
	vp := viewport.New(len(lines), viewport.WithMetrics(viewport.CellMetrics(20, 5, 3)))
	f := Frame{
		Lines:     Window(vp, p),
		Visible:   vp.Visible(),
		LineCount: len(lines),
		TabWidth:  4,
		Carets:    []Caret{{Point: buffer.Point{Line: 1, Column: 1}, Main: true}},
	}
	return &drawFixture{term: term, sim: sim, r: r, frame: f}
}

func TestDrawText(t *testing.T) {
	fx := newDrawFixture(t, "int x;", "\tx")
	fx.r.Draw(fx.frame)

	rows := []string{fx.term.Row(0), fx.term.Row(1), fx.term.Row(2)}
	want := []string{" 1 int x;", " 2     x", ""}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %q, want %q", rows, want)
	}
	if fx.r.FrameCount() != 1 {
		t.Errorf("expected one frame, got %d", fx.r.FrameCount())
	}

	theme := fx.r.Theme()
	if _, style := fx.term.Cell(3, 0); style != theme.Style(highlight.ClassKeyword) {
		t.Error("keyword drawn without keyword style")
	}
}

func TestDrawCursor(t *testing.T) {
	fx := newDrawFixture(t, "int x;", "\tx")
	fx.r.Draw(fx.frame)

	x, y, visible := fx.sim.GetCursor()
	if !visible || x != 7 || y != 1 {
		t.Errorf("cursor at (%d, %d) visible=%v, want (7, 1)", x, y, visible)
	}

	fx.frame.TopLine = 5
	fx.r.Draw(fx.frame)
	if _, _, visible := fx.sim.GetCursor(); visible {
		t.Error("cursor above the screen should be hidden")
	}
}

func TestDrawSelectionAndSecondaryCarets(t *testing.T) {
	fx := newDrawFixture(t, "int x;", "\tx")
	fx.frame.Selections = []buffer.Range{{Start: buffer.Point{Line: 0, Column: 4}, End: buffer.Point{Line: 0, Column: 5}}}
	fx.frame.Carets = append(fx.frame.Carets, Caret{Point: buffer.Point{Line: 0, Column: 6}})
	fx.r.Draw(fx.frame)

	theme := fx.r.Theme()
	_, style := fx.term.Cell(7, 0)
	if _, bg, _ := style.Decompose(); bg != theme.Selection {
		t.Errorf("selected cell background %v, want %v", bg, theme.Selection)
	}
	_, style = fx.term.Cell(9, 0)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Error("secondary caret at line end should be reversed")
	}
}

func TestDrawScrolled(t *testing.T) {
	fx := newDrawFixture(t, "int x;", "\tx", "y")
	fx.frame.LeftCell = 2
	fx.r.Draw(fx.frame)
	if got := fx.term.Row(0); got != " 1 t x;" {
		t.Errorf("scrolled row = %q", got)
	}

	fx.frame.LeftCell = 0
	fx.frame.TopLine = 1
	fx.r.Draw(fx.frame)
	if got := fx.term.Row(1); got != " 3 y" {
		t.Errorf("row 1 = %q", got)
	}
}

func TestGutterWidth(t *testing.T) {
	term, _, err := backend.NewSimulation(10, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer term.Shutdown()
	r := New(term, nil, DefaultOptions())
	if got := r.GutterWidth(5000); got != 6 {
		t.Errorf("GutterWidth = %d, want 6", got)
	}
}

func TestDrawStatusLine(t *testing.T) {
	term, _, err := backend.NewSimulation(30, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer term.Shutdown()

	opts := Options{Gutter: gutter.Config{ShowLineNumbers: true, MinWidth: 2}, StatusLine: true}
	r := New(term, nil, opts)
	if got := r.TextRows(); got != 2 {
		t.Fatalf("TextRows = %d, want 2", got)
	}

	lines := []string{"a", "b", "c", "d"}
	p := newProvider(t, lines)
	vp := viewport.New(len(lines), viewport.WithMetrics(viewport.CellMetrics(30, 2, 3)))
	r.SetStatus(statusline.Info{File: "f.c", Lines: 4})
	r.Draw(Frame{
		Lines:     Window(vp, p),
		Visible:   vp.Visible(),
		LineCount: len(lines),
		TabWidth:  4,
		Carets:    []Caret{{Point: buffer.Point{}, Main: true}},
	})

	rows := []string{term.Row(0), term.Row(1), term.Row(2)}
	want := []string{" 1 a", " 2 b", " f.c        Ln 1, Col 1 | 25%"}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %q, want %q", rows, want)
	}
}
