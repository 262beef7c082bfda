package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codecore/internal/engine/history"
	"github.com/dshills/codecore/internal/input"
	"github.com/dshills/codecore/internal/lang"
	"github.com/dshills/codecore/internal/renderer/highlight"
	"github.com/dshills/codecore/internal/renderer/viewport"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return t0 }

type fixture struct {
	t    *testing.T
	ed   *Editor
	clip *MemoryClipboard
}

func newFixture(t *testing.T, text, language string, opts ...Option) *fixture {
	t.Helper()
	clip := NewMemoryClipboard()
	base := []Option{
		WithClipboard(clip),
		WithMetrics(viewport.CellMetrics(80, 24, 0)),
		WithHistory(history.WithClock(fixedClock)),
		WithClock(fixedClock),
	}
	ed := New(append(base, opts...)...)
	require.NoError(t, ed.SetText(text, language))
	t.Cleanup(ed.Close)
	return &fixture{t: t, ed: ed, clip: clip}
}

func (f *fixture) key(k string, mods ...func(*input.Modifiers)) {
	f.t.Helper()
	var m input.Modifiers
	for _, fn := range mods {
		fn(&m)
	}
	require.NoError(f.t, f.ed.HandleEvent(context.Background(), input.KeyEvent(k, m)))
}

func (f *fixture) typeText(s string) {
	f.t.Helper()
	for _, r := range s {
		f.key(string(r))
	}
}

func (f *fixture) mouse(kind input.Kind, x, y float64, at time.Duration, mods ...func(*input.Modifiers)) {
	f.t.Helper()
	ev := input.MouseEvent(kind, x, y, input.Modifiers{})
	for _, fn := range mods {
		fn(&ev.Modifiers)
	}
	ev.Time = t0.Add(at)
	if kind == input.MouseMove {
		ev.Pressed = true
	}
	require.NoError(f.t, f.ed.HandleEvent(context.Background(), ev))
}

func (f *fixture) click(count int, x, y float64) {
	f.t.Helper()
	ev := input.MouseEvent(input.Click, x, y, input.Modifiers{})
	ev.Clicks = count
	require.NoError(f.t, f.ed.HandleEvent(context.Background(), ev))
}

func shift(m *input.Modifiers) { m.Shift = true }
func ctrl(m *input.Modifiers)  { m.Ctrl = true }
func alt(m *input.Modifiers)   { m.Alt = true }

func pt(line, col int) Point { return Point{Line: line, Column: col} }

func TestTypeAtEndOfLine(t *testing.T) {
	f := newFixture(t, "abc", "")
	f.key("d")
	assert.Equal(t, "abcd", f.ed.Text())
	assert.Equal(t, pt(0, 4), f.ed.Cursor())
}

func TestBackspace(t *testing.T) {
	t.Run("within line", func(t *testing.T) {
		f := newFixture(t, "ab\ncd", "")
		f.ed.SetCursor(0, 2)
		f.key(input.KeyBackspace)
		assert.Equal(t, []string{"a", "cd"}, f.ed.Lines())
		assert.Equal(t, pt(0, 1), f.ed.Cursor())
	})

	t.Run("joins lines", func(t *testing.T) {
		f := newFixture(t, "line1\nline2", "")
		f.ed.SetCursor(1, 0)
		f.key(input.KeyBackspace)
		assert.Equal(t, []string{"line1line2"}, f.ed.Lines())
		assert.Equal(t, pt(0, 5), f.ed.Cursor())
	})

	t.Run("ctrl removes word", func(t *testing.T) {
		f := newFixture(t, "foo barbaz", "")
		f.key(input.KeyBackspace, ctrl)
		assert.Equal(t, "foo ", f.ed.Text())
	})

	t.Run("start of document", func(t *testing.T) {
		f := newFixture(t, "abc", "")
		f.ed.SetCursor(0, 0)
		f.key(input.KeyBackspace)
		assert.Equal(t, "abc", f.ed.Text())
	})
}

func TestDeleteForward(t *testing.T) {
	f := newFixture(t, "ab\ncd", "")
	f.ed.SetCursor(0, 1)
	f.key(input.KeyDelete)
	assert.Equal(t, "a\ncd", f.ed.Text())
	f.key(input.KeyDelete)
	assert.Equal(t, "acd", f.ed.Text())
	assert.Equal(t, pt(0, 1), f.ed.Cursor())
}

func TestEncloseSelection(t *testing.T) {
	f := newFixture(t, "hello", "")
	f.ed.Select(pt(0, 0), pt(0, 3))
	f.key(`"`)

	assert.Equal(t, `"hel"lo`, f.ed.Text())
	main := f.ed.MainCursor()
	require.NotNil(t, main.Selection)
	assert.Equal(t, pt(0, 1), main.Selection.From())
	assert.Equal(t, pt(0, 4), main.Selection.To())
}

func TestAutoPairAndOvertype(t *testing.T) {
	f := newFixture(t, "", "")
	f.key("(")
	assert.Equal(t, "()", f.ed.Text())
	assert.Equal(t, pt(0, 1), f.ed.Cursor())

	f.key(")")
	assert.Equal(t, "()", f.ed.Text())
	assert.Equal(t, pt(0, 2), f.ed.Cursor())

	// No pair is inserted in front of a word.
	f2 := newFixture(t, "x", "")
	f2.ed.SetCursor(0, 0)
	f2.key("[")
	assert.Equal(t, "[x", f2.ed.Text())
}

func TestTokensForC(t *testing.T) {
	f := newFixture(t, "int x = 5; // set", "C")
	tokens := f.ed.Tokens(0)
	require.NotEmpty(t, tokens)

	assert.Equal(t, "int", tokens[0].Text)
	assert.Equal(t, highlight.ClassKeyword, tokens[0].Class)

	last := tokens[len(tokens)-1]
	assert.Equal(t, "// set", last.Text)
	assert.Equal(t, highlight.ClassComment, last.Class)

	assert.Nil(t, f.ed.Tokens(5))
}

func TestMultiCursorTyping(t *testing.T) {
	f := newFixture(t, "abcdefghij", "")
	f.ed.SetCursor(0, 2)
	require.True(t, f.ed.AddCursor(0, 8))

	f.key("x")

	assert.Equal(t, "abxcdefghxij", f.ed.Text())
	cursors := f.ed.Cursors()
	require.Len(t, cursors, 2)
	assert.Equal(t, 3, cursors[0].Column)
	assert.Equal(t, 10, cursors[1].Column)
}

func TestMultiCursorBackspace(t *testing.T) {
	f := newFixture(t, "abcdefghij", "")
	f.ed.SetCursor(0, 2)
	require.True(t, f.ed.AddCursor(0, 8))

	f.key(input.KeyBackspace)

	assert.Equal(t, "acdefgij", f.ed.Text())
	cursors := f.ed.Cursors()
	require.Len(t, cursors, 2)
	assert.Equal(t, 1, cursors[0].Column)
	assert.Equal(t, 6, cursors[1].Column)
}

func TestAddCursorToggles(t *testing.T) {
	f := newFixture(t, "abc", "")
	f.ed.SetCursor(0, 0)
	require.True(t, f.ed.AddCursor(0, 2))
	assert.False(t, f.ed.AddCursor(0, 2))
	assert.Len(t, f.ed.Cursors(), 1)
}

func TestCtrlArrowDownAddsCursor(t *testing.T) {
	f := newFixture(t, "ab\ncd\nef", "")
	f.ed.SetCursor(0, 1)
	f.key(input.KeyArrowDown, ctrl)

	cursors := f.ed.Cursors()
	require.Len(t, cursors, 2)
	assert.Equal(t, pt(1, 1), pt(cursors[0].Line, cursors[0].Column))
	assert.True(t, cursors[0].Main)
	assert.Equal(t, pt(0, 1), pt(cursors[1].Line, cursors[1].Column))

	f.key(input.KeyEscape)
	assert.Len(t, f.ed.Cursors(), 1)
}

func TestUndoRedo(t *testing.T) {
	f := newFixture(t, "", "")
	f.typeText("abc")
	assert.Equal(t, "abc", f.ed.Text())

	f.key("z", ctrl)
	assert.Equal(t, "", f.ed.Text())

	f.key("y", ctrl)
	assert.Equal(t, "abc", f.ed.Text())
	assert.Equal(t, pt(0, 3), f.ed.Cursor())

	assert.True(t, f.ed.Undo())
	assert.False(t, f.ed.Undo())
	assert.True(t, f.ed.CanRedo())
}

func TestEnterAlwaysSnapshots(t *testing.T) {
	f := newFixture(t, "", "")
	f.typeText("ab")
	f.key(input.KeyEnter)
	f.typeText("cd")
	assert.Equal(t, "ab\ncd", f.ed.Text())

	// Typing after Enter stays in the burst that began before it.
	require.True(t, f.ed.Undo())
	assert.Equal(t, "ab", f.ed.Text())
	require.True(t, f.ed.Undo())
	assert.Equal(t, "", f.ed.Text())
}

func TestEnterIndent(t *testing.T) {
	t.Run("keeps indent", func(t *testing.T) {
		f := newFixture(t, "    foo", "")
		f.key(input.KeyEnter)
		assert.Equal(t, []string{"    foo", "    "}, f.ed.Lines())
		assert.Equal(t, pt(1, 4), f.ed.Cursor())
	})

	t.Run("between braces", func(t *testing.T) {
		f := newFixture(t, "{}", "")
		f.ed.SetCursor(0, 1)
		f.key(input.KeyEnter)
		assert.Equal(t, []string{"{", "    ", "}"}, f.ed.Lines())
		assert.Equal(t, pt(1, 4), f.ed.Cursor())
	})

	t.Run("replaces selection", func(t *testing.T) {
		f := newFixture(t, "abcd", "")
		f.ed.Select(pt(0, 1), pt(0, 3))
		f.key(input.KeyEnter)
		assert.Equal(t, []string{"a", "d"}, f.ed.Lines())
		require.True(t, f.ed.Undo())
		assert.Equal(t, "abcd", f.ed.Text())
	})
}

func TestTabIndent(t *testing.T) {
	f := newFixture(t, "ab", "")
	f.ed.SetCursor(0, 0)
	f.key(input.KeyTab)
	assert.Equal(t, "    ab", f.ed.Text())
	assert.Equal(t, pt(0, 4), f.ed.Cursor())

	f.key(input.KeyTab, shift)
	assert.Equal(t, "ab", f.ed.Text())
	assert.Equal(t, pt(0, 0), f.ed.Cursor())
}

func TestTabIndentsSelectedLines(t *testing.T) {
	f := newFixture(t, "a\n\n  b", "")
	f.ed.Select(pt(0, 0), pt(2, 3))
	f.key(input.KeyTab)
	assert.Equal(t, []string{"    a", "", "    b"}, f.ed.Lines())

	f.key(input.KeyTab, shift)
	assert.Equal(t, []string{"a", "", "b"}, f.ed.Lines())
}

func TestHomeToggle(t *testing.T) {
	f := newFixture(t, "  ab", "")
	f.key(input.KeyHome)
	assert.Equal(t, pt(0, 2), f.ed.Cursor())
	f.key(input.KeyHome)
	assert.Equal(t, pt(0, 0), f.ed.Cursor())
	f.key(input.KeyHome)
	assert.Equal(t, pt(0, 2), f.ed.Cursor())
	f.key(input.KeyEnd)
	assert.Equal(t, pt(0, 4), f.ed.Cursor())
}

func TestShiftSelection(t *testing.T) {
	f := newFixture(t, "hello world", "")
	f.ed.SetCursor(0, 0)
	for i := 0; i < 5; i++ {
		f.key(input.KeyArrowRight, shift)
	}
	assert.Equal(t, "hello", f.ed.SelectedText())

	f.key(input.KeyArrowRight)
	assert.Equal(t, "", f.ed.SelectedText())
	assert.Equal(t, pt(0, 5), f.ed.Cursor())

	f.key(input.KeyEnd, shift)
	assert.Equal(t, " world", f.ed.SelectedText())
}

func TestArrowsWrapLines(t *testing.T) {
	f := newFixture(t, "ab\ncd", "")
	f.ed.SetCursor(0, 2)
	f.key(input.KeyArrowRight)
	assert.Equal(t, pt(1, 0), f.ed.Cursor())
	f.key(input.KeyArrowLeft)
	assert.Equal(t, pt(0, 2), f.ed.Cursor())
	f.key(input.KeyArrowDown)
	assert.Equal(t, pt(1, 2), f.ed.Cursor())
	f.key(input.KeyArrowDown)
	assert.Equal(t, pt(1, 2), f.ed.Cursor())
}

func TestCtrlArrowsMoveByWord(t *testing.T) {
	f := newFixture(t, "foo bar", "")
	f.ed.SetCursor(0, 0)
	f.key(input.KeyArrowRight, ctrl)
	assert.Equal(t, pt(0, 3), f.ed.Cursor())
	f.key(input.KeyArrowLeft, ctrl)
	assert.Equal(t, pt(0, 0), f.ed.Cursor())
}

func TestCopyCutPaste(t *testing.T) {
	ctx := context.Background()

	t.Run("copy and paste selection", func(t *testing.T) {
		f := newFixture(t, "hello", "")
		f.ed.Select(pt(0, 0), pt(0, 5))
		f.key("c", ctrl)
		got, err := f.clip.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, "hello", got)

		f.ed.SetCursor(0, 5)
		f.key("v", ctrl)
		assert.Equal(t, "hellohello", f.ed.Text())
	})

	t.Run("cut line without selection", func(t *testing.T) {
		f := newFixture(t, "a\nb", "")
		f.ed.SetCursor(0, 0)
		f.key("x", ctrl)
		got, err := f.clip.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, "\na", got)
		assert.Equal(t, "b", f.ed.Text())

		require.True(t, f.ed.Undo())
		assert.Equal(t, "a\nb", f.ed.Text())
	})

	t.Run("paste expands tabs", func(t *testing.T) {
		f := newFixture(t, "", "")
		require.NoError(t, f.clip.Write(ctx, "\tx"))
		f.key("v", ctrl)
		assert.Equal(t, "    x", f.ed.Text())
	})

	t.Run("paste detects language", func(t *testing.T) {
		f := newFixture(t, "", "")
		require.NoError(t, f.clip.Write(ctx, "def main():\n    print(self)\n    return None"))
		f.key("v", ctrl)
		assert.Equal(t, "Python", f.ed.Language().Name)
	})
}

func TestClipboardMissing(t *testing.T) {
	ed := New()
	t.Cleanup(ed.Close)
	err := ed.HandleEvent(context.Background(), input.KeyEvent("v", input.Modifiers{Ctrl: true}))
	assert.ErrorIs(t, err, ErrNoClipboard)
}

type failingClipboard struct{}

func (failingClipboard) Read(context.Context) (string, error) { return "", errors.New("denied") }
func (failingClipboard) Write(context.Context, string) error  { return errors.New("denied") }

func TestClipboardErrors(t *testing.T) {
	f := newFixture(t, "abc", "", WithClipboard(failingClipboard{}))
	err := f.ed.HandleEvent(context.Background(), input.KeyEvent("v", input.Modifiers{Ctrl: true}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read clipboard")
	assert.Equal(t, "abc", f.ed.Text())

	err = f.ed.HandleEvent(context.Background(), input.KeyEvent("c", input.Modifiers{Ctrl: true}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write clipboard")
}

func TestSaveKey(t *testing.T) {
	var saved string
	f := newFixture(t, "data", "", WithSaveHandler(func(text string) error {
		saved = text
		return nil
	}))
	f.key("s", ctrl)
	assert.Equal(t, "data", saved)
	assert.Equal(t, "data", f.ed.Text())
}

func TestSearch(t *testing.T) {
	f := newFixture(t, "foo bar\nbar foo", "")
	f.ed.SetCursor(0, 0)

	require.NoError(t, f.ed.Search("foo", false))
	assert.Equal(t, "foo", f.ed.SelectedText())
	assert.Equal(t, pt(0, 3), f.ed.Cursor())

	require.NoError(t, f.ed.Search("", false))
	assert.Equal(t, pt(1, 7), f.ed.Cursor())

	require.NoError(t, f.ed.Search("", false))
	assert.Equal(t, pt(0, 3), f.ed.Cursor(), "wraps to the start")

	require.NoError(t, f.ed.Search("", true))
	assert.Equal(t, pt(1, 7), f.ed.Cursor(), "reverse wraps to the end")

	assert.ErrorIs(t, f.ed.Search("zzz", false), ErrNoResults)
}

func TestSearchWithoutQuery(t *testing.T) {
	f := newFixture(t, "abc", "")
	assert.ErrorIs(t, f.ed.Search("", false), ErrEmptySearch)
}

func TestSelectNextOccurrence(t *testing.T) {
	f := newFixture(t, "foo bar foo", "")
	f.ed.Select(pt(0, 0), pt(0, 3))
	f.key("d", ctrl)
	require.Len(t, f.ed.Cursors(), 2)

	// Every occurrence is already selected.
	f.key("d", ctrl)
	require.Len(t, f.ed.Cursors(), 2)

	f.key("x")
	assert.Equal(t, "x bar x", f.ed.Text())
}

func TestSelectAll(t *testing.T) {
	f := newFixture(t, "ab\ncd", "")
	f.key("a", ctrl)
	assert.Equal(t, "ab\ncd", f.ed.SelectedText())
	f.key(input.KeyBackspace)
	assert.Equal(t, "", f.ed.Text())
}

func TestGoToLine(t *testing.T) {
	f := newFixture(t, "a\nb\nc", "")
	f.ed.GoToLine(2)
	assert.Equal(t, pt(1, 0), f.ed.Cursor())
	f.ed.GoToLine(99)
	assert.Equal(t, pt(2, 0), f.ed.Cursor())
}

func TestLineComments(t *testing.T) {
	f := newFixture(t, "int a;\n  int b;", "C")
	f.key("a", ctrl)
	f.key("k", ctrl)
	f.key("c", ctrl)
	assert.Equal(t, []string{"// int a;", "//   int b;"}, f.ed.Lines())

	f.key("k", ctrl)
	f.key("u", ctrl)
	assert.Equal(t, []string{"int a;", "  int b;"}, f.ed.Lines())
}

func TestCommentAtCursorLines(t *testing.T) {
	f := newFixture(t, "x = 1\n  y = 2", "Python")
	f.ed.SetCursor(1, 4)
	f.ed.Comment()
	assert.Equal(t, "  # y = 2", f.ed.Line(1))
	assert.Equal(t, pt(1, 6), f.ed.Cursor())

	f.ed.Uncomment()
	assert.Equal(t, "  y = 2", f.ed.Line(1))
	assert.Equal(t, pt(1, 4), f.ed.Cursor())
}

func TestBlockComment(t *testing.T) {
	f := newFixture(t, "abc", "C")
	f.ed.Select(pt(0, 0), pt(0, 3))
	f.key("k", ctrl)
	f.key("b", ctrl)
	assert.Equal(t, "/* abc */", f.ed.Text())

	require.True(t, f.ed.Undo())
	assert.Equal(t, "abc", f.ed.Text())
}

func TestCommentIgnoredForPlainText(t *testing.T) {
	f := newFixture(t, "abc", "")
	f.ed.Comment()
	assert.Equal(t, "abc", f.ed.Text())
}

func TestChainWithoutPrefixCopies(t *testing.T) {
	f := newFixture(t, "abc", "C")
	f.key("c", ctrl)
	assert.Equal(t, "abc", f.ed.Text())
	got, err := f.clip.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "\nabc", got)
}

func TestDuplicateAndSwapLines(t *testing.T) {
	f := newFixture(t, "a\nb", "")
	f.ed.SetCursor(0, 0)
	f.key("d", alt)
	assert.Equal(t, []string{"a", "a", "b"}, f.ed.Lines())
	assert.Equal(t, 1, f.ed.Cursor().Line)

	f.key(input.KeyArrowDown, alt)
	assert.Equal(t, []string{"a", "b", "a"}, f.ed.Lines())
	assert.Equal(t, 2, f.ed.Cursor().Line)

	f.key(input.KeyArrowDown, alt)
	assert.Equal(t, []string{"a", "b", "a"}, f.ed.Lines())
}

func TestMouseClickAndDrag(t *testing.T) {
	f := newFixture(t, "hello world\nsecond line", "")

	f.mouse(input.MouseDown, 3, 0, 0)
	f.mouse(input.MouseMove, 8, 0, 100*time.Millisecond)
	f.mouse(input.MouseUp, 8, 0, 500*time.Millisecond)

	assert.Equal(t, "lo wo", f.ed.SelectedText())
	assert.Equal(t, pt(0, 8), f.ed.Cursor())
}

func TestQuickClickLeavesNoSelection(t *testing.T) {
	f := newFixture(t, "hello world\nsecond line", "")
	f.mouse(input.MouseDown, 40, 1, 0)
	f.mouse(input.MouseUp, 40, 1, 50*time.Millisecond)

	assert.Equal(t, pt(1, 11), f.ed.Cursor(), "column clamps to the line")
	assert.Equal(t, "", f.ed.SelectedText())
}

func TestShiftClickExtends(t *testing.T) {
	f := newFixture(t, "hello world", "")
	f.ed.SetCursor(0, 2)
	f.mouse(input.MouseDown, 7, 0, 0, shift)
	f.mouse(input.MouseUp, 7, 0, 10*time.Millisecond)
	assert.Equal(t, "llo w", f.ed.SelectedText())
}

func TestAltClickAddsCursor(t *testing.T) {
	f := newFixture(t, "hello world", "")
	f.ed.SetCursor(0, 0)
	f.mouse(input.MouseDown, 6, 0, 0, alt)
	f.mouse(input.MouseUp, 6, 0, 10*time.Millisecond)
	assert.Len(t, f.ed.Cursors(), 2)
}

func TestDoubleAndTripleClick(t *testing.T) {
	f := newFixture(t, "hello world\nsecond line", "")

	f.mouse(input.MouseDown, 7, 0, 0)
	f.mouse(input.MouseUp, 7, 0, 10*time.Millisecond)
	f.click(2, 7, 0)
	assert.Equal(t, "world", f.ed.SelectedText())

	f.click(3, 7, 0)
	assert.Equal(t, "hello world", f.ed.SelectedText())

	f.key(input.KeyBackspace)
	assert.Equal(t, []string{"second line"}, f.ed.Lines())
}

func TestWheelScrolls(t *testing.T) {
	f := newFixture(t, "", "")
	lines := make([]byte, 0, 200)
	for i := 0; i < 100; i++ {
		lines = append(lines, 'x', '\n')
	}
	require.NoError(t, f.ed.SetText(string(lines), ""))
	f.ed.SetCursor(0, 0)

	ev := input.Event{Kind: input.Wheel, DeltaY: 3}
	require.NoError(t, f.ed.HandleEvent(context.Background(), ev))
	assert.Equal(t, 3, f.ed.Render().TopLine)
}

func TestRenderFrame(t *testing.T) {
	f := newFixture(t, "int a;\nint b;", "C")
	f.ed.Select(pt(0, 0), pt(0, 3))
	require.True(t, f.ed.AddCursor(1, 0))

	frame := f.ed.Render()
	assert.Equal(t, f.ed.ID().String(), frame.Editor)
	assert.Equal(t, 2, frame.LineCount)
	require.Len(t, frame.Lines, 2)
	assert.Equal(t, "int b;", frame.Lines[1].Text())
	assert.Equal(t, "c", frame.Lines[0].Lang)
	require.Len(t, frame.Carets, 2)
	main, ok := frame.Main()
	require.True(t, ok)
	assert.Equal(t, pt(0, 3), main.Point)
	require.Len(t, frame.Selections, 1)
	assert.Equal(t, pt(0, 3), frame.Selections[0].End)
}

func TestRenderTailSeesCommentFromTop(t *testing.T) {
	lines := make([]string, 2000)
	for i := range lines {
		lines[i] = "int x;"
	}
	lines[5] = "/* opened near the top"
	lines[1990] = "closed */ int y;"
	f := newFixture(t, strings.Join(lines, "\n"), "C")
	f.ed.GoToLine(2000)

	frame := f.ed.Render()
	require.Greater(t, frame.Visible.Start, 1900)
	assert.Contains(t, frame.BlockComments, highlight.LineRange{Start: 5, End: 1990})
	first, ok := frame.Line(frame.Visible.Start)
	require.True(t, ok)
	assert.Equal(t, highlight.ClassComment, first.Tokens[0].Class)
	closing, ok := frame.Line(1990)
	require.True(t, ok)
	for _, tok := range closing.Tokens {
		if tok.Text == "int" {
			assert.Equal(t, highlight.ClassKeyword, tok.Class)
		}
	}

	// Closing the comment on line 6 is seen at the tail.
	f.ed.SetCursor(6, 0)
	f.typeText("*/")
	f.ed.GoToLine(2000)
	frame = f.ed.Render()
	assert.NotContains(t, frame.BlockComments, highlight.LineRange{Start: 5, End: 1990})
	first, _ = frame.Line(frame.Visible.Start)
	assert.Equal(t, highlight.ClassKeyword, first.Tokens[0].Class)
}

func TestScriptTimeoutBoundsRender(t *testing.T) {
	toy, err := lang.Definition{Name: "Spin", Keywords: []string{"let"},
		Rules: "function classify() while true do end end"}.Build()
	require.NoError(t, err)
	reg := lang.NewBuiltinRegistry().With(toy)

	f := newFixture(t, "", "", WithRegistry(reg), WithScriptTimeout(10*time.Millisecond))
	require.NoError(t, f.ed.SetText("foo bar", "Spin"))

	start := time.Now()
	frame := f.ed.Render()
	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, frame.Lines, 1)
	assert.Equal(t, "foo bar", frame.Lines[0].Text())
}

func TestFontSizeKeys(t *testing.T) {
	f := newFixture(t, "", "", WithMetrics(viewport.DefaultMetrics()))
	before := f.ed.FontSize()
	f.key("+", ctrl)
	assert.Equal(t, before+1, f.ed.FontSize())
	f.key("-", ctrl)
	assert.Equal(t, before, f.ed.FontSize())

	off := newFixture(t, "", "", WithMetrics(viewport.DefaultMetrics()), WithFontSizing(false))
	off.key("+", ctrl)
	assert.Equal(t, before, off.ed.FontSize())
	assert.Equal(t, "", off.ed.Text())
}

func TestOpenDetectsLanguage(t *testing.T) {
	f := newFixture(t, "", "")
	f.typeText("x")
	f.ed.Open("main.py", "def x():\n    pass")

	assert.Equal(t, "Python", f.ed.Language().Name)
	assert.Equal(t, pt(0, 0), f.ed.Cursor())
	assert.False(t, f.ed.CanUndo())
}

func TestSetLanguage(t *testing.T) {
	f := newFixture(t, "", "")
	require.NoError(t, f.ed.SetLanguage("Rust"))
	assert.Equal(t, "Rust", f.ed.Language().Name)

	err := f.ed.SetLanguage("Klingon")
	assert.ErrorIs(t, err, lang.ErrUnknownLanguage)
	assert.Equal(t, "Rust", f.ed.Language().Name)

	assert.ErrorIs(t, f.ed.SetText("x", "Klingon"), lang.ErrUnknownLanguage)
}

func TestSetRegistryFallsBackToPlain(t *testing.T) {
	f := newFixture(t, "", "Rust")
	f.ed.SetRegistry(lang.NewRegistry())
	assert.True(t, f.ed.Language().IsPlain())
}

func TestInsertTextIsOneUndoStep(t *testing.T) {
	f := newFixture(t, "ab", "")
	f.ed.InsertText("1\n2")
	assert.Equal(t, "ab1\n2", f.ed.Text())
	assert.Equal(t, pt(1, 1), f.ed.Cursor())
	require.True(t, f.ed.Undo())
	assert.Equal(t, "ab", f.ed.Text())
}
