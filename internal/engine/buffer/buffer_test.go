package buffer

import (
	"reflect"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := New()

	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	if b.Text() != "" {
		t.Errorf("expected empty text, got %q", b.Text())
	}
	if b.TabWidth() != DefaultTabWidth {
		t.Errorf("expected tab width %d, got %d", DefaultTabWidth, b.TabWidth())
	}
}

func TestNewFromLinesNormalizesEmpty(t *testing.T) {
	b := NewFromLines(nil)
	if b.LineCount() != 1 || b.Line(0) != "" {
		t.Errorf("expected single empty line, got %q", b.Lines())
	}
}

func TestSetTextRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"abc",
		"line1\nline2",
		"\n\n",
		"tab\there\nünïcödé",
	}

	for _, text := range tests {
		b := New()
		b.SetText(text)
		if b.Text() != text {
			t.Errorf("round trip of %q gave %q", text, b.Text())
		}

		c := New()
		c.SetText(b.Text())
		if !reflect.DeepEqual(b.Lines(), c.Lines()) {
			t.Errorf("SetText(Text()) changed lines: %q vs %q", b.Lines(), c.Lines())
		}
	}
}

func TestSetTextStripsCarriageReturns(t *testing.T) {
	b := New()
	b.SetText("a\r\nb\r\n")
	want := []string{"a", "b", ""}
	if !reflect.DeepEqual(b.Lines(), want) {
		t.Errorf("expected %q, got %q", want, b.Lines())
	}
}

func TestTextWith(t *testing.T) {
	b := NewFromString("a\nb\nc")
	if got := b.TextWith(" "); got != "a b c" {
		t.Errorf("expected %q, got %q", "a b c", got)
	}
}

func TestInsertAt(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		line    int
		col     int
		text    string
		want    []string
		wantEnd Point
	}{
		{"append char", "abc", 0, 3, "d", []string{"abcd"}, Point{0, 4}},
		{"middle", "abc", 0, 1, "XY", []string{"aXYbc"}, Point{0, 3}},
		{"empty text", "abc", 0, 1, "", []string{"abc"}, Point{0, 1}},
		{"newline", "abc", 0, 1, "\n", []string{"a", "bc"}, Point{1, 0}},
		{"multi line", "head|tail", 0, 5, "one\ntwo\nthree", []string{"head|one", "two", "threetail"}, Point{2, 5}},
		{"clamped column", "ab", 0, 99, "c", []string{"abc"}, Point{0, 3}},
		{"clamped line", "ab\ncd", 9, 0, "x", []string{"ab", "xcd"}, Point{1, 1}},
		{"unicode", "héllo", 0, 2, "é", []string{"hééllo"}, Point{0, 3}},
		{"crlf payload", "", 0, 0, "a\r\nb", []string{"a", "b"}, Point{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromString(tt.initial)
			end := b.InsertAt(tt.line, tt.col, tt.text)
			if !reflect.DeepEqual(b.Lines(), tt.want) {
				t.Errorf("lines = %q, want %q", b.Lines(), tt.want)
			}
			if end != tt.wantEnd {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestDeleteRange(t *testing.T) {
	tests := []struct {
		name        string
		initial     string
		from, to    Point
		want        []string
		wantRemoved string
	}{
		{"single char", "ab\ncd", Point{0, 1}, Point{0, 2}, []string{"a", "cd"}, "b"},
		{"join lines", "line1\nline2", Point{0, 5}, Point{1, 0}, []string{"line1line2"}, "\n"},
		{"multi line", "one\ntwo\nthree", Point{0, 1}, Point{2, 2}, []string{"oree"}, "ne\ntwo\nth"},
		{"reversed endpoints", "abcdef", Point{0, 4}, Point{0, 1}, []string{"aef"}, "bcd"},
		{"empty", "abc", Point{0, 1}, Point{0, 1}, []string{"abc"}, ""},
		{"everything", "a\nb", Point{0, 0}, Point{1, 1}, []string{""}, "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromString(tt.initial)
			removed := b.DeleteRange(tt.from, tt.to)
			if !reflect.DeepEqual(b.Lines(), tt.want) {
				t.Errorf("lines = %q, want %q", b.Lines(), tt.want)
			}
			if removed != tt.wantRemoved {
				t.Errorf("removed = %q, want %q", removed, tt.wantRemoved)
			}
		})
	}
}

func TestSliceMultiLine(t *testing.T) {
	b := NewFromString("alpha\nbeta\ngamma")
	got := b.Slice(Point{0, 3}, Point{2, 2})
	if got != "ha\nbeta\nga" {
		t.Errorf("expected %q, got %q", "ha\nbeta\nga", got)
	}
}

func TestCharAt(t *testing.T) {
	b := NewFromString("abc")
	tests := []struct {
		p      Point
		offset int
		want   string
	}{
		{Point{0, 0}, 0, "a"},
		{Point{0, 3}, 0, ""},
		{Point{0, 3}, -1, "c"},
		{Point{0, 0}, -1, ""},
		{Point{5, 0}, 0, ""},
	}
	for _, tt := range tests {
		if got := b.CharAt(tt.p, tt.offset); got != tt.want {
			t.Errorf("CharAt(%v, %d) = %q, want %q", tt.p, tt.offset, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	b := NewFromString("abc\nde")
	tests := []struct {
		in, want Point
	}{
		{Point{-1, -1}, Point{0, 0}},
		{Point{0, 10}, Point{0, 3}},
		{Point{7, 1}, Point{1, 1}},
		{Point{1, 5}, Point{1, 2}},
	}
	for _, tt := range tests {
		if got := b.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLineOperations(t *testing.T) {
	b := NewFromString("a\nb\nc")

	if !b.SwapLines(0, 2) {
		t.Fatal("SwapLines failed")
	}
	if want := []string{"c", "b", "a"}; !reflect.DeepEqual(b.Lines(), want) {
		t.Errorf("after swap got %q", b.Lines())
	}
	if b.SwapLines(0, 3) {
		t.Error("SwapLines out of range should fail")
	}

	if err := b.InsertLines(1, "x", "y"); err != nil {
		t.Fatalf("InsertLines: %v", err)
	}
	if want := []string{"c", "x", "y", "b", "a"}; !reflect.DeepEqual(b.Lines(), want) {
		t.Errorf("after insert got %q", b.Lines())
	}

	if err := b.RemoveLines(1, 2); err != nil {
		t.Fatalf("RemoveLines: %v", err)
	}
	if want := []string{"c", "b", "a"}; !reflect.DeepEqual(b.Lines(), want) {
		t.Errorf("after remove got %q", b.Lines())
	}

	if err := b.SetLine(5, "z"); err != ErrLineOutOfRange {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}

	if err := b.RemoveLines(0, 10); err != nil {
		t.Fatalf("RemoveLines all: %v", err)
	}
	if b.LineCount() != 1 || b.Line(0) != "" {
		t.Errorf("removing every line should leave one empty line, got %q", b.Lines())
	}
}

func TestChangeNotification(t *testing.T) {
	var changes []Change
	b := NewFromString("one\ntwo\nthree")
	b.OnChange(func(c Change) {
		changes = append(changes, c)
	})

	b.InsertAt(1, 0, "x")
	b.InsertAt(0, 3, "\nnew")

	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if c := changes[0]; c.FirstLine != 1 || c.LastLine != 1 || c.LinesDelta != 0 {
		t.Errorf("unexpected first change %+v", c)
	}
	if c := changes[1]; c.FirstLine != 0 || c.LinesDelta != 1 || c.LastLine != b.LineCount()-1 {
		t.Errorf("line-shifting change should extend to the end, got %+v", c)
	}
	if changes[1].Revision != b.Revision() {
		t.Errorf("revision mismatch: %d vs %d", changes[1].Revision, b.Revision())
	}
}

func TestFirstNonSpace(t *testing.T) {
	tests := map[string]int{
		"":        0,
		"abc":     0,
		"    abc": 4,
		"   ":     3,
		"\t x":    2,
	}
	for in, want := range tests {
		if got := FirstNonSpace(in); got != want {
			t.Errorf("FirstNonSpace(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSliceRunes(t *testing.T) {
	if got := SliceRunes("héllo", 1, 3); got != "él" {
		t.Errorf("got %q", got)
	}
	if got := SliceRunes("abc", -5, 99); got != "abc" {
		t.Errorf("got %q", got)
	}
	if got := SliceRunes("abc", 2, 1); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestRangeHelpers(t *testing.T) {
	r := NewRange(Point{2, 1}, Point{0, 4})
	if r.Start != (Point{0, 4}) || r.End != (Point{2, 1}) {
		t.Errorf("NewRange did not order endpoints: %v", r)
	}
	if r.SingleLine() {
		t.Error("range spans lines")
	}
	if !r.Contains(Point{1, 0}) || r.Contains(Point{2, 1}) {
		t.Error("Contains is half-open")
	}
}
