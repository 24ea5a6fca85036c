package source

import "testing"

func TestNumLines(t *testing.T) {
	cases := []struct {
		content string
		want    int
	}{
		{"", 1},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n", 2},
		{"\n", 1},
		{"a\n\nb\n", 3},
	}
	for _, tc := range cases {
		if got := New([]byte(tc.content)).NumLines(); got != tc.want {
			t.Errorf("NumLines(%q) = %d, want %d", tc.content, got, tc.want)
		}
	}
}

func TestLine(t *testing.T) {
	src := New([]byte("first\n\n  third\nlast"))
	cases := []struct {
		row  int
		want string
	}{
		{0, "first"},
		{1, ""},
		{2, "  third"},
		{3, "last"},
		{-1, ""},
		{4, ""},
	}
	for _, tc := range cases {
		if got := string(src.Line(tc.row)); got != tc.want {
			t.Errorf("Line(%d) = %q, want %q", tc.row, got, tc.want)
		}
	}
}

func TestIsBlank(t *testing.T) {
	src := New([]byte("code\n\n\t \ncode\n"))
	cases := []struct {
		row  int
		want bool
	}{
		{0, false},
		{1, true},
		{2, true}, // whitespace only
		{3, false},
		{-1, true}, // before the file counts as blank
		{99, true}, // past the file counts as blank
	}
	for _, tc := range cases {
		if got := src.IsBlank(tc.row); got != tc.want {
			t.Errorf("IsBlank(%d) = %v, want %v", tc.row, got, tc.want)
		}
	}
}

func TestHasBlankBetween(t *testing.T) {
	src := New([]byte("a\nb\n\nc\nd\n"))
	if src.HasBlankBetween(0, 1) {
		t.Error("rows 0 and 1 are adjacent")
	}
	if !src.HasBlankBetween(1, 3) {
		t.Error("row 2 is blank")
	}
	if src.HasBlankBetween(3, 4) {
		t.Error("rows 3 and 4 are adjacent")
	}
}

func TestIndent(t *testing.T) {
	src := New([]byte("none\n  two\n\tone tab\n"))
	cases := []struct {
		row  int
		want string
	}{
		{0, ""},
		{1, "  "},
		{2, "\t"},
	}
	for _, tc := range cases {
		if got := src.Indent(tc.row); got != tc.want {
			t.Errorf("Indent(%d) = %q, want %q", tc.row, got, tc.want)
		}
	}
}

func TestSlice(t *testing.T) {
	src := New([]byte("abcdef"))
	if got := string(src.Slice(1, 4)); got != "bcd" {
		t.Errorf("Slice(1, 4) = %q", got)
	}
	if got := src.Slice(4, 2); got != nil {
		t.Errorf("inverted range should return nil, got %q", got)
	}
	if got := src.Slice(0, 99); got != nil {
		t.Errorf("out-of-range end should return nil, got %q", got)
	}
}

func TestEndsWithNewline(t *testing.T) {
	if !New([]byte("a\n")).EndsWithNewline() {
		t.Error("trailing newline not detected")
	}
	if New([]byte("a")).EndsWithNewline() {
		t.Error("missing newline reported as present")
	}
	if !New(nil).EndsWithNewline() {
		t.Error("empty content should count as newline-terminated")
	}
}

func TestLineStart(t *testing.T) {
	src := New([]byte("ab\ncd\n"))
	cases := []struct {
		row  int
		want uint32
	}{
		{0, 0},
		{1, 3},
		{-1, 0},
		{99, 6},
	}
	for _, tc := range cases {
		if got := src.LineStart(tc.row); got != tc.want {
			t.Errorf("LineStart(%d) = %d, want %d", tc.row, got, tc.want)
		}
	}
}
