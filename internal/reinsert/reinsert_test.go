package reinsert

import (
	"errors"
	"testing"

	"github.com/tsreorg/tsreorg/internal/comments"
	"github.com/tsreorg/tsreorg/internal/extract"
	"github.com/tsreorg/tsreorg/internal/identity"
	"github.com/tsreorg/tsreorg/internal/position"
)

func leading(id identity.ID, ordinal int, text string) extract.ExtractedComment {
	return extract.ExtractedComment{
		ID:      id,
		Role:    extract.RoleLeading,
		Comment: comments.Comment{Text: text},
		Ordinal: ordinal,
	}
}

func trailing(id identity.ID, ordinal int, text string) extract.ExtractedComment {
	return extract.ExtractedComment{
		ID:      id,
		Role:    extract.RoleTrailing,
		Comment: comments.Comment{Text: text},
		Ordinal: ordinal,
	}
}

func TestApplyLeadingFollowsItems(t *testing.T) {
	skeleton := "function a(): void {}\n\nfunction b(): void {}\n"
	res := &extract.Result{ByID: map[identity.ID][]extract.ExtractedComment{
		"id-a": {leading("id-a", 0, "// a")},
		"id-b": {leading("id-b", 0, "// b")},
	}}
	positions := map[identity.ID]position.Position{
		"id-a": {StartRow: 0, EndRow: 0, EndCol: 21},
		"id-b": {StartRow: 2, EndRow: 2, EndCol: 21},
	}

	got, err := Apply([]byte(skeleton), res, positions)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := "// a\nfunction a(): void {}\n\n// b\nfunction b(): void {}\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestApplyTrailingAppendsToLineEnd(t *testing.T) {
	skeleton := "const x = 1;\nconst y = 2;\n"
	res := &extract.Result{ByID: map[identity.ID][]extract.ExtractedComment{
		"id-x": {trailing("id-x", 0, "// ans")},
	}}
	positions := map[identity.ID]position.Position{
		"id-x": {StartRow: 0, EndRow: 0, EndCol: 12},
	}

	got, err := Apply([]byte(skeleton), res, positions)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := "const x = 1; // ans\nconst y = 2;\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestApplyPreservesOrdinals(t *testing.T) {
	skeleton := "function f(): void {}\n"
	res := &extract.Result{ByID: map[identity.ID][]extract.ExtractedComment{
		"id-f": {
			leading("id-f", 0, "// first"),
			leading("id-f", 1, "// second"),
			trailing("id-f", 0, "/* one */"),
			trailing("id-f", 1, "/* two */"),
		},
	}}
	positions := map[identity.ID]position.Position{
		"id-f": {StartRow: 0, EndRow: 0, EndCol: 21},
	}

	got, err := Apply([]byte(skeleton), res, positions)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := "// first\n// second\nfunction f(): void {} /* one */ /* two */\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestApplyIndentsLeadingComments(t *testing.T) {
	skeleton := "class X {\n  m(): void {}\n}\n"
	res := &extract.Result{ByID: map[identity.ID][]extract.ExtractedComment{
		"id-m": {leading("id-m", 0, "// does things")},
	}}
	positions := map[identity.ID]position.Position{
		"id-m": {StartRow: 1, EndRow: 1, EndCol: 14, Indent: "  "},
	}

	got, err := Apply([]byte(skeleton), res, positions)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := "class X {\n  // does things\n  m(): void {}\n}\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestApplyShiftHopsOverLoneLine(t *testing.T) {
	skeleton := "function a(): void {}\n\nfunction b(): void {}\nfunction c(): void {}\n"
	res := &extract.Result{ByID: map[identity.ID][]extract.ExtractedComment{
		"id-c": {leading("id-c", 0, "// note")},
	}}
	positions := map[identity.ID]position.Position{
		"id-b": {StartRow: 2, EndRow: 2, EndCol: 21},
		"id-c": {StartRow: 3, EndRow: 3, EndCol: 21},
	}

	got, err := Apply([]byte(skeleton), res, positions)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := "function a(): void {}\n\n// note\nfunction b(): void {}\nfunction c(): void {}\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestApplyShiftStaysInsideMultiLineItem(t *testing.T) {
	skeleton := "function a(): void {}\n\nclass X {\n  m(): void {}\n}\n"
	res := &extract.Result{ByID: map[identity.ID][]extract.ExtractedComment{
		"id-m": {leading("id-m", 0, "// m note")},
	}}
	positions := map[identity.ID]position.Position{
		"id-x": {StartRow: 2, EndRow: 4, EndCol: 1},
		"id-m": {StartRow: 3, EndRow: 3, EndCol: 14, Indent: "  "},
	}

	got, err := Apply([]byte(skeleton), res, positions)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := "function a(): void {}\n\nclass X {\n  // m note\n  m(): void {}\n}\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestApplyMissingPositionFailsWithAllIDs(t *testing.T) {
	skeleton := "function a(): void {}\n"
	res := &extract.Result{ByID: map[identity.ID][]extract.ExtractedComment{
		"zz-ghost": {leading("zz-ghost", 0, "// z")},
		"aa-ghost": {leading("aa-ghost", 0, "// a")},
	}}

	got, err := Apply([]byte(skeleton), res, map[identity.ID]position.Position{})
	if got != nil {
		t.Errorf("output = %q, want nil", got)
	}
	var missing *MissingPositionError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingPositionError", err)
	}
	if len(missing.IDs) != 2 {
		t.Fatalf("missing %d identities, want 2", len(missing.IDs))
	}
	if missing.IDs[0] != "aa-ghost" || missing.IDs[1] != "zz-ghost" {
		t.Errorf("IDs = %v, want sorted [aa-ghost zz-ghost]", missing.IDs)
	}
}

func TestApplyStandalone(t *testing.T) {
	tests := []struct {
		name       string
		skeleton   string
		standalone []extract.StandaloneComment
		want       string
	}{
		{
			name:     "isolated header keeps its blank line",
			skeleton: `import a from "a";` + "\n",
			standalone: []extract.StandaloneComment{
				{Comment: comments.Comment{Text: "// header"}, Line: 0, Isolated: true},
			},
			want: "// header\n\n" + `import a from "a";` + "\n",
		},
		{
			name:     "line past the end lands at the end",
			skeleton: "const a = 1;\n",
			standalone: []extract.StandaloneComment{
				{Comment: comments.Comment{Text: "// end"}, Line: 99, Isolated: true},
			},
			want: "const a = 1;\n\n// end\n",
		},
		{
			name:     "non-isolated comment gets no padding",
			skeleton: "const a = 1;\nconst b = 2;\n",
			standalone: []extract.StandaloneComment{
				{Comment: comments.Comment{Text: "// between"}, Line: 1, Indent: ""},
			},
			want: "const a = 1;\n// between\nconst b = 2;\n",
		},
		{
			name:     "block comment spans several lines",
			skeleton: "const a = 1;\n",
			standalone: []extract.StandaloneComment{
				{Comment: comments.Comment{Text: "/*\n * notes\n */"}, Line: 0, Isolated: true},
			},
			want: "/*\n * notes\n */\n\nconst a = 1;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &extract.Result{Standalone: tt.standalone}
			got, err := Apply([]byte(tt.skeleton), res, nil)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
