package comments

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tsreorg/tsreorg/internal/parse"
	"github.com/tsreorg/tsreorg/internal/source"
)

// topComments parses content and returns the comments found anywhere in
// the tree, in source order.
func topComments(t *testing.T, content string) ([]Comment, *source.Text) {
	t.Helper()
	tree, err := parse.Parse(context.Background(), []byte(content), parse.TypeScript)
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()
	src := source.New([]byte(content))

	var out []Comment
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "comment" {
			out = append(out, FromNode(n, src))
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return out, src
}

func TestFromNode(t *testing.T) {
	cs, _ := topComments(t, "// line\n/* block */ const a = 1;\n")
	if len(cs) != 2 {
		t.Fatalf("found %d comments, want 2", len(cs))
	}
	if cs[0].Kind != Line || cs[0].Text != "// line" {
		t.Errorf("first = %+v", cs[0])
	}
	if cs[1].Kind != Block || cs[1].Text != "/* block */" {
		t.Errorf("second = %+v", cs[1])
	}
	if cs[0].StartRow != 0 || cs[1].StartRow != 1 {
		t.Errorf("rows = %d, %d", cs[0].StartRow, cs[1].StartRow)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []Classification
	}{
		{
			name:    "leading above code",
			content: "// explains a\nconst a = 1;\n",
			want:    []Classification{Leading},
		},
		{
			name:    "trailing after code",
			content: "const a = 1; // the answer\n",
			want:    []Classification{Trailing},
		},
		{
			name:    "inline between code",
			content: "const a = /* forty two */ 42;\n",
			want:    []Classification{Inline},
		},
		{
			name:    "inline before code on same line",
			content: "/* exported */ const a = 1;\n",
			want:    []Classification{Inline},
		},
		{
			name:    "standalone between blanks",
			content: "const a = 1;\n\n// section two\n\nconst b = 2;\n",
			want:    []Classification{Standalone},
		},
		{
			name:    "file header with blank below",
			content: "// Copyright\n\nconst a = 1;\n",
			want:    []Classification{Standalone},
		},
		{
			name:    "header tight above code is leading",
			content: "// doc\nfunction f(): void {}\n",
			want:    []Classification{Leading},
		},
		{
			name:    "multi line block leading",
			content: "/*\n * docs\n */\nfunction f(): void {}\n",
			want:    []Classification{Leading},
		},
		{
			name:    "trailing on argument line",
			content: "call(\n  1, // one\n  2,\n);\n",
			want:    []Classification{Trailing},
		},
		{
			name:    "stacked leading lines",
			content: "// first\n// second\nconst a = 1;\n",
			want:    []Classification{Leading, Leading},
		},
		{
			name:    "last line of file",
			content: "const a = 1;\n// dangling\n",
			want:    []Classification{Leading},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cs, src := topComments(t, tc.content)
			if len(cs) != len(tc.want) {
				t.Fatalf("found %d comments, want %d", len(cs), len(tc.want))
			}
			for i, c := range cs {
				if got := Classify(c, src); got != tc.want[i] {
					t.Errorf("comment %d (%q) = %v, want %v", i, c.Text, got, tc.want[i])
				}
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	cs, src := topComments(t, "const a = 1;\n\n// floating\n\nconst b = 2;\n")
	if len(cs) != 1 {
		t.Fatal("expected one comment")
	}
	first := Classify(cs[0], src)
	for i := 0; i < 3; i++ {
		if got := Classify(cs[0], src); got != first {
			t.Fatalf("classification changed on repeat call: %v then %v", first, got)
		}
	}
}

func TestStore(t *testing.T) {
	s := NewStore()
	a := Comment{Text: "// a"}
	b := Comment{Text: "// b"}
	s.AddLeading(10, a)
	s.AddLeading(10, b)
	s.AddTrailing(20, a)

	if got := s.Leading(10); len(got) != 2 || got[0].Text != "// a" || got[1].Text != "// b" {
		t.Errorf("Leading(10) = %v", got)
	}
	if got := s.Trailing(20); len(got) != 1 {
		t.Errorf("Trailing(20) = %v", got)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}

	s.AbsorbTrailing(20)
	if got := s.Trailing(20); len(got) != 0 {
		t.Errorf("Trailing(20) after absorb = %v", got)
	}
	if s.Len() != 2 {
		t.Errorf("Len after absorb = %d, want 2", s.Len())
	}
}
