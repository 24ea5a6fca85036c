package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("export {};\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestHasValidExtension(t *testing.T) {
	exts := []string{".ts", ".tsx"}
	cases := []struct {
		path string
		want bool
	}{
		{"src/app.ts", true},
		{"src/App.TSX", true},
		{"src/app.js", false},
		{"src/app.d.ts", true},
		{"README.md", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := HasValidExtension(tc.path, exts); got != tc.want {
			t.Errorf("HasValidExtension(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestExcluded(t *testing.T) {
	cases := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"src/gen/api.ts", []string{"gen"}, true},
		{"gen/api.ts", []string{"gen"}, true},
		{"src/app.ts", []string{"gen"}, false},
		{"src/api.generated.ts", []string{"*.generated.ts"}, true},
		{"src/api.ts", []string{"*.generated.ts"}, false},
		{"src/vendor/lib.ts", []string{"src/vendor/*"}, true},
		{"src/app.ts", nil, false},
	}
	for _, tc := range cases {
		if got := Excluded(tc.path, tc.patterns); got != tc.want {
			t.Errorf("Excluded(%q, %v) = %v, want %v", tc.path, tc.patterns, got, tc.want)
		}
	}
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.ts"))
	touch(t, filepath.Join(root, "a.tsx"))
	touch(t, filepath.Join(root, "notes.md"))
	touch(t, filepath.Join(root, "src", "deep", "c.ts"))
	touch(t, filepath.Join(root, "node_modules", "dep", "index.ts"))
	touch(t, filepath.Join(root, ".git", "hook.ts"))
	touch(t, filepath.Join(root, "generated", "api.ts"))

	files, err := FindFiles(root, []string{".ts", ".tsx"}, []string{"generated"})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(root, "a.tsx"),
		filepath.Join(root, "b.ts"),
		filepath.Join(root, "src", "deep", "c.ts"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestResolveMixesFilesAndDirs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "single.ts"))
	touch(t, filepath.Join(root, "dir", "a.ts"))
	touch(t, filepath.Join(root, "dir", "b.tsx"))

	files, err := Resolve(
		[]string{filepath.Join(root, "single.ts"), filepath.Join(root, "dir")},
		[]string{".ts", ".tsx"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3: %v", len(files), files)
	}
	if files[0] != filepath.Join(root, "single.ts") {
		t.Errorf("explicit file should come first, got %v", files)
	}
}

func TestResolveMissingPath(t *testing.T) {
	if _, err := Resolve([]string{filepath.Join(t.TempDir(), "nope.ts")}, []string{".ts"}, nil); err == nil {
		t.Fatal("expected an error for a missing argument")
	}
}
