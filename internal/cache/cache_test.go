package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.msgpack")
	content := []byte("const a = 1;\n")

	c := Open(path)
	if c.Clean("a.ts", content) {
		t.Fatal("empty cache should not report files clean")
	}
	c.MarkClean("a.ts", content)
	if !c.Clean("a.ts", content) {
		t.Fatal("MarkClean should be visible immediately")
	}
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	reopened := Open(path)
	if !reopened.Clean("a.ts", content) {
		t.Fatal("entry should survive a save and reopen")
	}
	if reopened.Len() != 1 {
		t.Errorf("Len = %d, want 1", reopened.Len())
	}
}

func TestCleanRejectsModifiedContent(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "clean.msgpack"))
	c.MarkClean("a.ts", []byte("const a = 1;\n"))

	if c.Clean("a.ts", []byte("const a = 2;\n")) {
		t.Fatal("changed content must invalidate the entry")
	}
}

func TestOpenCorruptStoreStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.msgpack")
	if err := os.WriteFile(path, []byte("not msgpack"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := Open(path)
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0 for a corrupt store", c.Len())
	}
}

func TestSaveSkipsWhenNothingChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.msgpack")
	c := Open(path)
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("an untouched cache should not create a store file")
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.msgpack")
	c := Open(path)
	c.MarkClean("a.ts", []byte("x"))
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	if err := Clear(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("store file should be gone")
	}
	if err := Clear(path); err != nil {
		t.Error("clearing a missing store should succeed")
	}
}

func TestNilCacheIsInert(t *testing.T) {
	var c *Cache
	if c.Clean("a.ts", nil) {
		t.Error("nil cache should never report clean")
	}
	c.MarkClean("a.ts", nil)
	if err := c.Save(); err != nil {
		t.Error("nil cache Save should be a no-op")
	}
	if c.Len() != 0 || c.Path() != "" {
		t.Error("nil cache should look empty")
	}
}
