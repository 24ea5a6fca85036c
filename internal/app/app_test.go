package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

const unsorted = "function beta(): void {}\n\nfunction alpha(): void {}\n"
const sorted = "function alpha(): void {}\n\nfunction beta(): void {}\n"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTS(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFmtWriteRewritesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTS(t, dir, "a.ts", unsorted)

	if _, err := execute(t, "fmt", "-w", "--no-cache", path); err != nil {
		t.Fatal(err)
	}
	content, _ := os.ReadFile(path)
	if string(content) != sorted {
		t.Errorf("file content:\n%s", content)
	}
}

func TestFmtCheckReportsDirty(t *testing.T) {
	dir := t.TempDir()
	path := writeTS(t, dir, "a.ts", unsorted)

	_, err := execute(t, "fmt", "--check", "--no-cache", path)
	if !errors.Is(err, errDirty) {
		t.Fatalf("err = %v, want errDirty", err)
	}
	content, _ := os.ReadFile(path)
	if string(content) != unsorted {
		t.Error("--check must not modify the file")
	}
}

func TestFmtCheckPassesOnCleanTree(t *testing.T) {
	dir := t.TempDir()
	writeTS(t, dir, "a.ts", sorted)

	if _, err := execute(t, "fmt", "--check", "--no-cache", dir); err != nil {
		t.Fatalf("err = %v, want nil for a clean tree", err)
	}
}

func TestFmtStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeTS(t, dir, "a.ts", unsorted)

	out, err := execute(t, "fmt", "--stdout", path)
	if err != nil {
		t.Fatal(err)
	}
	if out != sorted {
		t.Errorf("stdout = %q, want %q", out, sorted)
	}
	content, _ := os.ReadFile(path)
	if string(content) != unsorted {
		t.Error("--stdout must not modify the file")
	}
}

func TestFmtStdoutRejectsMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	writeTS(t, dir, "a.ts", sorted)
	writeTS(t, dir, "b.ts", sorted)

	_, err := execute(t, "fmt", "--stdout", dir)
	if err == nil || errors.Is(err, errDirty) || errors.Is(err, errRunFailed) {
		t.Fatalf("err = %v, want a usage error", err)
	}
}

func TestFmtFailedFileMapsToRunFailure(t *testing.T) {
	dir := t.TempDir()
	writeTS(t, dir, "bad.ts", "function {{{")

	_, err := execute(t, "fmt", "--no-cache", dir)
	if !errors.Is(err, errRunFailed) {
		t.Fatalf("err = %v, want errRunFailed", err)
	}
}

func TestFmtHonorsConfigToggles(t *testing.T) {
	dir := t.TempDir()
	path := writeTS(t, dir, "a.ts", unsorted)
	cfgPath := filepath.Join(dir, "tsreorg.toml")
	if err := os.WriteFile(cfgPath, []byte("[sort]\ntop_level = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "fmt", "--check", "--no-cache", "--config", cfgPath, path); err != nil {
		t.Fatalf("err = %v, want clean when top-level sorting is off", err)
	}
}

func TestFmtDiscoversConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeTS(t, dir, "a.ts", unsorted)
	if err := os.WriteFile(filepath.Join(dir, "tsreorg.toml"), []byte("[sort]\ntop_level = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "fmt", "--check", "--no-cache", path); err != nil {
		t.Fatalf("err = %v, want the adjacent tsreorg.toml applied", err)
	}
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, err := execute(t, "fmt", "--definitely-not-a-flag")
	if err == nil || errors.Is(err, errDirty) || errors.Is(err, errRunFailed) {
		t.Fatalf("err = %v, want a plain usage error", err)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("output %q does not mention version %s", out, version)
	}
}

func TestCacheClearAndStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.msgpack")

	out, err := execute(t, "cache", "status", "--path", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0 entries") {
		t.Errorf("status output %q", out)
	}

	if _, err := execute(t, "cache", "clear", "--path", path); err != nil {
		t.Fatal(err)
	}
}
