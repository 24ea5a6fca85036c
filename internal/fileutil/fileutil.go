// Package fileutil discovers the files a formatter run operates on.
package fileutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// HasValidExtension checks if a file has one of the valid extensions.
func HasValidExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

// Excluded reports whether path matches any exclude pattern. Patterns
// match the base name and the slash-separated path with filepath.Match
// semantics; a bare name also excludes any directory of that name.
func Excluded(path string, patterns []string) bool {
	base := filepath.Base(path)
	slashed := filepath.ToSlash(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, slashed); ok {
			return true
		}
		if strings.HasPrefix(slashed, pat+"/") || strings.Contains(slashed, "/"+pat+"/") {
			return true
		}
	}
	return false
}

// FindFiles recursively collects files under root with one of the
// given extensions, skipping hidden directories, node_modules, and
// anything the exclude patterns match. Results come back sorted so
// runs are deterministic.
func FindFiles(root string, extensions, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || base == "node_modules") {
				return filepath.SkipDir
			}
			if path != root && Excluded(path, exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if HasValidExtension(path, extensions) && !Excluded(path, exclude) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Resolve expands the argument list into concrete files. Directory
// arguments are walked with FindFiles; file arguments are taken as
// given when the extension matches.
func Resolve(args []string, extensions, exclude []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := FindFiles(arg, extensions, exclude)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		if HasValidExtension(arg, extensions) {
			files = append(files, arg)
		}
	}
	return files, nil
}
