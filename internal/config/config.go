// Package config loads project configuration from tsreorg.toml. The
// file is discovered by walking upward from the working directory, so
// the tool behaves the same no matter where inside a project it runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tsreorg/tsreorg/internal/reorg"
)

// FileName is the configuration file the discovery walk looks for.
const FileName = "tsreorg.toml"

// Config is the project-level configuration.
type Config struct {
	Extensions []string  `toml:"extensions"`
	Exclude    []string  `toml:"exclude"`
	Workers    int       `toml:"workers"`
	Sort       SortRules `toml:"sort"`
}

// SortRules toggles individual reorganization rules. Everything is on
// by default; a project opts out of the rules it does not want.
type SortRules struct {
	Imports          bool `toml:"imports"`
	ImportSpecifiers bool `toml:"import_specifiers"`
	TopLevel         bool `toml:"top_level"`
	ClassMembers     bool `toml:"class_members"`
	ObjectKeys       bool `toml:"object_keys"`
	JSXAttributes    bool `toml:"jsx_attributes"`
	UnionMembers     bool `toml:"union_members"`
}

// Default returns the configuration used when no tsreorg.toml exists.
func Default() Config {
	return Config{
		Extensions: []string{".ts", ".tsx"},
		Sort: SortRules{
			Imports:          true,
			ImportSpecifiers: true,
			TopLevel:         true,
			ClassMembers:     true,
			ObjectKeys:       true,
			JSXAttributes:    true,
			UnionMembers:     true,
		},
	}
}

// Load reads one specific configuration file. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Discover walks upward from dir until it finds a tsreorg.toml or runs
// out of parents. It returns the loaded configuration and the path it
// came from; when no file exists anywhere the defaults come back with
// an empty path.
func Discover(dir string) (Config, string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Config{}, "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(abs, FileName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := Load(candidate)
			return cfg, candidate, err
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return Default(), "", nil
		}
		abs = parent
	}
}

// Rules converts the configured toggles into the reorganizer's rule
// set.
func (c Config) Rules() reorg.Rules {
	return reorg.Rules{
		SortImports:          c.Sort.Imports,
		SortImportSpecifiers: c.Sort.ImportSpecifiers,
		SortTopLevel:         c.Sort.TopLevel,
		SortClassMembers:     c.Sort.ClassMembers,
		SortObjectKeys:       c.Sort.ObjectKeys,
		SortJSXAttributes:    c.Sort.JSXAttributes,
		SortUnionMembers:     c.Sort.UnionMembers,
	}
}
