// Package parse wraps tree-sitter parsing with per-grammar parser pools.
package parse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrSyntax reports that a file failed to parse cleanly. Files with syntax
// errors are skipped rather than reorganized on a broken tree.
var ErrSyntax = errors.New("syntax error")

// Flavor selects the grammar used for a file.
type Flavor int

const (
	TypeScript Flavor = iota
	TSX
)

func (f Flavor) String() string {
	if f == TSX {
		return "tsx"
	}
	return "typescript"
}

// FlavorForFile picks the grammar from the file extension. TSX files need
// the JSX-aware grammar; everything else parses as plain TypeScript.
func FlavorForFile(filename string) Flavor {
	if strings.HasSuffix(filename, ".tsx") || strings.HasSuffix(filename, ".jsx") {
		return TSX
	}
	return TypeScript
}

var tsPool = sync.Pool{
	New: func() interface{} {
		parser := sitter.NewParser()
		parser.SetLanguage(typescript.GetLanguage())
		return parser
	},
}

var tsxPool = sync.Pool{
	New: func() interface{} {
		parser := sitter.NewParser()
		parser.SetLanguage(tsx.GetLanguage())
		return parser
	},
}

func pool(flavor Flavor) *sync.Pool {
	if flavor == TSX {
		return &tsxPool
	}
	return &tsPool
}

// Parse parses content with the grammar for flavor. The caller owns the
// returned tree and must Close it.
func Parse(ctx context.Context, content []byte, flavor Flavor) (*sitter.Tree, error) {
	p := pool(flavor).Get().(*sitter.Parser)
	defer pool(flavor).Put(p)

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", flavor, err)
	}
	return tree, nil
}

// Check returns ErrSyntax when the parsed tree contains error nodes.
func Check(tree *sitter.Tree) error {
	if tree.RootNode().HasError() {
		return ErrSyntax
	}
	return nil
}
