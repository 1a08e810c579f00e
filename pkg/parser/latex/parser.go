// Package latex parses a restricted LaTeX dialect into a texast tree with
// exact source ranges.
//
// The grammar is a set of mutually recursive rules over a rune cursor with
// ordered choice and backtracking. A backslash is resolved by looking ahead
// without consuming input: \begin{name} selects the known environment
// grammar from the Registry or the generic one, \end{...} is left to the
// enclosing environment, and anything else is a known or generic command.
//
// Parsing is all or nothing: on failure Parse returns a *ParsingFailure and
// no tree.
package latex

import (
	"context"
	"fmt"

	"github.com/yaklabco/texviz/pkg/texast"
)

// Parser parses LaTeX with a fixed registry. It is safe for concurrent use;
// all parse state is local to each call.
type Parser struct {
	registry *Registry
}

// New creates a parser. A nil registry selects DefaultRegistry.
func New(registry *Registry) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Parser{registry: registry.Clone()}
}

// Registry returns a copy of the parser's registry.
func (p *Parser) Registry() *Registry {
	return p.registry.Clone()
}

// Parse converts content into the root Latex node, numbering nodes from 1.
// The path is only used in failure messages.
//
// Returns nil and an error if parsing fails or ctx is already cancelled.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*texast.Node, error) {
	return p.ParseWithIDs(ctx, path, string(content), texast.NewIDGenerator())
}

// ParseWithIDs is Parse with a caller-supplied ID generator, so several
// parses can share one ID space.
func (p *Parser) ParseWithIDs(ctx context.Context, path, text string, ids *texast.IDGenerator) (*texast.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	s := newState(text, p.registry)
	root, err := s.document()
	if err != nil {
		return nil, s.failure(path)
	}

	texast.Number(root, ids)
	return root, nil
}

// Parse parses text with the default registry.
func Parse(text string) (*texast.Node, error) {
	return New(nil).Parse(context.Background(), "", []byte(text))
}
