// Package document keeps a LaTeX text and its parsed tree together while the
// text is edited.
//
// Edits update the text immediately and shift the ranges of the last
// successfully parsed tree, so positions stay usable between parses. Nodes
// an edit touched are flagged; Reparse rebuilds the tree from the current
// text and keeps the previous tree when the text no longer parses.
package document

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/texviz/internal/logging"
	"github.com/yaklabco/texviz/pkg/parser/latex"
	"github.com/yaklabco/texviz/pkg/texast"
	"github.com/yaklabco/texviz/pkg/texpos"
)

// ErrNoTree is returned by operations that need a parsed tree before the
// document has ever parsed successfully.
var ErrNoTree = errors.New("document has no parsed tree")

// Document is a text buffer with its last good tree. It is safe for
// concurrent use; edits and reparses are serialised.
type Document struct {
	mu sync.RWMutex

	path   string
	parser *latex.Parser
	logger *log.Logger

	text    string
	index   *texpos.LineIndex
	root    *texast.Node
	version int
	// parsedVersion is the version root was parsed from.
	parsedVersion int
	lastFailure   error
}

// Option configures a Document.
type Option func(*Document)

// WithParser sets the parser. The default uses latex.DefaultRegistry.
func WithParser(parser *latex.Parser) Option {
	return func(d *Document) {
		d.parser = parser
	}
}

// WithLogger sets the logger for parse failures and edit problems.
// The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// WithPath sets the path reported in parse failures and log lines.
func WithPath(path string) Option {
	return func(d *Document) {
		d.path = path
	}
}

// New creates a document holding text. It does not parse; call Reparse.
func New(text string, opts ...Option) *Document {
	d := &Document{
		text:  text,
		index: texpos.NewLineIndex(text),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.parser == nil {
		d.parser = latex.New(nil)
	}
	if d.logger == nil {
		d.logger = logging.Discard()
	}
	if d.path != "" {
		d.logger = d.logger.With(logging.FieldPath, d.path)
	}
	return d
}

// Open creates a document and parses it once. A parse failure is returned
// alongside the document, which is still usable as a text buffer.
func Open(ctx context.Context, text string, opts ...Option) (*Document, error) {
	d := New(text, opts...)
	return d, d.Reparse(ctx)
}

// Path returns the document path, which may be empty.
func (d *Document) Path() string {
	return d.path
}

// Text returns the current text.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// Version counts the edits applied so far.
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Root returns the last good tree, or nil if the document never parsed.
// Between a successful edit and the next Reparse its ranges are tracked
// through the edits rather than recomputed.
func (d *Document) Root() *texast.Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root
}

// LastFailure returns the error of the most recent failed Reparse, or nil
// once a parse succeeds.
func (d *Document) LastFailure() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastFailure
}

// NeedsReparse reports whether the text changed since the tree was built.
func (d *Document) NeedsReparse() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root == nil || d.parsedVersion != d.version
}

// TextInRange returns the current text covered by rng. Positions without an
// offset are resolved against the current line index.
func (d *Document) TextInRange(rng *texpos.Range) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	start, err := d.offsetOf(rng.From)
	if err != nil {
		return "", fmt.Errorf("range start %s: %w", rng.From, err)
	}
	end, err := d.offsetOf(rng.To)
	if err != nil {
		return "", fmt.Errorf("range end %s: %w", rng.To, err)
	}
	if end < start {
		return "", fmt.Errorf("range %s: %w", rng, texpos.ErrOutOfRange)
	}
	return string([]rune(d.text)[start:end]), nil
}

// NodeText returns the current source of node.
func (d *Document) NodeText(node *texast.Node) (string, error) {
	return d.TextInRange(node.Range())
}

func (d *Document) offsetOf(pos texpos.Position) (int, error) {
	resolved, err := d.index.Resolve(pos)
	if err != nil {
		return 0, err
	}
	offset, err := resolved.Offset()
	if err != nil {
		return 0, err
	}
	if offset < 0 || offset > d.index.Len() {
		return 0, texpos.ErrOutOfRange
	}
	return offset, nil
}

// NodeAt returns the deepest node of the current tree containing pos.
func (d *Document) NodeAt(pos texpos.Position) (*texast.Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.root == nil {
		return nil, ErrNoTree
	}
	return texast.NodeAt(d.root, pos), nil
}
