// Package mathfix repairs documents whose mathematical markup was corrupted
// by a rendering step that misread literal "<" and ">" inside math
// expressions as HTML tag boundaries. The damage shows up as spurious
// elements interleaved with genuine structure; the corrector finds the
// candidate subtrees, decides per tag token which nesting scheme it belongs
// to and rewrites the subtree so artifacts become literal text again.
package mathfix

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/dpotapov/go-mathfix/dom"
	"github.com/dpotapov/go-mathfix/repair"
)

// Corrector transforms a whole document's bytes. Implementations report a
// failed correction by returning an error and must not emit partially
// corrected output.
type Corrector interface {
	Process(data []byte) ([]byte, error)
}

// Ensure MathJaxCorrector implements the interface.
var _ Corrector = (*MathJaxCorrector)(nil)

// MathJaxCorrector is a Corrector for MathJax delimiter corruption. It walks
// the document tree top-down, recursing into candidate subtrees until it
// finds ones with no further nested candidates, and repairs each such leaf
// with the two-stack reconciler from the repair package.
type MathJaxCorrector struct {
	mode       dom.ParseMode
	candidates dom.Predicate
	syntax     *repair.Syntax
	logger     *slog.Logger
}

// NewMathJaxCorrector builds a corrector from the given configuration. A nil
// cfg selects DefaultConfig; a nil logger discards log output.
func NewMathJaxCorrector(cfg *Config, logger *slog.Logger) (*MathJaxCorrector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	mode, err := dom.ModeFromString(cfg.Mode)
	if err != nil {
		return nil, err
	}

	candidates := cfg.Candidates
	if candidates == "" {
		candidates = defaultCandidates
	}
	pred, err := dom.CompilePredicate(candidates)
	if err != nil {
		return nil, err
	}

	syntax, err := repair.NewSyntax(cfg.delimiters(), cfg.TagPattern)
	if err != nil {
		return nil, err
	}

	return &MathJaxCorrector{
		mode:       mode,
		candidates: pred,
		syntax:     syntax,
		logger:     logger,
	}, nil
}

// Process parses the document, repairs every leaf candidate subtree and
// serializes the corrected tree. Any subtree-level failure aborts the whole
// document: the returned error carries the subtree location and no output is
// produced.
func (c *MathJaxCorrector) Process(data []byte) ([]byte, error) {
	tree, err := dom.Parse(data, c.mode)
	if err != nil {
		return nil, err
	}

	if err := c.correct(tree.Root()); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tree.Render(&buf); err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return buf.Bytes(), nil
}

// correct recurses into candidate subtrees; a node with no nested candidates
// is a leaf and gets repaired. Rewriting happens bottom-up as leaves resolve,
// so parent scans never see already-fixed content as new candidates.
func (c *MathJaxCorrector) correct(n dom.Node) error {
	matches := n.Find(c.candidates)
	if len(matches) == 0 {
		return c.repairLeaf(n)
	}
	for _, m := range matches {
		if err := c.correct(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *MathJaxCorrector) repairLeaf(n dom.Node) error {
	fragment, err := n.Fragment()
	if err != nil {
		return dom.NewNodeError(n, "", err)
	}

	tokens, err := c.syntax.Tokenize(fragment)
	if err != nil {
		return dom.NewNodeError(n, fragment, err)
	}

	edits, err := repair.Reconcile(tokens)
	if err != nil {
		return dom.NewNodeError(n, fragment, err)
	}
	if len(edits) == 0 {
		return nil // already correct, leave the subtree alone
	}

	fixed := repair.Apply(fragment, edits)
	c.logger.Debug("repaired subtree", "path", n.Path(), "edits", len(edits))

	if err := n.SetFragment(fixed); err != nil {
		return dom.NewNodeError(n, fixed, err)
	}
	return nil
}
