// Package dom provides the document tree the corrector operates on. It
// commits raw bytes into a navigable node tree, exposes subtree search by
// predicate, serializes subtrees to text and substitutes corrected text back.
//
// Two providers implement the same interface: an HTML provider built on
// golang.org/x/net/html and an XML provider built on github.com/beevik/etree
// for XHTML documents.
package dom

import (
	"fmt"
	"io"
)

// ParseMode selects the document parser.
type ParseMode int

const (
	// ModeHTML parses with the HTML5 parsing rules, including charset
	// detection from the document's declared encoding.
	ModeHTML ParseMode = iota

	// ModeXML parses strict-leaning XML, suitable for XHTML documents.
	ModeXML
)

// ModeFromString maps a configuration string to a ParseMode.
func ModeFromString(s string) (ParseMode, error) {
	switch s {
	case "", "html":
		return ModeHTML, nil
	case "xml", "xhtml":
		return ModeXML, nil
	}
	return 0, fmt.Errorf("unknown parse mode %q", s)
}

// Tree is a parsed document. Its nodes persist for the document's lifetime
// and are mutated once per corrected subtree.
type Tree interface {
	// Root returns the document root node.
	Root() Node

	// Render serializes the whole tree back to text.
	Render(w io.Writer) error
}

// Node is one element (or the document root) of a Tree.
type Node interface {
	// Tag returns the element name, or "" for the document root.
	Tag() string

	// Attrs returns the element attributes.
	Attrs() map[string]string

	// Path returns a slash path locating the node in the tree, for error
	// reporting.
	Path() string

	// Find returns the topmost descendants matching pred. The search does
	// not descend into a matched element, so nested matches are reached by
	// recursing from their matched ancestor.
	Find(pred Predicate) []Node

	// Fragment returns the serialized text of the subtree rooted at the
	// node, including the node's own tag.
	Fragment() (string, error)

	// SetFragment substitutes corrected text for the subtree. Only this
	// subtree is touched; siblings are never affected.
	SetFragment(text string) error
}

// Parse commits raw document bytes into a Tree using the given mode.
func Parse(data []byte, mode ParseMode) (Tree, error) {
	switch mode {
	case ModeHTML:
		return parseHTML(data)
	case ModeXML:
		return parseXML(data)
	}
	return nil, fmt.Errorf("unknown parse mode %d", mode)
}
