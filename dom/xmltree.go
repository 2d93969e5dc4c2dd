package dom

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// xmlTree is the XML provider for XHTML documents, backed by beevik/etree.
type xmlTree struct {
	doc *etree.Document
}

func parseXML(data []byte) (*xmlTree, error) {
	doc := newXMLDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse XML: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse XML: no root element")
	}
	return &xmlTree{doc: doc}, nil
}

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	return doc
}

func (t *xmlTree) Root() Node { return &xmlNode{doc: t.doc} }

func (t *xmlTree) Render(w io.Writer) error {
	_, err := t.doc.WriteTo(w)
	return err
}

// xmlNode wraps either the document (el == nil) or one element.
type xmlNode struct {
	doc *etree.Document
	el  *etree.Element
}

func (x *xmlNode) Tag() string {
	if x.el == nil {
		return ""
	}
	return x.el.Tag
}

func (x *xmlNode) Attrs() map[string]string {
	if x.el == nil {
		return map[string]string{}
	}
	attrs := make(map[string]string, len(x.el.Attr))
	for _, a := range x.el.Attr {
		attrs[a.Key] = a.Value
	}
	return attrs
}

func (x *xmlNode) Path() string {
	if x.el == nil {
		return "/"
	}
	return x.el.GetPath()
}

func (x *xmlNode) Find(pred Predicate) []Node {
	var found []Node
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, c := range el.ChildElements() {
			if pred(&xmlNode{doc: x.doc, el: c}) {
				found = append(found, &xmlNode{doc: x.doc, el: c})
				continue // topmost match only
			}
			walk(c)
		}
	}
	if x.el == nil {
		if root := x.doc.Root(); root != nil {
			if pred(&xmlNode{doc: x.doc, el: root}) {
				return []Node{&xmlNode{doc: x.doc, el: root}}
			}
			walk(root)
		}
	} else {
		walk(x.el)
	}
	return found
}

func (x *xmlNode) Fragment() (string, error) {
	if x.el == nil {
		s, err := x.doc.WriteToString()
		if err != nil {
			return "", fmt.Errorf("serialize document: %w", err)
		}
		return s, nil
	}
	sub := etree.NewDocument()
	sub.SetRoot(x.el.Copy())
	s, err := sub.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serialize subtree: %w", err)
	}
	return s, nil
}

func (x *xmlNode) SetFragment(text string) error {
	repl := newXMLDocument()
	if err := repl.ReadFromString(text); err != nil {
		return fmt.Errorf("reparse subtree: %w", err)
	}
	root := repl.Root()
	if root == nil {
		return fmt.Errorf("corrected subtree %s has no root element", x.Path())
	}

	// SetRoot and InsertChildAt unbind root from the scratch document, so
	// the parsed element can be moved instead of copied.
	if x.el == nil {
		x.doc.SetRoot(root)
		return nil
	}

	parent := x.el.Parent()
	if parent == nil {
		x.doc.SetRoot(root)
		return nil
	}
	parent.InsertChildAt(x.el.Index(), root)
	parent.RemoveChild(x.el)
	return nil
}
