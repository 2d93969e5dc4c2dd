package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// htmlTree is the HTML5 provider, backed by golang.org/x/net/html.
type htmlTree struct {
	doc *html.Node

	// enc is the document's declared encoding, nil for UTF-8. The tree
	// itself is always UTF-8; Render converts back so the document's
	// charset declaration stays truthful.
	enc encoding.Encoding
}

func parseHTML(data []byte) (*htmlTree, error) {
	e, name, _ := charset.DetermineEncoding(data, "")
	r, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	t := &htmlTree{doc: doc}
	if name != "utf-8" {
		t.enc = e
	}
	return t, nil
}

func (t *htmlTree) Root() Node { return &htmlNode{n: t.doc} }

func (t *htmlTree) Render(w io.Writer) error {
	if t.enc == nil {
		return html.Render(w, t.doc)
	}
	// Runes outside the declared charset become character references.
	tw := transform.NewWriter(w, encoding.HTMLEscapeUnsupported(t.enc.NewEncoder()))
	if err := html.Render(tw, t.doc); err != nil {
		return err
	}
	return tw.Close()
}

type htmlNode struct {
	n *html.Node
}

func (h *htmlNode) Tag() string {
	if h.n.Type == html.ElementNode {
		return h.n.Data
	}
	return ""
}

func (h *htmlNode) Attrs() map[string]string {
	attrs := make(map[string]string, len(h.n.Attr))
	for _, a := range h.n.Attr {
		attrs[a.Key] = a.Val
	}
	return attrs
}

func (h *htmlNode) Path() string {
	if h.n.Type != html.ElementNode {
		return "/"
	}
	var parts []string
	for n := h.n; n != nil && n.Type == html.ElementNode; n = n.Parent {
		idx, total := 1, 1
		for s := n.PrevSibling; s != nil; s = s.PrevSibling {
			if s.Type == html.ElementNode && s.Data == n.Data {
				idx++
			}
		}
		for s := n.NextSibling; s != nil; s = s.NextSibling {
			if s.Type == html.ElementNode && s.Data == n.Data {
				total++
			}
		}
		part := n.Data
		if idx > 1 || total+idx-1 > 1 {
			part = fmt.Sprintf("%s[%d]", n.Data, idx)
		}
		parts = append(parts, part)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

func (h *htmlNode) Find(pred Predicate) []Node {
	var found []Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && pred(&htmlNode{n: c}) {
				found = append(found, &htmlNode{n: c})
				continue // topmost match only
			}
			walk(c)
		}
	}
	walk(h.n)
	return found
}

func (h *htmlNode) Fragment() (string, error) {
	var b strings.Builder
	if err := html.Render(&b, h.n); err != nil {
		return "", fmt.Errorf("serialize subtree: %w", err)
	}
	return b.String(), nil
}

func (h *htmlNode) SetFragment(text string) error {
	if h.n.Type == html.DocumentNode {
		doc, err := html.Parse(strings.NewReader(text))
		if err != nil {
			return fmt.Errorf("reparse document: %w", err)
		}
		for c := h.n.FirstChild; c != nil; c = h.n.FirstChild {
			h.n.RemoveChild(c)
		}
		for c := doc.FirstChild; c != nil; c = doc.FirstChild {
			doc.RemoveChild(c)
			h.n.AppendChild(c)
		}
		return nil
	}

	parent := h.n.Parent
	if parent == nil {
		return fmt.Errorf("subtree %s has no parent", h.Path())
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	if parent.Type == html.ElementNode {
		ctx.Data, ctx.DataAtom = parent.Data, parent.DataAtom
	}

	nodes, err := html.ParseFragment(strings.NewReader(text), ctx)
	if err != nil {
		return fmt.Errorf("reparse subtree: %w", err)
	}
	for _, nn := range nodes {
		if nn.Parent != nil {
			nn.Parent.RemoveChild(nn)
		}
		parent.InsertBefore(nn, h.n)
	}
	parent.RemoveChild(h.n)
	return nil
}
