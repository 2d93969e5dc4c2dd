package repair

import (
	"sort"

	"golang.org/x/net/html"
)

// Reconcile classifies every HTML token in the sequence as genuine structure
// or math-text artifact and returns the edits that repair the fragment. The
// tokens must be in fragment order, as produced by Tokenize; Broken flags are
// set on artifact tokens as a side effect.
//
// The algorithm is a single left-to-right pass over two independent nesting
// stacks, one per scheme:
//
//   - A math delimiter opens a new expression unless the stack top is an
//     unclosed delimiter of the same class, in which case it closes it.
//     Delimiter corruption means open and close cannot be told apart
//     lexically, so adjacency to an open entry is the closing signal.
//   - An HTML start tag seen while a math expression is open is an artifact:
//     it is marked broken and replaced with its literal text. It is still
//     pushed so its matching end tag can be found and deleted symmetrically.
//   - An HTML end tag closes the innermost open element. If that element was
//     broken, the replace/delete pair for the two spans is committed.
//
// A fragment that ends with unmatched entries on either stack, or that closes
// an element that was never opened, cannot be explained by math-side
// corruption and yields an *UnrepairableFragmentError. Broken pairs are only
// repaired whole: an artifact start tag without its end tag fails the
// fragment rather than producing a one-sided edit.
func Reconcile(tokens []Token) ([]Edit, error) {
	var mathStack, htmlStack []*Token
	var edits []Edit

	for i := range tokens {
		tok := &tokens[i]

		switch tok.Kind {
		case MathOpen:
			if n := len(mathStack); n > 0 && mathStack[n-1].Name == tok.Name {
				mathStack = mathStack[:n-1] // repeated delimiter closes the open one
			} else {
				mathStack = append(mathStack, tok)
			}

		case MathClose:
			if n := len(mathStack); n > 0 && mathStack[n-1].Name == tok.Name {
				mathStack = mathStack[:n-1]
			}
			// A closer with no matching open is benign literal text.

		case HTMLOpen:
			if len(mathStack) > 0 {
				tok.Broken = true
			}
			htmlStack = append(htmlStack, tok)

		case HTMLClose:
			n := len(htmlStack)
			if n == 0 {
				return nil, &UnrepairableFragmentError{
					Offset: tok.Span.Offset,
					Name:   tok.Name,
					Reason: "end tag without matching start tag",
				}
			}
			open := htmlStack[n-1]
			htmlStack = htmlStack[:n-1]
			if open.Broken {
				tok.Broken = true
				edits = append(edits,
					Edit{Span: open.Span, Action: ReplaceWithLiteral, Text: html.EscapeString(open.Raw)},
					Edit{Span: tok.Span, Action: Delete},
				)
			}
		}
	}

	if len(htmlStack) > 0 {
		top := htmlStack[len(htmlStack)-1]
		return nil, &UnrepairableFragmentError{
			Offset: top.Span.Offset,
			Name:   top.Name,
			Reason: "start tag never closed",
		}
	}
	if len(mathStack) > 0 {
		top := mathStack[len(mathStack)-1]
		return nil, &UnrepairableFragmentError{
			Offset: top.Span.Offset,
			Name:   top.Name,
			Reason: "math delimiter never closed",
		}
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].Span.Offset < edits[j].Span.Offset })
	return edits, nil
}
