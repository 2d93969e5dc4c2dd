// Package repair implements the tag-repair algorithm for markup fragments
// whose math expressions were damaged by an earlier rendering step that
// mistook literal "<" and ">" inside math for tag boundaries.
//
// The package is pure text analysis: a tokenizer classifies the fragment into
// math-delimiter and HTML tag tokens, a reconciler decides which HTML tokens
// are genuine structure and which are artifacts of math source text, and the
// resulting edits are applied functionally to the fragment. No I/O and no
// document-tree knowledge lives here.
package repair

// Span identifies a byte range within a fragment.
type Span struct {
	Offset int // byte offset in the fragment
	Length int // length in bytes
}

// End returns the offset one past the last byte of the span.
func (s Span) End() int { return s.Offset + s.Length }

// Kind classifies a token produced by the tokenizer.
type Kind int

const (
	// MathOpen is a math delimiter that opens an expression, or a symmetric
	// delimiter (e.g. "$") whose role is decided by the reconciler.
	MathOpen Kind = iota

	// MathClose is a math delimiter that unambiguously closes an expression
	// (e.g. "\)").
	MathClose

	// HTMLOpen is an HTML start tag.
	HTMLOpen

	// HTMLClose is an HTML end tag.
	HTMLClose
)

func (k Kind) String() string {
	switch k {
	case MathOpen:
		return "math-open"
	case MathClose:
		return "math-close"
	case HTMLOpen:
		return "html-open"
	case HTMLClose:
		return "html-close"
	}
	return "unknown"
}

// Token is one classified unit of fragment text. Tokens are ordered by
// Span.Offset and their spans never overlap.
type Token struct {
	Kind Kind
	Span Span

	// Name is the element name for HTML tokens, or the delimiter class name
	// (e.g. "paren", "inline-dollar") for math tokens.
	Name string

	// Raw is the matched source text, exactly as it appears in the fragment.
	Raw string

	// Broken is set by the reconciler when the token turns out to be an
	// artifact of corrupted math text rather than genuine markup.
	Broken bool
}
