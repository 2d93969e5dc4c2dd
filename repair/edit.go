package repair

// Action is the planned mutation for one span of the fragment.
type Action int

const (
	// Keep leaves the span unchanged.
	Keep Action = iota

	// Delete removes the span.
	Delete

	// ReplaceWithLiteral substitutes the span with Text, an HTML-escaped
	// rendition of the original source text, so it renders as text instead
	// of markup.
	ReplaceWithLiteral
)

// Edit is one planned mutation against the original fragment text.
type Edit struct {
	Span   Span
	Action Action
	Text   string // replacement for ReplaceWithLiteral
}

// Apply produces the corrected fragment by applying the edits in position
// order. The edits must be sorted by offset and non-overlapping, which holds
// for any list produced by Reconcile. Apply never mutates its inputs; running
// it on a fragment with an empty edit list returns the fragment unchanged.
func Apply(fragment string, edits []Edit) string {
	if len(edits) == 0 {
		return fragment
	}

	var b []byte
	last := 0
	for _, e := range edits {
		b = append(b, fragment[last:e.Span.Offset]...)
		switch e.Action {
		case Keep:
			b = append(b, fragment[e.Span.Offset:e.Span.End()]...)
		case Delete:
			// span dropped
		case ReplaceWithLiteral:
			b = append(b, e.Text...)
		}
		last = e.Span.End()
	}
	b = append(b, fragment[last:]...)
	return string(b)
}
