package repair

import "fmt"

// TokenizationError reports a fragment containing a pattern that cannot be
// classified as either scheme, e.g. a tag candidate that is never terminated
// because the fragment is truncated.
type TokenizationError struct {
	Offset  int    // byte offset of the unclassifiable pattern
	Context string // text around the offending offset
	Reason  string
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("tokenize fragment: %s at offset %d: %q", e.Reason, e.Offset, e.Context)
}

// UnrepairableFragmentError reports a fragment whose corruption could not be
// explained by the evidence model: reconciliation finished with unmatched
// open tokens, or found a close token with nothing to close.
type UnrepairableFragmentError struct {
	Offset int    // byte offset of the first unexplained token
	Name   string // name of the first unexplained token
	Reason string
}

func (e *UnrepairableFragmentError) Error() string {
	return fmt.Sprintf("unrepairable fragment: %s (%s at offset %d)", e.Reason, e.Name, e.Offset)
}
