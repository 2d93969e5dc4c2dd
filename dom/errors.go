package dom

// NodeError attaches the document location of a subtree to the error that
// aborted its repair.
type NodeError struct {
	Path    string // slash path of the subtree in the tree
	Excerpt string // truncated fragment text for diagnostics
	Err     error
}

// NewNodeError wraps err with the location of n and an excerpt of its
// fragment text.
func NewNodeError(n Node, fragment string, err error) *NodeError {
	const max = 120
	if len(fragment) > max {
		fragment = fragment[:max] + "..."
	}
	return &NodeError{Path: n.Path(), Excerpt: fragment, Err: err}
}

func (e *NodeError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *NodeError) Unwrap() error { return e.Err }
