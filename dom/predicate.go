package dom

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Predicate decides whether a node is a candidate subtree containing math
// expressions.
type Predicate func(Node) bool

// predicateEnv is the expression environment for one node.
type predicateEnv struct {
	Tag     string            `expr:"tag"`
	Attrs   map[string]string `expr:"attrs"`
	Classes []string          `expr:"classes"`
}

// CompilePredicate compiles a boolean expression over a node's tag, attrs and
// classes into a Predicate. Examples:
//
//	tag == "math"
//	"MathJax" in classes
//	attrs["type"] matches "math/tex"
//
// A node for which the expression fails to evaluate is not a candidate.
func CompilePredicate(src string) (Predicate, error) {
	prog, err := expr.Compile(src, expr.Env(predicateEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile predicate %q: %w", src, err)
	}
	return func(n Node) bool {
		attrs := n.Attrs()
		return runPredicate(prog, predicateEnv{
			Tag:     n.Tag(),
			Attrs:   attrs,
			Classes: strings.Fields(attrs["class"]),
		})
	}, nil
}

func runPredicate(prog *vm.Program, env predicateEnv) bool {
	out, err := expr.Run(prog, env)
	if err != nil {
		return false
	}
	b, ok := out.(bool)
	return ok && b
}
