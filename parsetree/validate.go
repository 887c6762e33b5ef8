package parsetree

import "fmt"

// Validate recursively checks the two structural invariants spec.md §8
// names as testable properties:
//
//   - for every non-leaf node, its span covers
//     [min(child.Span.Begin), max(child.Span.End))
//   - children never fall outside their parent's span
//
// It returns the first violation found, or nil if the (sub)tree is
// internally consistent. This is a supplemental diagnostic (SPEC_FULL.md
// §5.2); the parser and decomposer are expected to never produce a tree
// that fails it.
func Validate(n *Node) error {
	if n == nil {
		return nil
	}
	if len(n.Children) == 0 {
		return nil
	}

	min := n.Children[0].Span.Begin
	max := n.Children[0].Span.End
	for _, c := range n.Children {
		if c.Span.Begin < min {
			min = c.Span.Begin
		}
		if c.Span.End > max {
			max = c.Span.End
		}
		if c.Span.Begin < n.Span.Begin || c.Span.End > n.Span.End {
			return fmt.Errorf("parsetree: child %v span [%d,%d) escapes parent %v span [%d,%d)",
				c.Kind, c.Span.Begin, c.Span.End, n.Kind, n.Span.Begin, n.Span.End)
		}
		if err := Validate(c); err != nil {
			return err
		}
	}
	if n.Span.Begin > min || n.Span.End < max {
		return fmt.Errorf("parsetree: node %v span [%d,%d) doesn't cover children span [%d,%d)",
			n.Kind, n.Span.Begin, n.Span.End, min, max)
	}
	return nil
}
