package render

// Walk visits nodes depth first in pre-order (each node before its children)
// and stops at the first error returned by fn.
func Walk(nodes []DocNode, fn func(DocNode) error) error {
	stack := make([]DocNode, 0, len(nodes))
	pushReversed := func(level []DocNode) {
		for i := len(level) - 1; i >= 0; i-- {
			stack = append(stack, level[i])
		}
	}

	pushReversed(nodes)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := fn(node); err != nil {
			return err
		}
		pushReversed(node.Children)
	}
	return nil
}

// Flatten returns the pre-order sequence of nodes.
func Flatten(nodes []DocNode) []DocNode {
	var out []DocNode
	_ = Walk(nodes, func(n DocNode) error {
		out = append(out, n)
		return nil
	})
	return out
}

// Count returns the number of nodes in the tree.
func Count(nodes []DocNode) int {
	total := 0
	for _, n := range nodes {
		total += 1 + Count(n.Children)
	}
	return total
}
