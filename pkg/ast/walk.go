package ast

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *CallExpression:
		out := make([]Node, 0, len(n.Arguments)+1)
		if n.Callee != nil {
			out = append(out, n.Callee)
		}
		for _, arg := range n.Arguments {
			if arg != nil {
				out = append(out, arg)
			}
		}
		return out
	case *MemberExpression:
		out := make([]Node, 0, 2)
		if n.Object != nil {
			out = append(out, n.Object)
		}
		if n.Property != nil {
			out = append(out, n.Property)
		}
		return out
	case *Other:
		return n.Children
	default:
		return nil
	}
}

// Walk traverses an AST depth-first and calls fn for each node.
// If fn returns false, the children of that node are skipped.
func Walk(node Node, fn func(node Node) bool) {
	Inspect(node, fn, nil)
}

// Inspect traverses an AST depth-first. enter is called before a node's
// children and leave after them. Returning false from enter skips the
// children, but leave is still called for that node. Either callback may be
// nil.
func Inspect(node Node, enter func(Node) bool, leave func(Node)) {
	if node == nil {
		return
	}
	descend := true
	if enter != nil {
		descend = enter(node)
	}
	if descend {
		for _, child := range Children(node) {
			Inspect(child, enter, leave)
		}
	}
	if leave != nil {
		leave(node)
	}
}
