package ast

// File is one parsed source file together with its parent index.
type File struct {
	Path   string
	Source []byte
	Root   Node

	parents map[Node]Node
}

// NewFile wraps a parsed tree and builds its parent index in a single pass.
// The index is the only place parent links exist; nodes never own them.
func NewFile(path string, src []byte, root Node) *File {
	f := &File{
		Path:    path,
		Source:  src,
		Root:    root,
		parents: make(map[Node]Node),
	}
	if root == nil {
		return f
	}
	var stack []Node
	Inspect(root, func(n Node) bool {
		if len(stack) > 0 {
			f.parents[n] = stack[len(stack)-1]
		}
		stack = append(stack, n)
		return true
	}, func(Node) {
		stack = stack[:len(stack)-1]
	})
	return f
}

// Parent returns the syntactic parent of n, or nil for the root and for
// nodes that are not part of this file.
func (f *File) Parent(n Node) Node {
	if f == nil {
		return nil
	}
	return f.parents[n]
}

// Text returns the source text covered by n.
func (f *File) Text(n Node) string {
	if f == nil || n == nil {
		return ""
	}
	start, end := n.Pos().Offset, n.End().Offset
	if start < 0 || end > len(f.Source) || start > end {
		return ""
	}
	return string(f.Source[start:end])
}

// IsCallee reports whether n is the callee of its parent call expression.
func (f *File) IsCallee(n Node) bool {
	call, ok := f.Parent(n).(*CallExpression)
	return ok && call.Callee == n
}

// NodeCount returns the number of indexed nodes, including the root.
func (f *File) NodeCount() int {
	if f == nil || f.Root == nil {
		return 0
	}
	return len(f.parents) + 1
}
