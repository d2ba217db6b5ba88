package syntax

// Node is an immutable syntax node. Offsets are byte offsets into the
// source of the File it belongs to.
type Node struct {
	Kind     string
	Named    bool
	Start    int
	End      int
	Parent   *Node
	Children []*Node

	fields map[string]*Node
	index  int
}

// Field returns the child recorded under a grammar field name, or nil.
func (n *Node) Field(name string) *Node {
	if n == nil {
		return nil
	}

	return n.fields[name]
}

// Is reports whether the node has one of the given kinds.
func (n *Node) Is(kinds ...string) bool {
	if n == nil {
		return false
	}

	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}

	return false
}

// Len returns the byte length of the node.
func (n *Node) Len() int {
	return n.End - n.Start
}

// NamedChildren returns the named children, comments included.
func (n *Node) NamedChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))

	for _, c := range n.Children {
		if c.Named {
			out = append(out, c)
		}
	}

	return out
}

// FirstNamedChild returns the first named child that is not a comment.
func (n *Node) FirstNamedChild() *Node {
	if n == nil {
		return nil
	}

	for _, c := range n.Children {
		if c.Named && c.Kind != KindComment {
			return c
		}
	}

	return nil
}

// ChildOfKind returns the first direct child of the given kind.
func (n *Node) ChildOfKind(kind string) *Node {
	if n == nil {
		return nil
	}

	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}

	return nil
}

// NextSibling returns the following child of the parent, or nil.
func (n *Node) NextSibling() *Node {
	if n == nil || n.Parent == nil || n.index+1 >= len(n.Parent.Children) {
		return nil
	}

	return n.Parent.Children[n.index+1]
}

// PrevSibling returns the preceding child of the parent, or nil.
func (n *Node) PrevSibling() *Node {
	if n == nil || n.Parent == nil || n.index == 0 {
		return nil
	}

	return n.Parent.Children[n.index-1]
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range n.Children {
		c.Walk(fn)
	}
}
