package yax

// Node is one tagged element of a Document.
//
// In the canonical form produced by Decode a node has either a value or children. A node
// carrying both is preserved by the binary codec but not guaranteed through the text
// bridge.
type Node struct {
	Tag      uint32
	Value    Value
	Children []Node
}

// Document is an ordered tree of nodes. A nil Root is an empty document.
type Document struct {
	Root *Node
}

// NewDocument wraps root in a Document.
func NewDocument(root Node) *Document {
	return &Document{Root: &root}
}

// NodeCount returns the number of nodes in the document.
func (d *Document) NodeCount() int {
	if d == nil || d.Root == nil {
		return 0
	}

	return d.Root.count()
}

func (n *Node) count() int {
	total := 1
	for i := range n.Children {
		total += n.Children[i].count()
	}

	return total
}

// Walk visits nodes in pre-order with their depth (the root is depth 0). Returning
// false from fn stops the walk.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	if d == nil || d.Root == nil {
		return
	}

	d.Root.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(*Node, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].walk(depth+1, fn) {
			return false
		}
	}

	return true
}

// Equal reports whether two documents have the same shape, tags and values.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d.NodeCount() == 0 && o.NodeCount() == 0
	}
	if d.Root == nil || o.Root == nil {
		return d.Root == nil && o.Root == nil
	}

	return d.Root.Equal(o.Root)
}

// Equal reports whether two subtrees are identical.
func (n *Node) Equal(o *Node) bool {
	if n.Tag != o.Tag || !n.Value.Equal(o.Value) || len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(&o.Children[i]) {
			return false
		}
	}

	return true
}

// Leaf builds a node holding a value.
func Leaf(tag uint32, v Value) Node {
	return Node{Tag: tag, Value: v}
}

// Branch builds a node holding children.
func Branch(tag uint32, children ...Node) Node {
	if len(children) == 0 {
		return Node{Tag: tag}
	}

	return Node{Tag: tag, Children: children}
}
