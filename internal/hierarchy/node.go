package hierarchy

import "strings"

// Kind tells a renderer what a Node stands for.
type Kind int

const (
	KindRoot Kind = iota
	KindGroup
	KindProject
	KindDepthMarker
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindGroup:
		return "group"
	case KindProject:
		return "project"
	case KindDepthMarker:
		return "depth-marker"
	case KindError:
		return "error"
	}
	return "unknown"
}

// Node is one labeled entry of a hierarchy tree. Children keep the order in
// which they were attached.
type Node struct {
	Label    string
	Kind     Kind
	ID       int
	Inactive bool
	Children []*Node
}

func (n *Node) add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Visit calls fn for n and every descendant, depth first, with the number of
// edges between the node and n.
func (n *Node) Visit(fn func(node *Node, depth int)) {
	n.visit(fn, 0)
}

func (n *Node) visit(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.visit(fn, depth+1)
	}
}

// Find returns the first node, depth first, whose label starts with prefix.
func (n *Node) Find(prefix string) *Node {
	var found *Node
	n.Visit(func(node *Node, _ int) {
		if found == nil && strings.HasPrefix(node.Label, prefix) {
			found = node
		}
	})
	return found
}

// Labels returns the labels of the direct children of n.
func (n *Node) Labels() []string {
	labels := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		labels = append(labels, c.Label)
	}
	return labels
}

// Count returns how many nodes of kind k the tree holds.
func (n *Node) Count(k Kind) int {
	count := 0
	n.Visit(func(node *Node, _ int) {
		if node.Kind == k {
			count++
		}
	})
	return count
}
