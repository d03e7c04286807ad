// Package hierarchy turns the flat set of inspectable elements into the
// navigable forest behind the tree panel and the keyboard traversal.
package hierarchy

import (
	"sourcelens/internal/element"
)

// Node wraps one inspectable element inside the forest.
type Node struct {
	// ID is stable for the element's lifetime; it derives from the element
	// registry's identity token, not from the node's position, so expansion
	// and selection survive reorders of the flat input.
	ID       string
	Element  element.Handle
	Source   element.Source
	Parent   *Node
	Children []*Node
	Depth    int
	Expanded bool
}

// Root reports whether the node has no parent.
func (n *Node) Root() bool { return n.Parent == nil }

// Leaf reports whether the node has no children.
func (n *Node) Leaf() bool { return len(n.Children) == 0 }

// Siblings returns the ordered sibling set the node belongs to: its parent's
// children, or the forest's roots for a root node.
func (n *Node) Siblings(t *Tree) []*Node {
	if n.Parent != nil {
		return n.Parent.Children
	}
	return t.Roots
}

// Tree is one built forest. Roots and all child slices are in rendered
// document order.
type Tree struct {
	Roots []*Node

	byID      map[string]*Node
	byElement map[string]*Node
	flat      []*Node // full depth-first order, ignoring expansion
}

// NodeByID returns the node with the given id.
func (t *Tree) NodeByID(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// NodeByElement returns the node wrapping the element with the given host id.
func (t *Tree) NodeByElement(elementID string) (*Node, bool) {
	n, ok := t.byElement[elementID]
	return n, ok
}

// Len returns the total node count.
func (t *Tree) Len() int { return len(t.flat) }

// Flat returns every node in full depth-first order, expansion ignored.
func (t *Tree) Flat() []*Node { return t.flat }

// First returns the first node in depth-first order, or nil for an empty
// forest.
func (t *Tree) First() *Node {
	if len(t.flat) == 0 {
		return nil
	}
	return t.flat[0]
}

// Last returns the last node in depth-first order, or nil.
func (t *Tree) Last() *Node {
	if len(t.flat) == 0 {
		return nil
	}
	return t.flat[len(t.flat)-1]
}

// Visible returns the expansion-aware flattening: a node appears iff every
// ancestor is expanded.
func (t *Tree) Visible() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		out = append(out, n)
		if !n.Expanded {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range t.Roots {
		walk(r)
	}
	return out
}

// ExpandPath expands every ancestor of n so the node is visible.
func (t *Tree) ExpandPath(n *Node) {
	for p := n.Parent; p != nil; p = p.Parent {
		p.Expanded = true
	}
}
