package tree

// Root is the parent id recorded for top-level nodes.
const Root = ""

// Node is a single labeled node. A nil Children slice marks a leaf; a non-nil
// (possibly empty) slice marks a subtree.
type Node struct {
	ID       string
	Children Tree
}

// Tree is an ordered list of top-level nodes.
type Tree []*Node

// Leaf returns a leaf node.
func Leaf(id string) *Node {
	return &Node{ID: id}
}

// Branch returns a subtree node holding the given children in order.
func Branch(id string, children ...*Node) *Node {
	if children == nil {
		children = Tree{}
	}
	return &Node{ID: id, Children: children}
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

// WalkFunc is called for every node in depth-first order with the id of its parent.
type WalkFunc func(n *Node, parent string) error

// Walk visits every node of t depth-first, parents before children, in
// document order. It stops at the first error returned by fn.
// Walk does not guard against cycles; use BuildIndex to validate first.
func Walk(t Tree, fn WalkFunc) error {
	return walk(t, Root, fn)
}

func walk(t Tree, parent string, fn WalkFunc) error {
	for _, n := range t {
		if err := fn(n, parent); err != nil {
			return err
		}
		if !n.IsLeaf() {
			if err := walk(n.Children, n.ID, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// FromIndex rebuilds a nested tree from an index. Nodes that have children
// become subtrees and all others leaves; entries that are not reachable from
// Root are dropped. Sibling order follows the index insertion order.
func FromIndex(idx *Index) Tree {
	children := make(map[string][]string)
	for _, id := range idx.order {
		parent := idx.parents[id]
		children[parent] = append(children[parent], id)
	}

	var build func(parent string) Tree
	build = func(parent string) Tree {
		ids := children[parent]
		t := make(Tree, 0, len(ids))
		for _, id := range ids {
			n := &Node{ID: id}
			if len(children[id]) > 0 {
				n.Children = build(id)
			}
			t = append(t, n)
		}
		return t
	}
	return build(Root)
}
