package tree

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"
)

// Index is a flat child-to-parent lookup derived from a Tree.
// Top-level ids map to Root. Iteration order is insertion order.
type Index struct {
	parents map[string]string
	order   []string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		parents: make(map[string]string),
		order:   []string{},
	}
}

// BuildIndex flattens t into an Index, mapping every id at any depth to its
// immediate parent. It fails with a *ValidationError if an id is empty,
// appears more than once, or if a subtree contains itself.
func BuildIndex(t Tree) (*Index, error) {
	idx := NewIndex()
	onPath := make(map[*Node]bool)

	var build func(parent string, nodes Tree, path []string) error
	build = func(parent string, nodes Tree, path []string) error {
		for _, n := range nodes {
			if n.ID == Root {
				return &ValidationError{ID: n.ID, Path: path, Err: ErrEmptyID}
			}
			if onPath[n] {
				return &ValidationError{ID: n.ID, Path: path, Err: ErrCycle}
			}
			if prev, exists := idx.parents[n.ID]; exists {
				return &ValidationError{
					ID:   n.ID,
					Path: path,
					Err:  fmt.Errorf("%w: already indexed under %s", ErrDuplicateID, displayParent(prev)),
				}
			}
			idx.Set(n.ID, parent)

			if n.IsLeaf() {
				continue
			}
			onPath[n] = true
			if err := build(n.ID, n.Children, append(slices.Clip(path), n.ID)); err != nil {
				return err
			}
			delete(onPath, n)
		}
		return nil
	}

	if err := build(Root, t, nil); err != nil {
		return nil, err
	}
	return idx, nil
}

// Parent returns the parent of id and whether id is present.
func (x *Index) Parent(id string) (string, bool) {
	parent, ok := x.parents[id]
	return parent, ok
}

// Has reports whether id is present.
func (x *Index) Has(id string) bool {
	_, ok := x.parents[id]
	return ok
}

// Len returns the number of ids in the index.
func (x *Index) Len() int {
	return len(x.parents)
}

// IDs returns the ids in insertion order.
func (x *Index) IDs() []string {
	return slices.Clone(x.order)
}

// Set records id -> parent. A new id is appended to the iteration order;
// an existing id keeps its position.
func (x *Index) Set(id, parent string) {
	if _, exists := x.parents[id]; !exists {
		x.order = append(x.order, id)
	}
	x.parents[id] = parent
}

// Delete removes id. Entries whose parent is id are left in place.
func (x *Index) Delete(id string) {
	if _, exists := x.parents[id]; !exists {
		return
	}
	delete(x.parents, id)
	if i := slices.Index(x.order, id); i >= 0 {
		x.order = slices.Delete(x.order, i, i+1)
	}
}

// Clone returns an independent copy.
func (x *Index) Clone() *Index {
	out := &Index{
		parents: make(map[string]string, len(x.parents)),
		order:   slices.Clone(x.order),
	}
	for id, parent := range x.parents {
		out.parents[id] = parent
	}
	return out
}

// Map returns a copy of the id -> parent mapping.
func (x *Index) Map() map[string]string {
	out := make(map[string]string, len(x.parents))
	for id, parent := range x.parents {
		out[id] = parent
	}
	return out
}

// Equal reports whether both indices hold the same id -> parent pairs,
// regardless of order.
func (x *Index) Equal(other *Index) bool {
	if x.Len() != other.Len() {
		return false
	}
	for id, parent := range x.parents {
		if p, ok := other.parents[id]; !ok || p != parent {
			return false
		}
	}
	return true
}

// Children returns the ids whose parent is id, in insertion order.
func (x *Index) Children(id string) []string {
	var out []string
	for _, child := range x.order {
		if x.parents[child] == id {
			out = append(out, child)
		}
	}
	return out
}

// Depth returns the number of ancestors of id (0 for top-level ids).
// It returns false if id is absent or its ancestor chain does not reach Root.
func (x *Index) Depth(id string) (int, bool) {
	parent, ok := x.parents[id]
	if !ok {
		return 0, false
	}
	depth := 0
	for parent != Root {
		depth++
		if depth > len(x.parents) {
			return 0, false
		}
		if parent, ok = x.parents[parent]; !ok {
			return 0, false
		}
	}
	return depth, true
}

// Prune removes every entry whose ancestor chain does not reach Root, such
// as descendants of a deleted node. It returns the removed ids in order.
func (x *Index) Prune() []string {
	children := make(map[string][]string)
	for _, id := range x.order {
		parent := x.parents[id]
		children[parent] = append(children[parent], id)
	}

	reachable := make(map[string]bool, len(x.parents))
	queue := slices.Clone(children[Root])
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if reachable[id] {
			continue
		}
		reachable[id] = true
		queue = append(queue, children[id]...)
	}

	var removed []string
	for _, id := range x.IDs() {
		if !reachable[id] {
			removed = append(removed, id)
			x.Delete(id)
		}
	}
	return removed
}

// MarshalJSON encodes the index as an object of id -> parent, with null for Root.
func (x *Index) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, len(x.parents))
	for id, parent := range x.parents {
		if parent == Root {
			out[id] = nil
			continue
		}
		p := parent
		out[id] = &p
	}
	return json.Marshal(out)
}

// MarshalYAML encodes the index as an ordered mapping of id -> parent.
func (x *Index) MarshalYAML() (interface{}, error) {
	out := make(yaml.MapSlice, 0, len(x.order))
	for _, id := range x.order {
		var parent interface{}
		if p := x.parents[id]; p != Root {
			parent = p
		}
		out = append(out, yaml.MapItem{Key: id, Value: parent})
	}
	return out, nil
}
