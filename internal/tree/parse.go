package tree

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// LeafValue is the scalar written for leaves when marshalling a tree.
const LeafValue = 1

// Parse decodes a YAML or JSON document into a Tree. Mappings become
// subtrees and any scalar (conventionally 1) or null becomes a leaf.
// Key order is preserved. An empty document yields an empty tree.
func Parse(data []byte) (Tree, error) {
	var doc interface{}
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc == nil {
		return Tree{}, nil
	}

	m, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be a mapping, got %T", ErrInvalidDocument, doc)
	}
	return fromMapSlice(m, nil)
}

func fromMapSlice(m yaml.MapSlice, path []string) (Tree, error) {
	t := make(Tree, 0, len(m))
	for _, item := range m {
		id := fmt.Sprint(item.Key)
		n := &Node{ID: id}

		switch v := item.Value.(type) {
		case yaml.MapSlice:
			children, err := fromMapSlice(v, append(path, id))
			if err != nil {
				return nil, err
			}
			n.Children = children
		case []interface{}:
			return nil, &ValidationError{
				ID:   id,
				Path: path,
				Err:  fmt.Errorf("%w: sequences are not allowed", ErrInvalidDocument),
			}
		}
		t = append(t, n)
	}
	return t, nil
}

// Marshal encodes t as a YAML document. Leaves are written as LeafValue
// and empty subtrees as {}.
func Marshal(t Tree) ([]byte, error) {
	data, err := yaml.Marshal(toMapSlice(t))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tree: %w", err)
	}
	return data, nil
}

func toMapSlice(t Tree) yaml.MapSlice {
	out := make(yaml.MapSlice, 0, len(t))
	for _, n := range t {
		var v interface{} = LeafValue
		if !n.IsLeaf() {
			v = toMapSlice(n.Children)
		}
		out = append(out, yaml.MapItem{Key: n.ID, Value: v})
	}
	return out
}

// ParseIndex decodes a YAML or JSON mapping of id -> parent, as written by
// Index.MarshalJSON, into an Index. A null parent is Root. Parents need not
// be present in the index, which lets callers describe targets that are
// not well-formed trees. Key order is preserved.
func ParseIndex(data []byte) (*Index, error) {
	var doc interface{}
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	idx := NewIndex()
	if doc == nil {
		return idx, nil
	}
	m, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: index must be a mapping, got %T", ErrInvalidDocument, doc)
	}

	for _, item := range m {
		id := fmt.Sprint(item.Key)
		if id == Root {
			return nil, &ValidationError{ID: id, Err: ErrEmptyID}
		}

		var parent string
		switch v := item.Value.(type) {
		case nil:
			parent = Root
		case yaml.MapSlice, []interface{}:
			return nil, &ValidationError{
				ID:  id,
				Err: fmt.Errorf("%w: parent must be an id or null", ErrInvalidDocument),
			}
		default:
			parent = fmt.Sprint(v)
		}
		if parent == id {
			return nil, &ValidationError{ID: id, Err: fmt.Errorf("%w: node is its own parent", ErrCycle)}
		}
		idx.Set(id, parent)
	}
	return idx, nil
}
