package planner

import (
	"encoding/json"
	"fmt"

	"github.com/danieljhkim/treediff/internal/tree"
)

// ActionType is the kind of structural edit.
type ActionType string

// Action type constants
const (
	ActionMove   ActionType = "MOVE"
	ActionDelete ActionType = "DELETE"
	ActionCreate ActionType = "CREATE"
)

// Action is a single structural edit.
type Action struct {
	// Type is one of ActionMove, ActionDelete, ActionCreate
	Type ActionType

	// ID is the node the action applies to
	ID string

	// Parent is the new parent for MOVE and CREATE, and the source parent
	// for DELETE. tree.Root for top-level positions.
	Parent string
}

// String renders the action for humans, e.g. "MOVE mov1 -> mov2".
func (a Action) String() string {
	if a.Type == ActionDelete {
		return fmt.Sprintf("%s %s", a.Type, a.ID)
	}
	return fmt.Sprintf("%s %s -> %s", a.Type, a.ID, displayParent(a.Parent))
}

// wireAction is the JSON shape of an Action. Root parents are encoded as null.
type wireAction struct {
	Action ActionType `json:"action"`
	ID     string     `json:"id"`
	Parent *string    `json:"parent"`
}

// MarshalJSON implements json.Marshaler.
func (a Action) MarshalJSON() ([]byte, error) {
	w := wireAction{Action: a.Type, ID: a.ID}
	if a.Parent != tree.Root {
		p := a.Parent
		w.Parent = &p
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Action) UnmarshalJSON(data []byte) error {
	var w wireAction
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	a.Type = w.Action
	a.ID = w.ID
	a.Parent = tree.Root
	if w.Parent != nil {
		a.Parent = *w.Parent
	}
	return nil
}

// ActionBatch holds the actions that transform one tree into another.
// Each sequence is in traversal order and is not dependency ordered.
type ActionBatch struct {
	// Source is the fingerprint of the tree the batch was computed from.
	// Empty for hand-built batches.
	Source string `json:"source,omitempty"`

	// Moves relocate nodes present in both trees
	Moves []Action `json:"moves"`

	// Creates add nodes only present in the target
	Creates []Action `json:"creates"`

	// Deletions remove the topmost node of each deleted subtree
	Deletions []Action `json:"deletions"`
}

// Summary counts the actions of a batch.
type Summary struct {
	Moves     int `json:"moves"`
	Creates   int `json:"creates"`
	Deletions int `json:"deletions"`
}

// NewActionBatch creates a new empty ActionBatch.
func NewActionBatch() *ActionBatch {
	return &ActionBatch{
		Moves:     []Action{},
		Creates:   []Action{},
		Deletions: []Action{},
	}
}

// AddMove appends a MOVE of id under newParent.
func (b *ActionBatch) AddMove(id, newParent string) {
	b.Moves = append(b.Moves, Action{Type: ActionMove, ID: id, Parent: newParent})
}

// AddCreate appends a CREATE of id under parent.
func (b *ActionBatch) AddCreate(id, parent string) {
	b.Creates = append(b.Creates, Action{Type: ActionCreate, ID: id, Parent: parent})
}

// AddDelete appends a DELETE of id, currently under parent.
func (b *ActionBatch) AddDelete(id, parent string) {
	b.Deletions = append(b.Deletions, Action{Type: ActionDelete, ID: id, Parent: parent})
}

// IsEmpty returns true if the batch holds no actions.
func (b *ActionBatch) IsEmpty() bool {
	return b.Len() == 0
}

// Len returns the total number of actions.
func (b *ActionBatch) Len() int {
	return len(b.Moves) + len(b.Creates) + len(b.Deletions)
}

// All returns moves, then creates, then deletions.
func (b *ActionBatch) All() []Action {
	all := make([]Action, 0, b.Len())
	all = append(all, b.Moves...)
	all = append(all, b.Creates...)
	return append(all, b.Deletions...)
}

// Summary returns per-type action counts.
func (b *ActionBatch) Summary() Summary {
	return Summary{
		Moves:     len(b.Moves),
		Creates:   len(b.Creates),
		Deletions: len(b.Deletions),
	}
}

// MarshalBatch encodes a batch as indented JSON.
func MarshalBatch(b *ActionBatch) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal action batch: %w", err)
	}
	return data, nil
}

// ParseBatch decodes a JSON action batch and checks that every action has
// an id and sits in the list matching its type.
func ParseBatch(data []byte) (*ActionBatch, error) {
	batch := NewActionBatch()
	if err := json.Unmarshal(data, batch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}

	lists := []struct {
		name    string
		want    ActionType
		actions []Action
	}{
		{"moves", ActionMove, batch.Moves},
		{"creates", ActionCreate, batch.Creates},
		{"deletions", ActionDelete, batch.Deletions},
	}
	for _, list := range lists {
		for i, a := range list.actions {
			if a.Type != list.want {
				return nil, fmt.Errorf("%w: %s[%d]: expected %s, got %q", ErrInvalidAction, list.name, i, list.want, a.Type)
			}
			if a.ID == "" {
				return nil, fmt.Errorf("%w: %s[%d]: empty id", ErrInvalidAction, list.name, i)
			}
			if a.ID == a.Parent {
				return nil, fmt.Errorf("%w: %s[%d]: %q cannot be its own parent", ErrInvalidAction, list.name, i, a.ID)
			}
		}
	}

	// "null" lists decode to nil
	if batch.Moves == nil {
		batch.Moves = []Action{}
	}
	if batch.Creates == nil {
		batch.Creates = []Action{}
	}
	if batch.Deletions == nil {
		batch.Deletions = []Action{}
	}
	return batch, nil
}

func displayParent(parent string) string {
	if parent == tree.Root {
		return "<root>"
	}
	return parent
}
