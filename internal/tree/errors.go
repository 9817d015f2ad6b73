package tree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateID indicates an id appears more than once in a tree.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrEmptyID indicates a node without an id. The empty string is reserved for Root.
	ErrEmptyID = errors.New("empty id")

	// ErrCycle indicates a subtree that contains itself.
	ErrCycle = errors.New("cycle detected")

	// ErrInvalidDocument indicates a tree document that is not a nested mapping.
	ErrInvalidDocument = errors.New("invalid tree document")
)

// ValidationError reports where in a tree a malformed node was found.
type ValidationError struct {
	// ID is the offending node id
	ID string

	// Path is the chain of ancestor ids leading to the node (top-level first)
	Path []string

	Err error
}

func (e *ValidationError) Error() string {
	loc := "<root>"
	if len(e.Path) > 0 {
		loc = strings.Join(e.Path, "/")
	}
	return fmt.Sprintf("invalid tree: node %q under %s: %v", e.ID, loc, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// displayParent renders a parent id for error messages.
func displayParent(parent string) string {
	if parent == Root {
		return "<root>"
	}
	return fmt.Sprintf("%q", parent)
}
