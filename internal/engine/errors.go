package engine

import (
	"errors"
	"fmt"

	"github.com/danieljhkim/treediff/internal/planner"
)

var (
	// ErrEffect indicates an effect operation failed.
	ErrEffect = errors.New("effect failed")

	// ErrUnresolvedDependency indicates actions whose parent never materialized.
	ErrUnresolvedDependency = errors.New("unresolved dependency")

	// ErrSourceMismatch indicates a batch computed for a different source tree.
	ErrSourceMismatch = errors.New("batch does not match source tree")
)

// ActionError reports the action that aborted an apply.
type ActionError struct {
	Action planner.Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("failed to apply %s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
