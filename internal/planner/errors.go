package planner

import "errors"

var (
	// ErrInconsistentIndex indicates a node below a deleted ancestor is still
	// placed under its old parent by the target index.
	ErrInconsistentIndex = errors.New("inconsistent index")

	// ErrInvalidAction indicates a malformed action in a serialized batch.
	ErrInvalidAction = errors.New("invalid action")
)
