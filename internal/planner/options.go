package planner

import (
	"log/slog"

	"github.com/danieljhkim/treediff/internal/logger"
)

// InconsistentPolicy decides what happens when a node below a deleted
// ancestor is still placed under its old parent by the target index.
// Indices built from well-formed trees never reach this state.
type InconsistentPolicy int

const (
	// PolicyError aborts the diff with ErrInconsistentIndex.
	PolicyError InconsistentPolicy = iota

	// PolicySkip treats the node as part of the deleted subtree and emits nothing for it.
	PolicySkip
)

// String returns the policy name.
func (p InconsistentPolicy) String() string {
	switch p {
	case PolicyError:
		return "error"
	case PolicySkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Option configures a diff.
type Option func(*options)

type options struct {
	policy InconsistentPolicy
	log    *slog.Logger
}

// WithInconsistentPolicy sets the policy for inconsistent indices. Default: PolicyError.
func WithInconsistentPolicy(p InconsistentPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithLogger sets the logger. Default: logger.L.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		policy: PolicyError,
		log:    logger.L,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
