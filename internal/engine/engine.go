// Package engine applies planned action batches to a live tree.
//
// The engine is the effectful half of treediff. It replays an ActionBatch
// against a private working index derived from the source tree and performs
// every edit through an injected Effects implementation, so the same engine
// drives an in-memory recorder, a directory hierarchy or any other backend.
//
// Key components:
//   - Engine: holds the effects and options, runs Apply
//   - worklist: actions waiting for their parent to materialize
//   - Report: counters and timings of a single apply
package engine

import (
	"log/slog"

	"github.com/danieljhkim/treediff/internal/clock"
	"github.com/danieljhkim/treediff/internal/logger"
)

// Engine applies action batches through its Effects.
// An Engine keeps no state between calls; callers must serialize calls that
// touch the same live tree.
type Engine struct {
	effects   Effects
	log       *slog.Logger
	clock     clock.Clock
	cycleSafe bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: logger.L.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithClock sets the clock used for report timestamps.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithCycleSafeMoves makes the engine hold back a MOVE whose new parent
// currently sits inside the moving node's own subtree until that is no
// longer the case. Backends that cannot place a node under its own
// descendant, such as filesystems, need this.
func WithCycleSafeMoves() Option {
	return func(e *Engine) {
		e.cycleSafe = true
	}
}

// New creates a new Engine performing edits through effects.
func New(effects Effects, opts ...Option) *Engine {
	e := &Engine{
		effects: effects,
		log:     logger.L,
		clock:   &clock.RealClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
