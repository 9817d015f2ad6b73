package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/danieljhkim/treediff/internal/hash"
	"github.com/danieljhkim/treediff/internal/planner"
	"github.com/danieljhkim/treediff/internal/tree"
)

// Report summarizes a successful apply.
type Report struct {
	// Index is the working index after all actions were applied
	Index *tree.Index `json:"index"`

	Moved   int `json:"moved"`
	Created int `json:"created"`
	Deleted int `json:"deleted"`

	// Deferred counts how many times an action was held back
	Deferred int `json:"deferred"`

	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// Duration returns how long the apply took.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Apply replays batch against the live tree whose current shape is from and
// returns the resulting working index.
//
// Algorithm steps:
// 1. Index from into a private working index and, if the batch carries a
// source fingerprint, check that it matches
// 2. Run moves, then creates, in order. An action whose parent is not in the
// working index waits until that parent is moved or created, then runs in
// arrival order
// 3. Fail if any action is still waiting
// 4. Run deletions in order
//
// The first failing effect aborts the apply. Effects that already ran are
// not undone and held actions are dropped.
func (e *Engine) Apply(ctx context.Context, from tree.Tree, batch *planner.ActionBatch) (*tree.Index, error) {
	report, err := e.ApplyWithReport(ctx, from, batch)
	if err != nil {
		return nil, err
	}
	return report.Index, nil
}

// ApplyWithReport is Apply returning counters and timings alongside the index.
func (e *Engine) ApplyWithReport(ctx context.Context, from tree.Tree, batch *planner.ActionBatch) (*Report, error) {
	working, err := tree.BuildIndex(from)
	if err != nil {
		return nil, fmt.Errorf("failed to index source tree: %w", err)
	}
	if batch.Source != "" {
		if got := hash.Index(working); got != batch.Source {
			return nil, fmt.Errorf("%w: computed for %.12s, applying to %.12s", ErrSourceMismatch, batch.Source, got)
		}
	}

	r := &run{
		engine:  e,
		working: working,
		held:    newWorklist(),
		pending: make(map[string]bool, len(batch.Moves)),
		report:  &Report{Index: working, Started: e.clock.Now()},
	}
	for _, a := range batch.Moves {
		r.pending[a.ID] = true
	}

	for _, a := range batch.Moves {
		if err := r.apply(ctx, a); err != nil {
			return nil, err
		}
	}
	for _, a := range batch.Creates {
		if err := r.apply(ctx, a); err != nil {
			return nil, err
		}
	}

	if !r.held.empty() {
		return nil, unresolved(r.held.remaining())
	}

	for _, a := range batch.Deletions {
		if err := r.delete(ctx, a); err != nil {
			return nil, err
		}
	}

	r.report.Finished = e.clock.Now()
	e.log.Info("applied actions",
		"moved", r.report.Moved,
		"created", r.report.Created,
		"deleted", r.report.Deleted,
		"deferred", r.report.Deferred,
	)
	return r.report, nil
}

// run is the state of a single apply.
type run struct {
	engine  *Engine
	working *tree.Index
	held    *worklist

	// pending holds ids whose MOVE has not run yet
	pending map[string]bool

	report *Report
}

// apply runs a move or create and then everything that was waiting on it,
// depth first, using an explicit stack.
func (r *run) apply(ctx context.Context, first planner.Action) error {
	stack := []planner.Action{first}

	for len(stack) > 0 {
		a := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if a.Type != planner.ActionMove && a.Type != planner.ActionCreate {
			return &ActionError{
				Action: a,
				Err:    fmt.Errorf("%w: %s is not allowed among moves and creates", planner.ErrInvalidAction, a.Type),
			}
		}

		if a.Parent != tree.Root && !r.working.Has(a.Parent) {
			r.held.wait(a.Parent, a)
			r.report.Deferred++
			r.engine.log.Debug("deferred action", "action", string(a.Type), "id", a.ID, "waiting_for", a.Parent)
			continue
		}

		if r.engine.cycleSafe && a.Type == planner.ActionMove {
			blocked, err := r.insideOwnSubtree(a)
			if err != nil {
				return err
			}
			if blocked {
				r.held.stall(a)
				r.report.Deferred++
				r.engine.log.Debug("stalled move", "id", a.ID, "parent", a.Parent)
				continue
			}
		}

		if err := r.invoke(ctx, a); err != nil {
			return err
		}
		r.working.Set(a.ID, a.Parent)

		next := r.held.release(a.ID)
		if a.Type == planner.ActionMove {
			delete(r.pending, a.ID)
			r.report.Moved++
			if r.engine.cycleSafe {
				next = append(next, r.held.unstall()...)
			}
		} else {
			r.report.Created++
		}

		// Reverse so that next[0] is popped first.
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}
	return nil
}

// insideOwnSubtree reports whether the new parent of a currently lies in
// the subtree of a.ID. It fails when no node between them still has a move
// pending, since the move could then never become safe.
func (r *run) insideOwnSubtree(a planner.Action) (bool, error) {
	var between []string
	for p := a.Parent; p != tree.Root; {
		if p == a.ID {
			for _, id := range between {
				if r.pending[id] {
					return true, nil
				}
			}
			return false, &ActionError{
				Action: a,
				Err:    fmt.Errorf("%w: %q would become its own ancestor", ErrUnresolvedDependency, a.ID),
			}
		}
		between = append(between, p)
		if len(between) > r.working.Len() {
			break
		}

		parent, ok := r.working.Parent(p)
		if !ok {
			break
		}
		p = parent
	}
	return false, nil
}

func (r *run) delete(ctx context.Context, a planner.Action) error {
	if a.Type != planner.ActionDelete {
		return &ActionError{
			Action: a,
			Err:    fmt.Errorf("%w: %s is not allowed among deletions", planner.ErrInvalidAction, a.Type),
		}
	}

	if parent, ok := r.working.Parent(a.ID); ok {
		a.Parent = parent
	}
	if err := r.invoke(ctx, a); err != nil {
		return err
	}
	r.working.Delete(a.ID)
	r.report.Deleted++
	return nil
}

// invoke runs the effect for a and waits for it to finish.
func (r *run) invoke(ctx context.Context, a planner.Action) error {
	if err := ctx.Err(); err != nil {
		return &ActionError{Action: a, Err: err}
	}

	var err error
	switch a.Type {
	case planner.ActionMove:
		err = r.engine.effects.Move(ctx, a.ID, a.Parent)
	case planner.ActionCreate:
		err = r.engine.effects.Create(ctx, a.ID, a.Parent)
	case planner.ActionDelete:
		err = r.engine.effects.Delete(ctx, a.ID, a.Parent)
	}
	if err != nil {
		return &ActionError{Action: a, Err: fmt.Errorf("%w: %w", ErrEffect, err)}
	}

	r.engine.log.Debug("applied action", "action", string(a.Type), "id", a.ID, "parent", a.Parent)
	return nil
}

func unresolved(held []planner.Action) error {
	sort.SliceStable(held, func(i, j int) bool {
		return held[i].ID < held[j].ID
	})
	descs := make([]string, len(held))
	for i, a := range held {
		descs[i] = a.String()
	}
	return fmt.Errorf("%w: %d actions never became ready: %s",
		ErrUnresolvedDependency, len(held), strings.Join(descs, ", "))
}
