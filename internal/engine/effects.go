package engine

import (
	"context"

	"github.com/danieljhkim/treediff/internal/planner"
)

// Effects performs edits on the live tree. Each call blocks until the edit
// is complete; a non-nil error aborts the apply.
type Effects interface {
	// Move places id under newParent (tree.Root for the top level).
	Move(ctx context.Context, id, newParent string) error

	// Delete removes id, currently under parent, together with its subtree.
	Delete(ctx context.Context, id, parent string) error

	// Create adds id under parent.
	Create(ctx context.Context, id, parent string) error
}

// EffectFunc is the signature shared by all three effect operations.
type EffectFunc func(ctx context.Context, id, parent string) error

// EffectFuncs adapts plain functions to Effects. Nil functions are no-ops.
type EffectFuncs struct {
	MoveFunc   EffectFunc
	DeleteFunc EffectFunc
	CreateFunc EffectFunc
}

func (f EffectFuncs) Move(ctx context.Context, id, newParent string) error {
	return call(f.MoveFunc, ctx, id, newParent)
}

func (f EffectFuncs) Delete(ctx context.Context, id, parent string) error {
	return call(f.DeleteFunc, ctx, id, parent)
}

func (f EffectFuncs) Create(ctx context.Context, id, parent string) error {
	return call(f.CreateFunc, ctx, id, parent)
}

func call(fn EffectFunc, ctx context.Context, id, parent string) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, id, parent)
}

// Recorder is an Effects that only records the edits it receives, in order.
// It is used for dry runs.
type Recorder struct {
	Actions []planner.Action
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Actions: []planner.Action{}}
}

func (r *Recorder) Move(_ context.Context, id, newParent string) error {
	r.Actions = append(r.Actions, planner.Action{Type: planner.ActionMove, ID: id, Parent: newParent})
	return nil
}

func (r *Recorder) Delete(_ context.Context, id, parent string) error {
	r.Actions = append(r.Actions, planner.Action{Type: planner.ActionDelete, ID: id, Parent: parent})
	return nil
}

func (r *Recorder) Create(_ context.Context, id, parent string) error {
	r.Actions = append(r.Actions, planner.Action{Type: planner.ActionCreate, ID: id, Parent: parent})
	return nil
}

var (
	_ Effects = EffectFuncs{}
	_ Effects = (*Recorder)(nil)
)
