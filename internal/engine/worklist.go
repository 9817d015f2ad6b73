package engine

import (
	"github.com/danieljhkim/treediff/internal/planner"
)

// worklist holds actions that cannot run yet.
type worklist struct {
	// waiting maps a missing parent id to the actions that need it, in arrival order
	waiting map[string][]planner.Action

	// stalled holds moves whose new parent is inside their own subtree
	stalled []planner.Action
}

func newWorklist() *worklist {
	return &worklist{waiting: make(map[string][]planner.Action)}
}

// wait queues a until parent exists.
func (w *worklist) wait(parent string, a planner.Action) {
	w.waiting[parent] = append(w.waiting[parent], a)
}

// release removes and returns the actions waiting for id.
func (w *worklist) release(id string) []planner.Action {
	actions := w.waiting[id]
	delete(w.waiting, id)
	return actions
}

func (w *worklist) stall(a planner.Action) {
	w.stalled = append(w.stalled, a)
}

// unstall removes and returns all stalled moves.
func (w *worklist) unstall() []planner.Action {
	actions := w.stalled
	w.stalled = nil
	return actions
}

// remaining returns every action still held, stalled moves last.
func (w *worklist) remaining() []planner.Action {
	var out []planner.Action
	for _, actions := range w.waiting {
		out = append(out, actions...)
	}
	return append(out, w.stalled...)
}

func (w *worklist) empty() bool {
	return len(w.waiting) == 0 && len(w.stalled) == 0
}
