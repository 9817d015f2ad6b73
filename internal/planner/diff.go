package planner

import (
	"fmt"

	"github.com/danieljhkim/treediff/internal/hash"
	"github.com/danieljhkim/treediff/internal/tree"
)

// status is the classification inherited from a node's parent during the walk.
type status int

const (
	statusStay status = iota
	statusMoved
	statusDeleting
)

// ComputeMinimalActions returns the actions that transform from into to.
// Both trees are indexed first, so malformed trees fail with a
// *tree.ValidationError.
func ComputeMinimalActions(from, to tree.Tree, opts ...Option) (*ActionBatch, error) {
	fromIdx, err := tree.BuildIndex(from)
	if err != nil {
		return nil, fmt.Errorf("failed to index source tree: %w", err)
	}
	toIdx, err := tree.BuildIndex(to)
	if err != nil {
		return nil, fmt.Errorf("failed to index target tree: %w", err)
	}
	return DiffIndexes(from, fromIdx, toIdx, opts...)
}

// DiffIndexes walks from depth-first and classifies every node against
// fromIdx and toIdx, then emits a CREATE for every id of toIdx missing from
// fromIdx. fromIdx is expected to be the index of from.
func DiffIndexes(from tree.Tree, fromIdx, toIdx *tree.Index, opts ...Option) (*ActionBatch, error) {
	o := newOptions(opts)
	d := &differ{
		fromIdx: fromIdx,
		toIdx:   toIdx,
		policy:  o.policy,
		batch:   NewActionBatch(),
	}

	if err := d.walk(from, statusStay); err != nil {
		return nil, err
	}
	d.collectCreates()
	d.batch.Source = hash.Index(fromIdx)

	o.log.Debug("computed actions",
		"moves", len(d.batch.Moves),
		"creates", len(d.batch.Creates),
		"deletions", len(d.batch.Deletions),
	)
	return d.batch, nil
}

type differ struct {
	fromIdx *tree.Index
	toIdx   *tree.Index
	policy  InconsistentPolicy
	batch   *ActionBatch
}

func (d *differ) walk(nodes tree.Tree, inherited status) error {
	for _, n := range nodes {
		next, err := d.classify(n.ID, inherited)
		if err != nil {
			return err
		}
		if n.IsLeaf() {
			continue
		}
		if err := d.walk(n.Children, next); err != nil {
			return err
		}
	}
	return nil
}

// classify emits the action for id, if any, and returns the status its
// children inherit.
func (d *differ) classify(id string, inherited status) (status, error) {
	fromParent, inFrom := d.fromIdx.Parent(id)
	toParent, inTo := d.toIdx.Parent(id)

	switch {
	case inFrom && !inTo:
		// Only the topmost node of a deleted subtree is reported.
		if inherited != statusDeleting {
			d.batch.AddDelete(id, fromParent)
		}
		return statusDeleting, nil

	case inFrom && inTo && fromParent != toParent:
		d.batch.AddMove(id, toParent)
		return statusMoved, nil

	case inherited == statusDeleting:
		if d.policy == PolicySkip {
			return statusDeleting, nil
		}
		return statusDeleting, fmt.Errorf("%w: %q is kept under %s while an ancestor is deleted",
			ErrInconsistentIndex, id, displayParent(toParent))

	default:
		return statusStay, nil
	}
}

func (d *differ) collectCreates() {
	for _, id := range d.toIdx.IDs() {
		if d.fromIdx.Has(id) {
			continue
		}
		parent, _ := d.toIdx.Parent(id)
		d.batch.AddCreate(id, parent)
	}
}
