// Package planner computes the structural edits that turn one tree into another.
//
// The planner is pure: it indexes both trees, walks the source tree once and
// classifies every node against the target index, producing an ActionBatch of
// MOVE, DELETE and CREATE actions. It never orders actions by dependency;
// that is the applier's job.
//
// Key responsibilities:
//   - Emit one MOVE per node whose parent changes
//   - Emit one DELETE per maximal deleted subtree (its topmost node only)
//   - Emit one CREATE per node that only exists in the target
//   - Serialize action batches to and from JSON
package planner
