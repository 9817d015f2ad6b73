// Package tree models labeled trees and their flattened child-to-parent indices.
//
// A Tree is an ordered, nested set of nodes whose ids are unique across the
// whole tree regardless of depth. BuildIndex flattens a Tree into an Index
// that maps every id to the id of its immediate parent, with Root standing in
// for the parent of top-level nodes.
//
// Key responsibilities:
//   - Validate global id uniqueness while indexing
//   - Preserve document order so traversals are deterministic
//   - Read and write trees as YAML/JSON documents where a leaf is the scalar 1
package tree
