// Package hash fingerprints trees.
//
// A fingerprint is the hex SHA-256 of the length-prefixed id -> parent pairs
// of an index, sorted by id, so it depends on the shape of a tree but not on
// sibling order. Saved action batches carry the fingerprint of the source
// tree they were computed from so they are never replayed against a
// different tree.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/danieljhkim/treediff/internal/tree"
)

// Index returns the fingerprint of idx.
func Index(idx *tree.Index) string {
	ids := idx.IDs()
	sort.Strings(ids)

	hasher := sha256.New()
	for _, id := range ids {
		parent, _ := idx.Parent(id)
		// Ids may hold any byte, so every field is length prefixed.
		fmt.Fprintf(hasher, "%d:%s%d:%s", len(id), id, len(parent), parent)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// Tree indexes t and returns its fingerprint.
func Tree(t tree.Tree) (string, error) {
	idx, err := tree.BuildIndex(t)
	if err != nil {
		return "", fmt.Errorf("failed to index tree: %w", err)
	}
	return Index(idx), nil
}
