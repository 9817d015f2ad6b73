// Package treetest provides tree fixtures shared by tests.
package treetest

import (
	"fmt"
	"math/rand"

	"github.com/danieljhkim/treediff/internal/tree"
)

// ScenarioFrom is the source tree of the reference scenario:
//
//	mov1:  {mov2, del1, stay1}
//	del2:  {mov3, del3}
//	stay2: {mov4, del4, stay4}
func ScenarioFrom() tree.Tree {
	return tree.Tree{
		tree.Branch("mov1", tree.Leaf("mov2"), tree.Leaf("del1"), tree.Leaf("stay1")),
		tree.Branch("del2", tree.Leaf("mov3"), tree.Leaf("del3")),
		tree.Branch("stay2", tree.Leaf("mov4"), tree.Leaf("del4"), tree.Leaf("stay4")),
	}
}

// ScenarioTo is the target tree of the reference scenario:
//
//	mov2:  {mov1: {stay1}}
//	mov3:  {cre3: {mov4}}
//	stay2: {stay4, cre2}
//	cre1
func ScenarioTo() tree.Tree {
	return tree.Tree{
		tree.Branch("mov2", tree.Branch("mov1", tree.Leaf("stay1"))),
		tree.Branch("mov3", tree.Branch("cre3", tree.Leaf("mov4"))),
		tree.Branch("stay2", tree.Leaf("stay4"), tree.Leaf("cre2")),
		tree.Leaf("cre1"),
	}
}

// Random builds a tree of n nodes named prefix0..prefix(n-1). Each node is
// attached under a uniformly chosen earlier node or at the top level.
func Random(r *rand.Rand, prefix string, n int) tree.Tree {
	idx := tree.NewIndex()
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		parent := tree.Root
		if pick := r.Intn(i + 1); pick < i {
			parent = fmt.Sprintf("%s%d", prefix, pick)
		}
		idx.Set(id, parent)
	}
	return tree.FromIndex(idx)
}

// Reshuffle returns a tree over a random subset of the ids of t plus
// extra fresh ids, with parents reassigned at random. The result is always
// well formed.
func Reshuffle(r *rand.Rand, t tree.Tree, keep float64, extra int) tree.Tree {
	src, err := tree.BuildIndex(t)
	if err != nil {
		panic(err)
	}

	var ids []string
	for _, id := range src.IDs() {
		if r.Float64() < keep {
			ids = append(ids, id)
		}
	}
	for i := 0; i < extra; i++ {
		ids = append(ids, fmt.Sprintf("new%d", i))
	}
	r.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	idx := tree.NewIndex()
	for i, id := range ids {
		parent := tree.Root
		if pick := r.Intn(i + 1); pick < i {
			parent = ids[pick]
		}
		idx.Set(id, parent)
	}
	return tree.FromIndex(idx)
}
