package tree

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndex_Nested(t *testing.T) {
	tr := Tree{
		Branch("a",
			Leaf("b"),
			Branch("c", Leaf("d")),
		),
		Leaf("e"),
	}

	idx, err := BuildIndex(tr)
	require.NoError(t, err)

	want := map[string]string{
		"a": Root,
		"b": "a",
		"c": "a",
		"d": "c",
		"e": Root,
	}
	if diff := cmp.Diff(want, idx.Map()); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, idx.IDs())
}

func TestBuildIndex_Empty(t *testing.T) {
	idx, err := BuildIndex(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestBuildIndex_EmptySubtree(t *testing.T) {
	idx, err := BuildIndex(Tree{Branch("a")})
	require.NoError(t, err)

	parent, ok := idx.Parent("a")
	require.True(t, ok)
	assert.Equal(t, Root, parent)
	assert.Equal(t, 1, idx.Len())
}

func TestBuildIndex_Invalid(t *testing.T) {
	self := Branch("loop")
	self.Children = append(self.Children, self)

	tests := []struct {
		name     string
		tree     Tree
		wantErr  error
		wantID   string
		wantPath []string
	}{
		{
			name:     "duplicate across branches",
			tree:     Tree{Branch("a", Leaf("x")), Branch("b", Leaf("x"))},
			wantErr:  ErrDuplicateID,
			wantID:   "x",
			wantPath: []string{"b"},
		},
		{
			name:     "duplicate of ancestor",
			tree:     Tree{Branch("a", Branch("b", Leaf("a")))},
			wantErr:  ErrDuplicateID,
			wantID:   "a",
			wantPath: []string{"a", "b"},
		},
		{
			name:    "empty id",
			tree:    Tree{Leaf("")},
			wantErr: ErrEmptyID,
		},
		{
			name:     "self containing subtree",
			tree:     Tree{self},
			wantErr:  ErrCycle,
			wantID:   "loop",
			wantPath: []string{"loop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := BuildIndex(tt.tree)
			require.Error(t, err)
			assert.Nil(t, idx)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantID, verr.ID)
			assert.Equal(t, tt.wantPath, verr.Path)
		})
	}
}

func TestBuildIndex_DuplicateMessageNamesFirstParent(t *testing.T) {
	_, err := BuildIndex(Tree{Branch("a", Leaf("x")), Leaf("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `already indexed under "a"`)
}

func TestIndex_SetDelete(t *testing.T) {
	idx := NewIndex()
	idx.Set("a", Root)
	idx.Set("b", "a")
	idx.Set("c", "a")

	idx.Set("b", Root)
	assert.Equal(t, []string{"a", "b", "c"}, idx.IDs(), "re-setting keeps position")

	idx.Delete("a")
	assert.False(t, idx.Has("a"))
	assert.Equal(t, []string{"b", "c"}, idx.IDs())

	parent, ok := idx.Parent("c")
	require.True(t, ok)
	assert.Equal(t, "a", parent, "delete does not touch children")

	idx.Delete("missing")
	assert.Equal(t, 2, idx.Len())
}

func TestIndex_CloneIsIndependent(t *testing.T) {
	idx := NewIndex()
	idx.Set("a", Root)

	clone := idx.Clone()
	clone.Set("b", "a")
	clone.Delete("a")

	assert.True(t, idx.Has("a"))
	assert.False(t, idx.Has("b"))
}

func TestIndex_Equal(t *testing.T) {
	a := NewIndex()
	a.Set("x", Root)
	a.Set("y", "x")

	b := NewIndex()
	b.Set("y", "x")
	b.Set("x", Root)
	assert.True(t, a.Equal(b), "order does not matter")

	b.Set("y", Root)
	assert.False(t, a.Equal(b))

	b.Set("y", "x")
	b.Set("z", Root)
	assert.False(t, a.Equal(b))
}

func TestIndex_Children(t *testing.T) {
	idx, err := BuildIndex(Tree{Branch("a", Leaf("b"), Leaf("c")), Leaf("d")})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c"}, idx.Children("a"))
	assert.Equal(t, []string{"a", "d"}, idx.Children(Root))
	assert.Empty(t, idx.Children("b"))
}

func TestIndex_Depth(t *testing.T) {
	idx, err := BuildIndex(Tree{Branch("a", Branch("b", Leaf("c")))})
	require.NoError(t, err)

	tests := []struct {
		id        string
		wantDepth int
		wantOK    bool
	}{
		{"a", 0, true},
		{"b", 1, true},
		{"c", 2, true},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			depth, ok := idx.Depth(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantDepth, depth)
		})
	}

	idx.Delete("a")
	_, ok := idx.Depth("c")
	assert.False(t, ok, "chain through a deleted node does not reach root")
}

func TestIndex_Prune(t *testing.T) {
	idx := NewIndex()
	idx.Set("keep", Root)
	idx.Set("child", "keep")
	idx.Set("orphan", "gone")
	idx.Set("grandorphan", "orphan")
	idx.Set("loop1", "loop2")
	idx.Set("loop2", "loop1")

	removed := idx.Prune()

	assert.Equal(t, []string{"orphan", "grandorphan", "loop1", "loop2"}, removed)
	assert.Equal(t, []string{"keep", "child"}, idx.IDs())
}

func TestIndex_MarshalJSON(t *testing.T) {
	idx, err := BuildIndex(Tree{Branch("a", Leaf("b"))})
	require.NoError(t, err)

	data, err := json.Marshal(idx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": null, "b": "a"}`, string(data))
}

func TestFromIndex_RoundTrip(t *testing.T) {
	tr := Tree{
		Branch("a", Leaf("b"), Branch("c", Leaf("d"))),
		Leaf("e"),
	}
	idx, err := BuildIndex(tr)
	require.NoError(t, err)

	if diff := cmp.Diff(tr, FromIndex(idx)); diff != "" {
		t.Errorf("FromIndex mismatch (-want +got):\n%s", diff)
	}
}

func TestFromIndex_DropsDangling(t *testing.T) {
	idx := NewIndex()
	idx.Set("a", Root)
	idx.Set("b", "missing")

	got := FromIndex(idx)
	if diff := cmp.Diff(Tree{Leaf("a")}, got); diff != "" {
		t.Errorf("FromIndex mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_Order(t *testing.T) {
	tr := Tree{Branch("a", Leaf("b"), Branch("c", Leaf("d"))), Leaf("e")}

	var visited []string
	err := Walk(tr, func(n *Node, parent string) error {
		visited = append(visited, parent+">"+n.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{">a", "a>b", "a>c", "c>d", ">e"}, visited)
}

func TestWalk_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	count := 0
	err := Walk(Tree{Leaf("a"), Leaf("b")}, func(n *Node, parent string) error {
		count++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, count)
}
