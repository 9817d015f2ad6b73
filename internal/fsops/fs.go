// Package fsops maps trees onto a directory hierarchy.
//
// Every node is a path segment: subtrees are directories and leaves are
// empty files. All access goes through a billy.Filesystem so the same code
// runs against the OS (osfs) and in memory (memfs).
//
// Key features:
//   - TreeFS applies moves, creates and deletions as directory effects
//   - Materialize writes a whole tree, Scan reads one back
//   - Identifier validation so ids stay single, safe path segments
package fsops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/danieljhkim/treediff/internal/tree"
)

const dirMode os.FileMode = 0o755

var (
	// ErrUnknownNode is returned when an id has no path in the hierarchy.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidIdentifier is returned when an id cannot be used as a path segment.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// TreeFS applies actions to a directory hierarchy. It tracks the parent of
// every node it knows so it can resolve paths while the hierarchy changes.
//
// memfs does not rename nested directories reliably; moves need osfs.
type TreeFS struct {
	fs    billy.Filesystem
	index *tree.Index
}

// NewTreeFS returns a TreeFS over fs, which must already hold from.
func NewTreeFS(fs billy.Filesystem, from tree.Tree) (*TreeFS, error) {
	idx, err := tree.BuildIndex(from)
	if err != nil {
		return nil, fmt.Errorf("failed to index source tree: %w", err)
	}
	for _, id := range idx.IDs() {
		if err := ValidateIdentifier(id); err != nil {
			return nil, err
		}
	}
	return &TreeFS{fs: fs, index: idx}, nil
}

// Index returns a copy of the hierarchy as TreeFS currently sees it.
func (t *TreeFS) Index() *tree.Index {
	return t.index.Clone()
}

// Path returns the path of id relative to the filesystem root.
func (t *TreeFS) Path(id string) (string, error) {
	var segments []string
	for cur := id; cur != tree.Root; {
		parent, ok := t.index.Parent(cur)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownNode, cur)
		}
		segments = append(segments, cur)
		if len(segments) > t.index.Len() {
			return "", fmt.Errorf("%w: %q", tree.ErrCycle, id)
		}
		cur = parent
	}
	slices.Reverse(segments)
	return t.fs.Join(segments...), nil
}

// Move renames the directory of id into the directory of newParent.
func (t *TreeFS) Move(_ context.Context, id, newParent string) error {
	src, err := t.Path(id)
	if err != nil {
		return err
	}
	dir, err := t.dir(newParent)
	if err != nil {
		return err
	}

	if err := t.fs.Rename(src, t.fs.Join(dir, id)); err != nil {
		return fmt.Errorf("failed to move %q: %w", id, err)
	}
	t.index.Set(id, newParent)
	return nil
}

// Create makes an empty directory for id inside the directory of parent.
func (t *TreeFS) Create(_ context.Context, id, parent string) error {
	if err := ValidateIdentifier(id); err != nil {
		return err
	}
	if t.index.Has(id) {
		return fmt.Errorf("failed to create %q: %w", id, os.ErrExist)
	}
	dir, err := t.dir(parent)
	if err != nil {
		return err
	}

	if err := t.fs.MkdirAll(t.fs.Join(dir, id), dirMode); err != nil {
		return fmt.Errorf("failed to create %q: %w", id, err)
	}
	t.index.Set(id, parent)
	return nil
}

// Delete removes id and everything below it.
func (t *TreeFS) Delete(_ context.Context, id, _ string) error {
	path, err := t.Path(id)
	if err != nil {
		return err
	}

	if err := util.RemoveAll(t.fs, path); err != nil {
		return fmt.Errorf("failed to delete %q: %w", id, err)
	}
	t.index.Delete(id)
	t.index.Prune()
	return nil
}

// dir returns the path of id, turning an empty leaf file into a directory
// so that it can hold children.
func (t *TreeFS) dir(id string) (string, error) {
	if id == tree.Root {
		return "", nil
	}
	path, err := t.Path(id)
	if err != nil {
		return "", err
	}

	info, err := t.fs.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if info.IsDir() {
		return path, nil
	}
	if info.Size() != 0 {
		return "", fmt.Errorf("failed to use %q as a parent: file is not empty", path)
	}

	if err := t.fs.Remove(path); err != nil {
		return "", fmt.Errorf("failed to replace leaf %q: %w", path, err)
	}
	if err := t.fs.MkdirAll(path, dirMode); err != nil {
		return "", fmt.Errorf("failed to replace leaf %q: %w", path, err)
	}
	return path, nil
}

// Materialize writes t below the root of fs: leaves become empty files and
// every other node a directory.
func Materialize(fs billy.Filesystem, t tree.Tree) error {
	idx, err := tree.BuildIndex(t)
	if err != nil {
		return fmt.Errorf("failed to index tree: %w", err)
	}
	for _, id := range idx.IDs() {
		if err := ValidateIdentifier(id); err != nil {
			return err
		}
	}

	paths := map[string]string{tree.Root: ""}
	return tree.Walk(t, func(n *tree.Node, parent string) error {
		path := fs.Join(paths[parent], n.ID)
		paths[n.ID] = path

		if !n.IsLeaf() {
			if err := fs.MkdirAll(path, dirMode); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", path, err)
			}
			return nil
		}

		f, err := fs.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file %q: %w", path, err)
		}
		return f.Close()
	})
}

// Scan reads the hierarchy below root: directories become subtrees and
// files become leaves. Siblings are sorted by name.
func Scan(fs billy.Filesystem, root string) (tree.Tree, error) {
	entries, err := fs.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", root, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	out := tree.Tree{}
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		if !entry.IsDir() {
			out = append(out, tree.Leaf(name))
			continue
		}

		children, err := Scan(fs, fs.Join(root, name))
		if err != nil {
			return nil, err
		}
		out = append(out, tree.Branch(name, children...))
	}
	return out, nil
}

// ValidateIdentifier checks that id can be used as a single path segment.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}

	if strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidIdentifier, id)
	}

	if id == "." || strings.HasPrefix(id, "..") {
		return fmt.Errorf("%w: %q would escape its parent directory", ErrInvalidIdentifier, id)
	}

	if strings.ContainsRune(id, 0) {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidIdentifier, id)
	}

	return nil
}
