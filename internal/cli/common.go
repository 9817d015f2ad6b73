package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danieljhkim/treediff/internal/engine"
	"github.com/danieljhkim/treediff/internal/logger"
	"github.com/danieljhkim/treediff/internal/planner"
	"github.com/danieljhkim/treediff/internal/tree"
)

// readTree reads and parses a YAML or JSON tree file.
func readTree(path string) (tree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree file: %w", err)
	}
	t, err := tree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, nil
}

// readIndex reads an id -> parent index file such as the output of
// "index --json".
func readIndex(path string) (*tree.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}
	idx, err := tree.ParseIndex(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return idx, nil
}

// readSourceIndex reads an index file that must describe a well-formed tree
// and returns that tree with its index.
func readSourceIndex(path string) (tree.Tree, *tree.Index, error) {
	idx, err := readIndex(path)
	if err != nil {
		return nil, nil, err
	}

	t := tree.FromIndex(idx)
	rebuilt, err := tree.BuildIndex(t)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to index %s: %w", path, err)
	}
	if rebuilt.Len() != idx.Len() {
		return nil, nil, fmt.Errorf("%s is not a tree: %d ids are not reachable from the top level",
			path, idx.Len()-rebuilt.Len())
	}
	return t, rebuilt, nil
}

// readBatch reads a JSON action batch saved by "diff --output".
func readBatch(path string) (*planner.ActionBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read action batch: %w", err)
	}
	batch, err := planner.ParseBatch(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return batch, nil
}

// plannerOptions returns the options for diffing index files. Two trees never
// leave a kept node under a deleted ancestor, so only index inputs need a policy.
func plannerOptions(skipInconsistent bool) []planner.Option {
	policy := planner.PolicyError
	if skipInconsistent || settings.SkipInconsistent {
		policy = planner.PolicySkip
	}
	return []planner.Option{
		planner.WithInconsistentPolicy(policy),
		planner.WithLogger(logger.L),
	}
}

// newEngine creates an engine over effects using the current settings.
func newEngine(effects engine.Effects, cycleSafe bool) *engine.Engine {
	opts := []engine.Option{engine.WithLogger(logger.L)}
	if cycleSafe {
		opts = append(opts, engine.WithCycleSafeMoves())
	}
	return engine.New(effects, opts...)
}

func displayParent(parent string) string {
	if parent == tree.Root {
		return "<root>"
	}
	return parent
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
