package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/treediff/internal/tree"
)

var indexCmd = &cobra.Command{
	Use:   "index <tree-file>",
	Short: "Print the id -> parent index of a tree",
	Long: `Parse a tree file and print every node with its parent and depth.

Fails if an id is empty or appears more than once.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := readTree(args[0])
		if err != nil {
			return err
		}
		idx, err := tree.BuildIndex(t)
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", args[0], err)
		}

		if jsonOutput {
			return outputJSON(idx)
		}

		formatIndex(idx)
		return nil
	},
}

// formatIndex prints the index as a table in document order.
func formatIndex(idx *tree.Index) {
	if idx.Len() == 0 {
		PrintEmptyState("Tree is empty")
		return
	}

	rows := make([][]string, 0, idx.Len())
	for _, id := range idx.IDs() {
		parent, _ := idx.Parent(id)
		depth, _ := idx.Depth(id)
		rows = append(rows, []string{id, displayParent(parent), strconv.Itoa(depth)})
	}
	PrintTable([]string{"ID", "PARENT", "DEPTH"}, rows)
}
