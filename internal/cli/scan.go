package cli

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/treediff/internal/fsops"
	"github.com/danieljhkim/treediff/internal/tree"
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Print the tree of a directory hierarchy",
	Long: `Read a directory hierarchy as a tree: directories become subtrees and files
become leaves. The output is a tree file usable by diff and apply.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}

		t, err := fsops.Scan(osfs.New(dir), "")
		if err != nil {
			return err
		}

		if jsonOutput {
			idx, err := tree.BuildIndex(t)
			if err != nil {
				return fmt.Errorf("failed to index %s: %w", dir, err)
			}
			return outputJSON(idx)
		}

		data, err := tree.Marshal(t)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}
