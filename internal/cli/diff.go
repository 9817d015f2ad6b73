package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/treediff/internal/logger"
	"github.com/danieljhkim/treediff/internal/planner"
)

var (
	diffSkipInconsistent bool
	diffOutput           string
	diffIndex            bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <from> <to>",
	Short: "Compute the actions that turn one tree into another",
	Long: `Compare two tree files and print the moves, creates and deletions needed to
turn the first into the second.

Only the topmost node of a removed subtree is deleted. Use --output to save the
actions as JSON for a later "treediff apply --actions".

With --index both inputs are id -> parent index files, as printed by
"treediff index --json". The source index must describe a tree. The target may
keep a node under a parent it no longer lists; that fails unless
--skip-inconsistent (or skip_inconsistent in the config) is set, in which case
the node is removed along with its deleted ancestor.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			batch *planner.ActionBatch
			err   error
		)
		if diffIndex {
			batch, err = diffIndexFiles(args[0], args[1])
		} else {
			batch, err = diffTreeFiles(args[0], args[1])
		}
		if err != nil {
			return err
		}

		if diffOutput != "" {
			data, err := planner.MarshalBatch(batch)
			if err != nil {
				return err
			}
			if err := os.WriteFile(diffOutput, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("failed to write action batch: %w", err)
			}
		}

		if jsonOutput {
			return outputJSON(batch)
		}

		formatBatch(batch)
		if diffOutput != "" {
			PrintSuccess(fmt.Sprintf("Saved actions to %s", diffOutput))
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffIndex, "index", false, "Read both inputs as id -> parent index files")
	diffCmd.Flags().BoolVar(&diffSkipInconsistent, "skip-inconsistent", false, "With --index, drop nodes kept under a deleted ancestor instead of failing")
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "", "Also write the actions as JSON to this file")
}

func diffTreeFiles(fromPath, toPath string) (*planner.ActionBatch, error) {
	from, err := readTree(fromPath)
	if err != nil {
		return nil, err
	}
	to, err := readTree(toPath)
	if err != nil {
		return nil, err
	}
	return planner.ComputeMinimalActions(from, to, planner.WithLogger(logger.L))
}

func diffIndexFiles(fromPath, toPath string) (*planner.ActionBatch, error) {
	from, fromIdx, err := readSourceIndex(fromPath)
	if err != nil {
		return nil, err
	}
	toIdx, err := readIndex(toPath)
	if err != nil {
		return nil, err
	}
	return planner.DiffIndexes(from, fromIdx, toIdx, plannerOptions(diffSkipInconsistent)...)
}

// formatBatch prints the actions grouped by phase, in the order they apply.
func formatBatch(batch *planner.ActionBatch) {
	if batch.IsEmpty() {
		PrintEmptyState("No changes detected")
		return
	}

	sections := []struct {
		title   string
		actions []planner.Action
	}{
		{"Moves", batch.Moves},
		{"Creates", batch.Creates},
		{"Deletions", batch.Deletions},
	}
	for _, s := range sections {
		if len(s.actions) == 0 {
			continue
		}
		PrintSection(s.title)
		for _, a := range s.actions {
			PrintAction(a)
		}
	}

	fmt.Println()
	_, _ = dimColor.Printf("  %s\n", summaryLine(batch.Summary()))
}
