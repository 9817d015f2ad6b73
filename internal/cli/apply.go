package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/treediff/internal/engine"
	"github.com/danieljhkim/treediff/internal/fsops"
	"github.com/danieljhkim/treediff/internal/logger"
	"github.com/danieljhkim/treediff/internal/planner"
	"github.com/danieljhkim/treediff/internal/tree"
)

// errDirMismatch is returned when the target directory does not hold the source tree.
var errDirMismatch = errors.New("directory does not match the source tree")

var (
	applyDir       string
	applyInit      bool
	applyDryRun    bool
	applyActions   string
	applyCycleSafe bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <from-tree> [to-tree]",
	Short: "Apply the actions between two trees to a directory",
	Long: `Compute the actions that turn <from-tree> into <to-tree> and apply them to the
directory hierarchy rooted at --dir, which must already hold <from-tree>.

Use --init to write <from-tree> into an empty directory first, --actions to apply
a batch saved by "treediff diff --output" instead of diffing, and --dry-run to
print the effects in the order they would run without touching the disk.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := readTree(args[0])
		if err != nil {
			return err
		}
		batch, err := resolveBatch(from, args[1:])
		if err != nil {
			return err
		}

		cycleSafe := settings.CycleSafeMoves
		if cmd.Flags().Changed("cycle-safe") {
			cycleSafe = applyCycleSafe
		}

		var effects engine.Effects
		recorder := engine.NewRecorder()
		if applyDryRun {
			effects = recorder
		} else {
			if applyDir == "" {
				return errors.New("--dir is required unless --dry-run is set")
			}
			fs, err := prepareDir(applyDir, from, applyInit)
			if err != nil {
				return err
			}
			tfs, err := fsops.NewTreeFS(fs, from)
			if err != nil {
				return err
			}
			effects = tfs
		}

		report, err := newEngine(effects, cycleSafe).ApplyWithReport(cmd.Context(), from, batch)
		if err != nil {
			return fmt.Errorf("failed to apply actions: %w", err)
		}

		result := &applyResult{
			Dir:     applyDir,
			DryRun:  applyDryRun,
			Summary: batch.Summary(),
			Report:  report,
		}
		if applyDryRun {
			result.Effects = recorder.Actions
		}

		if jsonOutput {
			return outputJSON(result)
		}
		formatApplyResult(result)
		return nil
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyDir, "dir", "d", "", "Directory holding the source tree")
	applyCmd.Flags().BoolVar(&applyInit, "init", false, "Write the source tree into an empty --dir first")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Print the effects without touching the disk")
	applyCmd.Flags().StringVar(&applyActions, "actions", "", "Apply a saved JSON action batch instead of diffing")
	applyCmd.Flags().BoolVar(&applyCycleSafe, "cycle-safe", true, "Hold back moves into their own subtree until it is safe; when not given, cycle_safe_moves from the config decides")
}

// applyResult is the outcome of the apply command.
type applyResult struct {
	Dir     string           `json:"dir,omitempty"`
	DryRun  bool             `json:"dry_run"`
	Summary planner.Summary  `json:"summary"`
	Report  *engine.Report   `json:"report"`
	Effects []planner.Action `json:"effects,omitempty"`
}

// resolveBatch returns the saved batch from --actions, or diffs from against
// the target tree named in rest.
func resolveBatch(from tree.Tree, rest []string) (*planner.ActionBatch, error) {
	if applyActions != "" {
		if len(rest) > 0 {
			return nil, errors.New("cannot combine a target tree with --actions")
		}
		return readBatch(applyActions)
	}

	if len(rest) == 0 {
		return nil, errors.New("a target tree is required unless --actions is set")
	}
	to, err := readTree(rest[0])
	if err != nil {
		return nil, err
	}
	return planner.ComputeMinimalActions(from, to, planner.WithLogger(logger.L))
}

// prepareDir opens dir and checks that it holds from. With initialize set,
// from is first written into dir, which must be empty or missing.
func prepareDir(dir string, from tree.Tree, initialize bool) (billy.Filesystem, error) {
	if initialize {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	fs := osfs.New(dir)
	if initialize {
		entries, err := fs.ReadDir("")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}
		if len(entries) > 0 {
			return nil, fmt.Errorf("cannot initialize %s: directory is not empty", dir)
		}
		if err := fsops.Materialize(fs, from); err != nil {
			return nil, err
		}
	}

	scanned, err := fsops.Scan(fs, "")
	if err != nil {
		return nil, err
	}
	have, err := tree.BuildIndex(scanned)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errDirMismatch, err)
	}
	want, err := tree.BuildIndex(from)
	if err != nil {
		return nil, fmt.Errorf("failed to index source tree: %w", err)
	}
	if !have.Equal(want) {
		return nil, fmt.Errorf("%w: %s holds %d nodes, source tree has %d", errDirMismatch, dir, have.Len(), want.Len())
	}
	return fs, nil
}

func formatApplyResult(r *applyResult) {
	if r.DryRun {
		if len(r.Effects) == 0 {
			PrintEmptyState("No changes detected")
		} else {
			PrintSection("Effects")
			for _, a := range r.Effects {
				PrintAction(a)
			}
			fmt.Println()
		}
		PrintWarning("Dry run: nothing was written")
	} else {
		PrintSuccess(fmt.Sprintf("Applied %s to %s", summaryLine(r.Summary), r.Dir))
	}

	PrintLabelValue("Deferred", strconv.Itoa(r.Report.Deferred))
	PrintLabelValue("Duration", r.Report.Duration().String())
}
