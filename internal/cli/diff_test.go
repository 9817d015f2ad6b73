package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/danieljhkim/treediff/internal/planner"
	"github.com/danieljhkim/treediff/internal/tree"
	"github.com/danieljhkim/treediff/internal/tree/treetest"
)

func TestFormatBatch_GroupsByPhase(t *testing.T) {
	batch, err := planner.ComputeMinimalActions(treetest.ScenarioFrom(), treetest.ScenarioTo())
	if err != nil {
		t.Fatalf("ComputeMinimalActions failed: %v", err)
	}

	output := captureStdout(t, func() {
		formatBatch(batch)
	})

	moves := strings.Index(output, "Moves")
	creates := strings.Index(output, "Creates")
	deletions := strings.Index(output, "Deletions")
	if moves < 0 || creates < moves || deletions < creates {
		t.Fatalf("expected Moves, Creates, Deletions sections in order, got:\n%s", output)
	}

	for _, want := range []string{
		"~ mov1 → mov2",
		"~ mov2 → <root>",
		"+ cre3 → mov3",
		"- del2 (from <root>)",
		"4 moves, 3 creates, 3 deletions",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "del3") {
		t.Errorf("del3 is removed with del2 and should not be listed, got:\n%s", output)
	}
}

func TestFormatBatch_NoChanges(t *testing.T) {
	output := captureStdout(t, func() {
		formatBatch(planner.NewActionBatch())
	})

	if !strings.Contains(output, "No changes detected") {
		t.Fatalf("expected empty-state message, got:\n%s", output)
	}
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	from := writeTree(t, dir, "from.yaml", treetest.ScenarioFrom())
	to := writeTree(t, dir, "to.yaml", treetest.ScenarioTo())

	output, err := runCLI(t, "diff", from, to)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if !strings.Contains(output, "4 moves, 3 creates, 3 deletions") {
		t.Errorf("expected summary line, got:\n%s", output)
	}
}

func TestDiffCommand_JSONAndOutputFile(t *testing.T) {
	dir := t.TempDir()
	from := writeTree(t, dir, "from.yaml", treetest.ScenarioFrom())
	to := writeTree(t, dir, "to.yaml", treetest.ScenarioTo())
	saved := filepath.Join(dir, "batch.json")

	output, err := runCLI(t, "diff", from, to, "--json", "--output", saved)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}

	printed, err := planner.ParseBatch([]byte(output))
	if err != nil {
		t.Fatalf("stdout is not an action batch: %v\n%s", err, output)
	}
	if printed.Summary() != (planner.Summary{Moves: 4, Creates: 3, Deletions: 3}) {
		t.Errorf("unexpected summary: %+v", printed.Summary())
	}

	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("batch file was not written: %v", err)
	}
	file, err := planner.ParseBatch(data)
	if err != nil {
		t.Fatalf("saved batch is invalid: %v", err)
	}
	if file.Source == "" || file.Source != printed.Source {
		t.Errorf("expected matching source fingerprints, got %q and %q", file.Source, printed.Source)
	}
}

func TestDiffCommand_NoChanges(t *testing.T) {
	dir := t.TempDir()
	from := writeTree(t, dir, "from.yaml", treetest.ScenarioFrom())

	output, err := runCLI(t, "diff", from, from)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if !strings.Contains(output, "No changes detected") {
		t.Errorf("expected empty-state message, got:\n%s", output)
	}
}

func TestDiffCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	ok := writeTree(t, dir, "ok.yaml", tree.Tree{tree.Leaf("a")})
	dup := filepath.Join(dir, "dup.yaml")
	if err := os.WriteFile(dup, []byte("a:\n  x: 1\nx: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write tree: %v", err)
	}

	if _, err := runCLI(t, "diff", ok, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := runCLI(t, "diff", dup, ok); err == nil {
		t.Error("expected error for duplicate id")
	}
	if _, err := runCLI(t, "diff", ok); err == nil {
		t.Error("expected error for missing argument")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestDiffCommand_IndexFiles(t *testing.T) {
	dir := t.TempDir()
	fromTree := writeTree(t, dir, "from.yaml", treetest.ScenarioFrom())
	toTree := writeTree(t, dir, "to.yaml", treetest.ScenarioTo())

	fromIndex, err := runCLI(t, "index", fromTree, "--json")
	if err != nil {
		t.Fatalf("index failed: %v", err)
	}
	toIndex, err := runCLI(t, "index", toTree, "--json")
	if err != nil {
		t.Fatalf("index failed: %v", err)
	}
	fromPath := writeFile(t, dir, "from.json", fromIndex)
	toPath := writeFile(t, dir, "to.json", toIndex)

	output, err := runCLI(t, "diff", "--index", fromPath, toPath, "--json")
	if err != nil {
		t.Fatalf("diff --index failed: %v", err)
	}
	got, err := planner.ParseBatch([]byte(output))
	if err != nil {
		t.Fatalf("invalid batch: %v\n%s", err, output)
	}

	want, err := planner.ComputeMinimalActions(treetest.ScenarioFrom(), treetest.ScenarioTo())
	if err != nil {
		t.Fatalf("ComputeMinimalActions failed: %v", err)
	}
	if got.Summary() != want.Summary() {
		t.Errorf("summary = %+v, want %+v", got.Summary(), want.Summary())
	}
	if got.Source != want.Source {
		t.Error("index and tree inputs should fingerprint the same source")
	}
}

func TestDiffCommand_IndexKeptUnderDeletedParent(t *testing.T) {
	dir := t.TempDir()
	from := writeFile(t, dir, "from.json", `{"gone": null, "child": "gone"}`)
	to := writeFile(t, dir, "to.json", `{"child": "gone"}`)

	_, err := runCLI(t, "diff", "--index", from, to)
	if !errors.Is(err, planner.ErrInconsistentIndex) {
		t.Fatalf("expected ErrInconsistentIndex, got %v", err)
	}

	output, err := runCLI(t, "diff", "--index", from, to, "--skip-inconsistent", "--json")
	if err != nil {
		t.Fatalf("diff --skip-inconsistent failed: %v", err)
	}
	batch, err := planner.ParseBatch([]byte(output))
	if err != nil {
		t.Fatalf("invalid batch: %v\n%s", err, output)
	}
	if len(batch.Moves) != 0 || len(batch.Creates) != 0 {
		t.Errorf("expected only a deletion, got %+v", batch)
	}
	if len(batch.Deletions) != 1 || batch.Deletions[0].ID != "gone" {
		t.Errorf("expected gone to be deleted, got %+v", batch.Deletions)
	}

	config := writeFile(t, dir, "config.yaml", "skip_inconsistent: true\n")
	if _, err := runCLI(t, "diff", "--index", from, to, "--config", config); err != nil {
		t.Errorf("skip_inconsistent from config should apply: %v", err)
	}
}

func TestDiffCommand_IndexSourceNotATree(t *testing.T) {
	dir := t.TempDir()
	from := writeFile(t, dir, "from.json", `{"a": "missing"}`)
	to := writeFile(t, dir, "to.json", `{"a": null}`)

	_, err := runCLI(t, "diff", "--index", from, to)
	if err == nil || !strings.Contains(err.Error(), "not a tree") {
		t.Errorf("expected error for a source index that is not a tree, got %v", err)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	oldColorOutput := color.Output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w
	color.Output = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = oldStdout
	color.Output = oldColorOutput

	return <-done
}
