package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danieljhkim/treediff/internal/config"
	"github.com/danieljhkim/treediff/internal/planner"
	"github.com/danieljhkim/treediff/internal/tree"
)

func TestOutputJSON(t *testing.T) {
	data := map[string]string{"test": "value"}

	var err error
	output := captureStdout(t, func() {
		err = outputJSON(data)
	})
	if err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}

	var v map[string]string
	if err := json.Unmarshal([]byte(output), &v); err != nil {
		t.Errorf("outputJSON() produced invalid JSON: %v", err)
	}
	if v["test"] != "value" {
		t.Errorf("outputJSON() = %q", output)
	}
}

func TestReadTree(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(path, []byte(`{"a": {"b": 1}, "c": 1}`), 0644); err != nil {
		t.Fatalf("failed to write tree: %v", err)
	}
	got, err := readTree(path)
	if err != nil {
		t.Fatalf("readTree() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("readTree() = %v", got)
	}

	if _, err := readTree(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("- a\n- b\n"), 0644); err != nil {
		t.Fatalf("failed to write tree: %v", err)
	}
	if _, err := readTree(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("expected parse error naming %s, got %v", bad, err)
	}
}

func TestReadBatch(t *testing.T) {
	dir := t.TempDir()

	batch := planner.NewActionBatch()
	batch.AddMove("a", "b")
	batch.AddDelete("c", tree.Root)
	data, err := planner.MarshalBatch(batch)
	if err != nil {
		t.Fatalf("MarshalBatch() error = %v", err)
	}
	path := filepath.Join(dir, "batch.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write batch: %v", err)
	}

	got, err := readBatch(path)
	if err != nil {
		t.Fatalf("readBatch() error = %v", err)
	}
	if got.Len() != 2 {
		t.Errorf("expected 2 actions, got %d", got.Len())
	}

	if _, err := readBatch(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for a missing batch")
	}
}

func TestPlannerOptions(t *testing.T) {
	defer func() { settings = config.Default() }()

	// child stays under gone, which is not in the target index.
	from := tree.Tree{tree.Branch("gone", tree.Leaf("child"))}
	fromIdx, err := tree.BuildIndex(from)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	toIdx := tree.NewIndex()
	toIdx.Set("child", "gone")

	settings = config.Default()
	if _, err := planner.DiffIndexes(from, fromIdx, toIdx, plannerOptions(false)...); !errors.Is(err, planner.ErrInconsistentIndex) {
		t.Errorf("expected ErrInconsistentIndex, got %v", err)
	}
	if _, err := planner.DiffIndexes(from, fromIdx, toIdx, plannerOptions(true)...); err != nil {
		t.Errorf("flag should skip inconsistent nodes: %v", err)
	}

	settings.SkipInconsistent = true
	if _, err := planner.DiffIndexes(from, fromIdx, toIdx, plannerOptions(false)...); err != nil {
		t.Errorf("settings should skip inconsistent nodes: %v", err)
	}
}

func TestDisplayParent(t *testing.T) {
	if got := displayParent(tree.Root); got != "<root>" {
		t.Errorf("displayParent(Root) = %q", got)
	}
	if got := displayParent("mov1"); got != "mov1" {
		t.Errorf("displayParent(mov1) = %q", got)
	}
}

func TestSummaryLine(t *testing.T) {
	tests := []struct {
		summary planner.Summary
		want    string
	}{
		{planner.Summary{}, "0 moves, 0 creates, 0 deletions"},
		{planner.Summary{Moves: 1, Creates: 1, Deletions: 1}, "1 move, 1 create, 1 deletion"},
		{planner.Summary{Moves: 4, Creates: 3, Deletions: 3}, "4 moves, 3 creates, 3 deletions"},
	}

	for _, tt := range tests {
		if got := summaryLine(tt.summary); got != tt.want {
			t.Errorf("summaryLine(%+v) = %q, want %q", tt.summary, got, tt.want)
		}
	}
}

func TestPrintFunctions(t *testing.T) {
	oldStderr := os.Stderr
	rErr, wErr, _ := os.Pipe()
	os.Stderr = wErr

	output := captureStdout(t, func() {
		PrintSuccess("Success message")
		PrintWarning("Warning message")
		PrintAction(planner.Action{Type: planner.ActionCreate, ID: "n", Parent: tree.Root})
		PrintError("Error message")
	})

	_ = wErr.Close()
	os.Stderr = oldStderr

	var bufErr bytes.Buffer
	_, _ = bufErr.ReadFrom(rErr)

	for _, want := range []string{"Success message", "Warning message", "+ n → <root>"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q on stdout, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Error message") {
		t.Error("PrintError should not write to stdout")
	}
	if !strings.Contains(bufErr.String(), "Error message") {
		t.Error("PrintError should write to stderr")
	}
}
