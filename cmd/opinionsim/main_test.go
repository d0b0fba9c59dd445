package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"

	"github.com/GoSim-25-26J-441/opinion-core/internal/store"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
)

const testConfigPath = "../../config/lr5.yaml"

func init() {
	pterm.DisableStyling()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("version output = %q, want it to contain %q", out, version)
	}

	out, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil || got["version"] != version {
		t.Errorf("version --json = %q (%v)", out, err)
	}
}

func TestValidateCmd(t *testing.T) {
	out, err := execute(t, "validate", "--config", testConfigPath)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("validate output = %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("agents_count: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "validate", "--config", bad); err == nil {
		t.Error("expected validation error for invalid config")
	}
	if _, err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestRunCmdPrintsReport(t *testing.T) {
	out, err := execute(t, "run", "--config", testConfigPath)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	for _, want := range []string{
		"Randomly generated trust matrix:",
		"Resulting trust matrix:",
		"X(0): (",
		"Agent opinions under influence:",
		"Winner: player ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCmdJSONAndDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	out, err := execute(t, "run", "--config", testConfigPath, "--json", "--db", dbPath, "--run-id", "cli-run")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}

	var run models.Run
	if err := json.Unmarshal([]byte(out), &run); err != nil {
		t.Fatalf("invalid run json: %v\n%s", err, out)
	}
	if run.ID != "cli-run" || run.Status != models.RunStatusCompleted {
		t.Errorf("run = %s %s, want cli-run completed", run.ID, run.Status)
	}
	if run.Report == nil || len(run.Report.Winners) == 0 {
		t.Fatalf("expected report with winners, got %+v", run.Report)
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	saved, err := s.Get(context.Background(), "cli-run")
	if err != nil {
		t.Fatalf("saved run not found: %v", err)
	}
	if saved.Report.Baseline.Iterations != run.Report.Baseline.Iterations {
		t.Errorf("saved iterations = %d, want %d", saved.Report.Baseline.Iterations, run.Report.Baseline.Iterations)
	}
}

func TestRunCmdRejectsBadRunID(t *testing.T) {
	if _, err := execute(t, "run", "--config", testConfigPath, "--run-id", "a/b"); err == nil {
		t.Error("expected error for invalid run id")
	}
}

func TestOpenStore(t *testing.T) {
	mem, err := openStore("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mem.(*store.MemoryStore); !ok {
		t.Errorf("openStore(\"\") = %T, want *store.MemoryStore", mem)
	}

	sq, err := openStore(filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer sq.Close()
	if _, ok := sq.(*store.SQLiteStore); !ok {
		t.Errorf("openStore(path) = %T, want *store.SQLiteStore", sq)
	}
}
