package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("QUOTAFLOW_DEV_MODE", "false")
	os.Exit(m.Run())
}

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

func writeSeedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	content := `[
  {"id":"s1","title":"Close Acme deal","revenue":2500,"timeTaken":5,"priority":"high","status":"done","createdAt":"2026-02-01T09:00:00Z","completedAt":"2026-02-04T17:00:00Z"}
]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// TestRunVersion verifies behavior for the covered scenario.
func TestRunVersion(t *testing.T) {
	var out strings.Builder
	err := run(context.Background(), []string{"--version"}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(version) error = %v", err)
	}
	if !strings.Contains(out.String(), "quotaflow") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

// TestRunStartsProgram verifies behavior for the covered scenario.
func TestRunStartsProgram(t *testing.T) {
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	programFactory = func(_ tea.Model) program {
		return fakeProgram{}
	}

	dbPath := filepath.Join(t.TempDir(), "quotaflow.db")
	err := run(context.Background(), []string{"--db", dbPath, "--config", filepath.Join(t.TempDir(), "config.toml")}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

// TestRunInvalidFlag verifies behavior for the covered scenario.
func TestRunInvalidFlag(t *testing.T) {
	if err := run(context.Background(), []string{"--nope"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected flag parse error")
	}
}

// TestRunUnknownCommand verifies behavior for the covered scenario.
func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"frobnicate"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

// TestRunPathsCommand verifies behavior for the covered scenario.
func TestRunPathsCommand(t *testing.T) {
	var out strings.Builder
	if err := run(context.Background(), []string{"paths"}, &out, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	for _, key := range []string{"config:", "data_dir:", "db:", "seed:"} {
		if !strings.Contains(out.String(), key) {
			t.Fatalf("paths output missing %q: %q", key, out.String())
		}
	}
}

// TestRunExportCommandWritesCSV verifies behavior for the covered scenario.
func TestRunExportCommandWritesCSV(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "quotaflow.db")
	seedPath := writeSeedFile(t)

	var out strings.Builder
	err := run(context.Background(), []string{
		"--db", dbPath,
		"--seed", seedPath,
		"--config", filepath.Join(t.TempDir(), "config.toml"),
		"export",
	}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(export) error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "id,title,revenue,timeTaken,priority,status,notes") {
		t.Fatalf("expected csv header, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Close Acme deal") {
		t.Fatalf("expected seeded row in export, got %q", out.String())
	}
}

// TestRunExportToFile verifies behavior for the covered scenario.
func TestRunExportToFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "quotaflow.db")
	seedPath := writeSeedFile(t)
	outPath := filepath.Join(t.TempDir(), "export", "tasks.csv")

	err := run(context.Background(), []string{
		"--db", dbPath,
		"--seed", seedPath,
		"--config", filepath.Join(t.TempDir(), "config.toml"),
		"export", "--out", outPath,
	}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("run(export -out) error = %v", err)
	}
	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "Close Acme deal") {
		t.Fatalf("unexpected export file %q", content)
	}
}

// TestRunExportRejectsExtraArgs verifies behavior for the covered scenario.
func TestRunExportRejectsExtraArgs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "quotaflow.db")
	err := run(context.Background(), []string{
		"--db", dbPath,
		"--config", filepath.Join(t.TempDir(), "config.toml"),
		"export", "extra",
	}, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected error for unexpected export arguments")
	}
}
