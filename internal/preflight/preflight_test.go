package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pagecheck/internal/store"
	"pagecheck/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDocumentsCountsPDFs(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteDocuments(t, dir, "a.pdf", "B.PDF", "notes.txt")

	result := CheckDocuments(dir)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "(2 PDFs)") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDocumentsMissing(t *testing.T) {
	result := CheckDocuments(filepath.Join(t.TempDir(), "missing"))
	if result.Passed {
		t.Fatal("expected failure for missing documents dir")
	}
}

type stubChecker struct {
	health store.DatabaseHealth
	err    error
}

func (s stubChecker) CheckHealth(context.Context) (store.DatabaseHealth, error) {
	return s.health, s.err
}

func TestCheckDatabase(t *testing.T) {
	healthy := store.DatabaseHealth{DBPath: "/db", DatabaseExists: true, IntegrityCheck: true, SchemaVersion: 1}
	tests := []struct {
		name    string
		checker stubChecker
		passed  bool
		detail  string
	}{
		{"healthy", stubChecker{health: healthy}, true, "schema v1"},
		{"error", stubChecker{health: healthy, err: errors.New("boom")}, false, "boom"},
		{"missing", stubChecker{health: store.DatabaseHealth{DBPath: "/db"}}, false, "does not exist"},
		{"tables", stubChecker{health: store.DatabaseHealth{DBPath: "/db", DatabaseExists: true, MissingTables: []string{"events"}}}, false, "missing tables events"},
		{"integrity", stubChecker{health: store.DatabaseHealth{DBPath: "/db", DatabaseExists: true}}, false, "integrity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckDatabase(context.Background(), tt.checker)
			if result.Passed != tt.passed {
				t.Fatalf("passed = %v, want %v (%s)", result.Passed, tt.passed, result.Detail)
			}
			if !strings.Contains(result.Detail, tt.detail) {
				t.Fatalf("detail %q does not mention %q", result.Detail, tt.detail)
			}
		})
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil, nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_WithStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	st := testsupport.MustOpenStore(t, cfg)

	results := RunAll(context.Background(), cfg, st)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_ReportsMissingLogDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	cfg.Paths.LogDir = filepath.Join(testsupport.BaseDir(cfg), "absent")

	failed := Failed(RunAll(context.Background(), cfg, nil))
	if len(failed) != 1 || failed[0].Name != "Log directory" {
		t.Fatalf("expected only the log directory to fail, got %+v", failed)
	}
}
