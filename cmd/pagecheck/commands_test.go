package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pagecheck/internal/api"
	"pagecheck/internal/audit"
	"pagecheck/internal/store"
	"pagecheck/internal/testsupport"
	"pagecheck/internal/verify"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Scan mode: verification")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestScanJSONReportsOutcomes(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedSequential(t, env.store, "Lot A", "A", 4)

	out, _, err := runCLI(t, []string{"scan", "--json", "A1", "A3", "nope"}, env.configPath, "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var envelopes []verify.Envelope
	if err := json.Unmarshal([]byte(out), &envelopes); err != nil {
		t.Fatalf("decode scan output: %v\n%s", err, out)
	}
	if len(envelopes) != 3 {
		t.Fatalf("expected 3 envelopes, got %d", len(envelopes))
	}
	want := []verify.Outcome{verify.OutcomeOK, verify.OutcomeMissingPages, verify.OutcomeNotFound}
	for i, e := range envelopes {
		if e.Outcome != want[i] {
			t.Fatalf("envelope %d outcome = %s, want %s", i, e.Outcome, want[i])
		}
	}
	if envelopes[1].MissingPages[0] != 2 {
		t.Fatalf("expected page 2 missing, got %v", envelopes[1].MissingPages)
	}
}

func TestScanTextOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedSequential(t, env.store, "Lot A", "A", 4)

	out, _, err := runCLI(t, []string{"scan", "--start-page", "2", "A2", "A1"}, env.configPath, "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "[OK] Page 2 verified")
	requireContains(t, out, "[WARN] Page 1 belongs to an earlier batch")

	out, _, err = runCLI(t, []string{"scan", "NOPE"}, env.configPath, "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "[ERROR] Code NOPE is not in any loaded document")
}

func TestClassifyRecordsResolution(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{
		"classify", "a7", "--error-type", "other_lot", "--resolution", "other",
		"--note", "misfiled", "--page", "7", "--json",
	}, env.configPath, "")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var event api.Event
	if err := json.Unmarshal([]byte(out), &event); err != nil {
		t.Fatalf("decode event: %v\n%s", err, out)
	}
	if event.Kind != string(audit.KindResolutionOtherLot) || event.Code != "A7" {
		t.Fatalf("unexpected event: %+v", event)
	}
	requireContains(t, event.Description, "misfiled")

	out, _, err = runCLI(t, []string{
		"classify", "A7", "--error-type", "other_lot", "--resolution", "false_duplicate", "--note", "double feed",
	}, env.configPath, "")
	if err != nil {
		t.Fatalf("classify with note: %v", err)
	}
	requireContains(t, out, "Recorded scan_resolution_other_lot")
	_, _, err = runCLI(t, []string{"classify", "A7", "--error-type", "typo", "--resolution", "other"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected unknown error type to fail")
	}
}

func TestResetScans(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedSequential(t, env.store, "Lot A", "A", 3)
	if _, _, err := runCLI(t, []string{"scan", "A1", "A2"}, env.configPath, ""); err != nil {
		t.Fatalf("scan: %v", err)
	}

	out, _, err := runCLI(t, []string{"reset", "scans"}, env.configPath, "")
	if err != nil {
		t.Fatalf("reset scans: %v", err)
	}
	requireContains(t, out, "Cleared 2 verified entries")

	out, _, err = runCLI(t, []string{"reset", "anchor"}, env.configPath, "")
	if err != nil {
		t.Fatalf("reset anchor: %v", err)
	}
	requireContains(t, out, "Start pages cleared")

	events, err := env.store.Events(context.Background(), store.EventFilter{
		Kinds: []audit.Kind{audit.KindResetScans, audit.KindResetAnchor},
	})
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected two reset events, got %d", len(events))
	}
}

func TestStatusTableAndJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedSequential(t, env.store, "Lot A", "A", 4)
	if _, _, err := runCLI(t, []string{"scan", "A1"}, env.configPath, ""); err != nil {
		t.Fatalf("scan: %v", err)
	}

	out, _, err := runCLI(t, []string{"status", "--pages", "pending"}, env.configPath, "")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Lot A")
	requireContains(t, out, "25.0%")
	if strings.Count(out, "pending") != 3 {
		t.Fatalf("expected 3 pending pages in output:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"status", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	var summary api.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if summary.Totals.ScannedPages != 1 || summary.Pages != nil {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if _, _, err := runCLI(t, []string{"status", "--pages", "bogus"}, env.configPath, ""); err == nil {
		t.Fatal("expected invalid filter to fail")
	}
}

func TestEventsListing(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedSequential(t, env.store, "Lot A", "A", 2)
	if _, _, err := runCLI(t, []string{"scan", "A1", "ZZZ"}, env.configPath, ""); err != nil {
		t.Fatalf("scan: %v", err)
	}

	out, _, err := runCLI(t, []string{"events"}, env.configPath, "")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	requireContains(t, out, "scan_ok")
	requireContains(t, out, "scan_error_not_found")

	out, _, err = runCLI(t, []string{"events", "--kind", "scan_error_not_found", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("events --kind: %v", err)
	}
	var events []api.Event
	if err := json.Unmarshal([]byte(out), &events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(events) != 1 || events[0].Code != "ZZZ" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestIndexWithEmptyDocumentsDir(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"index"}, env.configPath, "")
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	requireContains(t, out, "No PDFs in")
}

func TestConsoleRequiresDocuments(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"console"}, env.configPath, "exit\n")
	if err == nil || !strings.Contains(err.Error(), "no documents indexed") {
		t.Fatalf("expected no documents error, got %v", err)
	}
}

func TestConsoleScansFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedSequential(t, env.store, "Lot A", "A", 3)

	out, _, err := runCLI(t, []string{"console", "--skip-index"}, env.configPath, "A1\nA2\nstatus\nexit\n")
	if err != nil {
		t.Fatalf("console: %v", err)
	}
	requireContains(t, out, "Scanning against 1 loaded document(s)")
	requireContains(t, out, "Mode: verification")
	requireContains(t, out, "[OK] Page 2 verified")
	requireContains(t, out, "Lot A: page 1")
}

func TestHealthCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"health"}, env.configPath, "")
	if err != nil {
		t.Fatalf("health: %v\n%s", err, out)
	}
	requireContains(t, out, "== Health ==")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "checks passed")
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected failure:\n%s", out)
	}
}

func TestLogsFiltersBySession(t *testing.T) {
	env := setupCLITestEnv(t)
	logPath := filepath.Join(env.cfg.Paths.LogDir, "pagecheck.log")
	content := "2026-01-01T00:00:00Z ERROR [aaaaaaaa] verify: first\n" +
		"2026-01-01T00:00:01Z ERROR [bbbbbbbb] verify: second\n"
	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "--session", "bbbbbbbb-1111"}, env.configPath, "")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "second")
	if strings.Contains(out, "first") {
		t.Fatalf("unexpected line from another session:\n%s", out)
	}
}
