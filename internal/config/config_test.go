package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pagecheck/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PAGECHECK_DATA_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "pagecheck")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.DocumentsDir != filepath.Join(wantData, "documents") {
		t.Fatalf("unexpected documents dir: %q", cfg.Paths.DocumentsDir)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "pagecheck.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Store.BusyTimeoutMillis != 30000 {
		t.Fatalf("unexpected busy timeout: %d", cfg.Store.BusyTimeoutMillis)
	}
	if cfg.Scan.Mode != config.ModeSequence {
		t.Fatalf("unexpected scan mode: %q", cfg.Scan.Mode)
	}
	if cfg.Scan.StartPage != 0 {
		t.Fatalf("expected unset start page, got %d", cfg.Scan.StartPage)
	}
	if cfg.Report.Bind != "127.0.0.1:8000" {
		t.Fatalf("unexpected report bind: %q", cfg.Report.Bind)
	}
	if !cfg.Index.UseCache {
		t.Fatal("expected index cache enabled by default")
	}
}

func TestLoadHonoursDataDirEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("PAGECHECK_DATA_DIR", dataDir)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != dataDir {
		t.Fatalf("expected data dir from env, got %q", cfg.Paths.DataDir)
	}
}

func TestSampleConfigRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAGECHECK_DATA_DIR", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected sample to be loaded from %s, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Index.CodePattern != config.Default().Index.CodePattern {
		t.Fatalf("sample code pattern drifted from default: %q", cfg.Index.CodePattern)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAGECHECK_DATA_DIR", "")

	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"mode", "[scan]\nmode = \"random\"\n", "scan.mode"},
		{"pattern", "[index]\ncode_pattern = \"([A-Z\"\n", "index.code_pattern"},
		{"level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
		{"retry", "[store]\nbusy_retry_initial_ms = 500\nbusy_retry_max_ms = 100\n", "busy_retry_initial_ms"},
		{"unknown", "[store]\nbogus = 1\n", "parse config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestEnsureDirectoriesCreatesPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.DocumentsDir = filepath.Join(base, "docs")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.DocumentsDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist (err=%v)", dir, err)
		}
	}
}
