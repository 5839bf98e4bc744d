package testsupport

import (
	"path/filepath"
	"testing"

	"pagecheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.DocumentsDir = filepath.Join(base, "documents")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Store.BusyTimeoutMillis = 2000
	cfgVal.Report.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStartPage queues a default anchor for the first document scanned.
func WithStartPage(page int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.StartPage = page
	}
}

// WithScanMode sets the console mode.
func WithScanMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Mode = mode
	}
}

// WithoutIndexCache forces re-extraction on every load.
func WithoutIndexCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Index.UseCache = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
