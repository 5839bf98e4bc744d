package preflight

import (
	"context"

	"pagecheck/internal/config"
	"pagecheck/internal/store"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// HealthChecker reports database diagnostics.
type HealthChecker interface {
	CheckHealth(ctx context.Context) (store.DatabaseHealth, error)
}

// RunAll executes the directory checks and, when checker is non-nil, the
// database check.
func RunAll(ctx context.Context, cfg *config.Config, checker HealthChecker) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDocuments(cfg.Paths.DocumentsDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if checker != nil {
		results = append(results, CheckDatabase(ctx, checker))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
