package preflight

import (
	"context"

	"plparse/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
	// Skipped marks checks that did not apply to the configuration.
	Skipped bool `json:"skipped,omitempty"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if cfg.History.Enabled {
		results = append(results, CheckHistory(ctx, cfg.Paths.HistoryDB))
	} else {
		results = append(results, Result{Name: "History database", Passed: true, Skipped: true, Detail: "Disabled"})
	}

	results = append(results, CheckDrive(cfg.Disc.Device))

	if cfg.Disc.Watch {
		results = append(results, CheckNetlink())
	} else {
		results = append(results, Result{Name: "Disc watch", Passed: true, Skipped: true, Detail: "Disabled"})
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
