package preflight

import (
	"mkvlang/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the path checks that apply to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if cfg.Batch.SkipProcessed && cfg.Paths.HistoryDB != "" {
		results = append(results, CheckParentAccess("History directory", cfg.Paths.HistoryDB))
	}
	if cfg.Batch.LockFiles && cfg.Paths.LockDir != "" {
		results = append(results, CheckDirectoryAccess("Lock directory", cfg.Paths.LockDir))
	}
	if cfg.Logging.File && cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Debug.DumpIdentifyJSON && cfg.Debug.DumpPath != "" {
		results = append(results, CheckParentAccess("Debug dump directory", cfg.Debug.DumpPath))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, result := range results {
		if !result.Passed {
			out = append(out, result)
		}
	}
	return out
}
