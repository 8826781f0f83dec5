package preflight

import (
	"context"
	"fmt"

	"filmstrip/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config. Directory
// checks assume EnsureDirectories already ran; a missing directory here
// is a real failure, not a first-run condition.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Workspace directory", cfg.Paths.WorkspaceDir),
		CheckDirectoryAccess("Output directory", cfg.Publish.OutputDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckFreeDisk("Workspace free space", cfg.Paths.WorkspaceDir),
	}

	for _, dep := range CheckSystemDeps(ctx, cfg) {
		result := Result{Name: dep.Name, Passed: dep.Available}
		switch {
		case dep.Available && dep.Version != "":
			result.Detail = dep.Version
		case dep.Available:
			result.Detail = dep.Command
		default:
			result.Detail = dep.Detail
		}
		if dep.Optional && !dep.Available {
			result.Passed = true
			result.Detail = fmt.Sprintf("%s (optional)", dep.Detail)
		}
		results = append(results, result)
	}

	return results
}

// Failed filters results down to the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
