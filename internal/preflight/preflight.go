package preflight

import (
	"context"

	"gfontapi/internal/catalog"
	"gfontapi/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options tunes RunAll.
type Options struct {
	// CheckFamily, when set, is looked up through Fetcher to verify the
	// catalog credential end to end.
	CheckFamily string
	Fetcher     catalog.Fetcher
}

// RunAll executes the local checks and, when requested, a live catalog lookup.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckAPIKey(cfg),
		CheckOutputDirectory("Output directory", cfg.Paths.OutputDir),
	}
	if opts.CheckFamily != "" && opts.Fetcher != nil {
		results = append(results, CheckCatalog(ctx, opts.Fetcher, opts.CheckFamily))
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
