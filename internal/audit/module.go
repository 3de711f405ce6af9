package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/scoring"
)

// Analyzer is the contract every analysis module implements. Analyze may
// return an error; it never needs to worry about panics or partial results
// leaking into the pipeline, RunModule handles isolation.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, page *fetcher.Page) (ModuleResult, error)
}

// RunModule invokes an analyzer and guarantees a terminal ModuleResult.
// Errors and panics inside a module are converted into a failed result with
// score 0; they never abort sibling modules or the audit.
func RunModule(ctx context.Context, a Analyzer, page *fetcher.Page) (result ModuleResult) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("module panicked", "module", a.Name(), "panic", rec)
			result = failedResult(a.Name(), fmt.Sprintf("panic: %v", rec))
		}
	}()

	res, err := a.Analyze(ctx, page)
	if err != nil {
		return failedResult(a.Name(), err.Error())
	}

	res.Module = a.Name()
	if res.Status == "" {
		res.Status = StatusOK
	}
	res.Score = scoring.Clamp(res.Score)
	return res
}

func failedResult(module, reason string) ModuleResult {
	return ModuleResult{
		Module: module,
		Score:  0,
		Status: StatusFailed,
		Issues: []Issue{{
			Description: fmt.Sprintf("Analysis failed: %s", reason),
			Category:    module,
		}},
		Details: FailureDetails{Error: reason},
	}
}
