package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nawedy/automatiq/internal/config"
	"github.com/nawedy/automatiq/internal/database"
	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/scoring"
)

// Runner drives the audit pipeline: fetch once, run each enabled module in
// registry order, aggregate, persist, then hand the finished audit to the
// notification engine.
type Runner struct {
	db          *database.DB
	fetch       fetcher.Fetcher
	modules     []Analyzer
	notifier    *Notifier
	broadcaster Broadcaster
	cfg         config.AuditConfig
}

func NewRunner(db *database.DB, fetch fetcher.Fetcher, modules []Analyzer, notifier *Notifier, broadcaster Broadcaster, cfg config.AuditConfig) *Runner {
	return &Runner{
		db:          db,
		fetch:       fetch,
		modules:     modules,
		notifier:    notifier,
		broadcaster: broadcaster,
		cfg:         cfg,
	}
}

// ModuleNames returns the registered module identifiers in execution order.
func (r *Runner) ModuleNames() []string {
	names := make([]string, len(r.modules))
	for i, m := range r.modules {
		names[i] = m.Name()
	}
	return names
}

// Start creates the audit record and runs the pipeline in a goroutine.
func (r *Runner) Start(req AuditRequest) (*database.Audit, error) {
	if err := fetcher.ValidateURL(req.Target); err != nil {
		return nil, err
	}

	a := &database.Audit{
		UUID:        uuid.NewString(),
		Target:      req.Target,
		RequestedBy: req.RequestedBy,
		Status:      "queued",
		Message:     "Audit queued",
	}
	if err := r.db.CreateAudit(a); err != nil {
		return nil, fmt.Errorf("create audit: %w", err)
	}

	go func() {
		if _, err := r.run(context.Background(), a, req); err != nil {
			slog.Error("audit failed", "audit_id", a.ID, "target", a.Target, "error", err)
		}
	}()

	return a, nil
}

// Run executes an audit synchronously and returns the terminal record.
func (r *Runner) Run(ctx context.Context, req AuditRequest) (*database.Audit, error) {
	if err := fetcher.ValidateURL(req.Target); err != nil {
		return nil, err
	}

	a := &database.Audit{
		UUID:        uuid.NewString(),
		Target:      req.Target,
		RequestedBy: req.RequestedBy,
		Status:      "queued",
		Message:     "Audit queued",
	}
	if err := r.db.CreateAudit(a); err != nil {
		return nil, fmt.Errorf("create audit: %w", err)
	}
	return r.run(ctx, a, req)
}

func (r *Runner) run(ctx context.Context, a *database.Audit, req AuditRequest) (*database.Audit, error) {
	start := time.Now()

	enabled := r.enabledModules(req.Modules)
	tracker := NewTracker(r.db, r.broadcaster, a.ID, len(enabled))

	// Only persistence errors are pipeline-fatal. Everything a module does
	// wrong is contained by RunModule.
	if err := r.db.UpdateAuditStatus(a.ID, "running"); err != nil {
		return r.abort(a, tracker, fmt.Errorf("mark running: %w", err))
	}
	a.Status = "running"

	slog.Info("audit started", "audit_id", a.ID, "target", a.Target, "modules", len(enabled))

	// One fetch shared by every module. A fetch failure is not fatal:
	// modules see the degraded page and fail (or score) individually.
	page, err := r.fetch.Fetch(ctx, a.Target)
	if err != nil {
		page = &fetcher.Page{URL: a.Target, FetchErr: err}
	}
	if page.FetchErr != nil {
		slog.Warn("target fetch degraded", "audit_id", a.ID, "error", page.FetchErr)
	}

	results := make([]ModuleResult, 0, len(enabled))
	moduleScores := make(map[string]int, len(enabled))

	for i, m := range enabled {
		tracker.Update(m.Name(), i+1, fmt.Sprintf("Analyzing %s...", m.Name()))

		res := RunModule(ctx, m, page)
		results = append(results, res)
		moduleScores[res.Module] = res.Score

		if res.Status == StatusFailed {
			slog.Warn("module failed", "audit_id", a.ID, "module", res.Module)
		}

		row, err := moduleResultRow(a.ID, res)
		if err != nil {
			return r.abort(a, tracker, fmt.Errorf("encode %s result: %w", res.Module, err))
		}
		if err := r.db.CreateModuleResult(row); err != nil {
			return r.abort(a, tracker, fmt.Errorf("store %s result: %w", res.Module, err))
		}
	}

	overall := scoring.AggregateMap(moduleScores, r.cfg.ModuleWeights)
	if err := r.db.CompleteAudit(a.ID, overall, "Audit completed"); err != nil {
		return r.abort(a, tracker, fmt.Errorf("complete audit: %w", err))
	}
	tracker.Complete(true, "Audit completed")

	now := time.Now()
	a.Status = "completed"
	a.OverallScore = &overall
	a.Progress = 100
	a.Message = "Audit completed"
	a.CompletedAt = &now

	slog.Info("audit completed", "audit_id", a.ID, "target", a.Target,
		"score", overall, "duration", time.Since(start))

	previous, err := r.db.GetPreviousCompletedAudit(a.Target, a.ID)
	if err != nil {
		// The audit itself is already terminal; a diff that cannot load
		// history is logged and skipped, not surfaced to the caller.
		slog.Error("load previous audit failed", "audit_id", a.ID, "error", err)
		previous = nil
	}
	if r.notifier != nil {
		r.notifier.Process(ctx, a, results, previous)
	}

	return a, nil
}

func (r *Runner) abort(a *database.Audit, tracker *Tracker, cause error) (*database.Audit, error) {
	if err := r.db.FailAudit(a.ID, cause.Error()); err != nil {
		slog.Error("record audit failure", "audit_id", a.ID, "error", err)
	}
	tracker.Complete(false, "Audit failed")
	a.Status = "failed"
	a.Error = cause.Error()
	return a, cause
}

// enabledModules filters the registry by the requested identifiers while
// preserving registry order. An empty request enables every module.
func (r *Runner) enabledModules(requested []string) []Analyzer {
	if len(requested) == 0 {
		return r.modules
	}
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		want[name] = true
	}
	var enabled []Analyzer
	for _, m := range r.modules {
		if want[m.Name()] {
			enabled = append(enabled, m)
			delete(want, m.Name())
		}
	}
	for name := range want {
		slog.Warn("unknown module requested", "module", name)
	}
	return enabled
}

func moduleResultRow(auditID int64, res ModuleResult) (*database.ModuleResult, error) {
	issues := res.Issues
	if issues == nil {
		issues = []Issue{}
	}
	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return nil, err
	}

	detailsJSON := []byte("{}")
	if res.Details != nil {
		detailsJSON, err = json.Marshal(res.Details)
		if err != nil {
			return nil, err
		}
	}

	return &database.ModuleResult{
		AuditID: auditID,
		Module:  res.Module,
		Score:   res.Score,
		Status:  res.Status,
		Issues:  string(issuesJSON),
		Details: string(detailsJSON),
	}, nil
}
