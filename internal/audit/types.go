package audit

// AuditRequest describes one audit to run. Immutable once the pipeline starts.
type AuditRequest struct {
	Target      string   `json:"target"`
	Modules     []string `json:"modules,omitempty"`
	RequestedBy string   `json:"requested_by,omitempty"`
}

// Issue severities. Modules may tag issues explicitly; untagged issues are
// classified by keyword when the notification engine needs a severity.
const (
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
)

type Issue struct {
	Description string `json:"description"`
	Severity    string `json:"severity,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Module completion statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ModuleResult is one module's outcome. Created once per module per audit
// and never mutated after the module completes.
type ModuleResult struct {
	Module  string  `json:"module"`
	Score   int     `json:"score"`
	Status  string  `json:"status"`
	Issues  []Issue `json:"issues"`
	Details Details `json:"details,omitempty"`
}

// Notification types.
const (
	NotifyScoreAlert      = "score_alert"
	NotifyScoreDrop       = "score_drop"
	NotifyCategoryDrop    = "category_drop"
	NotifyCriticalIssue   = "critical_issue"
	NotifyPerformanceDrop = "performance_degradation"
)

// Notification priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityUrgent   = "urgent"
	PriorityCritical = "critical"
)
