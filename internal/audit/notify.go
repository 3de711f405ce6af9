package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nawedy/automatiq/internal/config"
	"github.com/nawedy/automatiq/internal/database"
)

// Notifier compares a completed audit against the previous one for the same
// target, applies threshold rules and critical-issue scanning, and writes
// prioritized notifications plus external alert triggers.
//
// Process never returns an error: each rule and each notification is
// evaluated independently, and a failure in one is logged and skipped so the
// rest still land.
type Notifier struct {
	db        *database.DB
	transport AlertTransport
	cfg       config.AuditConfig
}

func NewNotifier(db *database.DB, transport AlertTransport, cfg config.AuditConfig) *Notifier {
	if transport == nil {
		transport = NopTransport{}
	}
	return &Notifier{db: db, transport: transport, cfg: cfg}
}

func (n *Notifier) Process(ctx context.Context, current *database.Audit, results []ModuleResult, previous *database.Audit) {
	if current == nil || current.OverallScore == nil {
		return
	}
	score := *current.OverallScore

	prefs := n.prefsFor(current.RequestedBy)

	// Low absolute score.
	if score < prefs.MinScoreThreshold {
		n.create(current, &database.Notification{
			Type:     NotifyScoreAlert,
			Priority: PriorityHigh,
			Title:    fmt.Sprintf("Audit score below threshold for %s", current.Target),
			Message: fmt.Sprintf("The latest audit scored %d, below your alert threshold of %d.",
				score, prefs.MinScoreThreshold),
		})
	}

	// Overall score drop against the previous audit.
	if previous != nil && previous.OverallScore != nil {
		drop := *previous.OverallScore - score
		if drop >= prefs.MinScoreDrop {
			n.create(current, &database.Notification{
				Type:     NotifyScoreDrop,
				Priority: PriorityHigh,
				Title:    fmt.Sprintf("Audit score dropped %d points for %s", drop, current.Target),
				Message: fmt.Sprintf("The overall score fell from %d to %d since the previous audit.",
					*previous.OverallScore, score),
			})
			if drop >= 10 {
				n.alert(ctx, current, PriorityUrgent,
					fmt.Sprintf("Severe score drop for %s", current.Target),
					fmt.Sprintf("Overall audit score fell from %d to %d.", *previous.OverallScore, score))
			}
		}

		n.categoryDrops(current, results, previous, prefs)
	}

	// Critical issues bypass score thresholds entirely.
	critical := collectCriticalIssues(results)
	if len(critical) > 0 {
		listed := critical
		suffix := ""
		if len(listed) > 3 {
			listed = listed[:3]
			suffix = ", ..."
		}
		summary := strings.Join(listed, "; ") + suffix

		n.create(current, &database.Notification{
			Type:     NotifyCriticalIssue,
			Priority: PriorityUrgent,
			Title:    fmt.Sprintf("%d critical issue(s) found on %s", len(critical), current.Target),
			Message:  summary,
		})
		n.alert(ctx, current, PriorityCritical,
			fmt.Sprintf("Critical issues on %s", current.Target), summary)
	}
}

func (n *Notifier) categoryDrops(current *database.Audit, results []ModuleResult, previous *database.Audit, prefs *database.AlertPrefs) {
	prevResults, err := n.db.GetModuleResultsByAudit(previous.ID)
	if err != nil {
		slog.Error("load previous module results failed", "audit_id", previous.ID, "error", err)
		return
	}
	prevScores := make(map[string]int, len(prevResults))
	for _, pr := range prevResults {
		prevScores[pr.Module] = pr.Score
	}

	for _, res := range results {
		prev, ok := prevScores[res.Module]
		if !ok {
			continue
		}
		drop := prev - res.Score
		if drop < prefs.MinScoreDrop {
			continue
		}

		notifType := NotifyCategoryDrop
		if res.Module == "performance" {
			notifType = NotifyPerformanceDrop
		}
		n.create(current, &database.Notification{
			Type:     notifType,
			Priority: PriorityMedium,
			Title:    fmt.Sprintf("%s score dropped %d points for %s", res.Module, drop, current.Target),
			Message: fmt.Sprintf("The %s module scored %d, down from %d in the previous audit.",
				res.Module, res.Score, prev),
		})
	}
}

// collectCriticalIssues scans typed module payloads for always-actionable
// signals. The per-module thresholds intentionally differ: a single SSL or
// vulnerability finding counts, while accessibility needs more than five
// critical violations.
func collectCriticalIssues(results []ModuleResult) []string {
	var found []string

	for _, res := range results {
		switch d := res.Details.(type) {
		case SecurityDetails:
			for _, issue := range d.SSLIssues {
				found = append(found, "SSL/TLS: "+issue)
			}
			for _, vuln := range d.Vulnerabilities {
				found = append(found, "Vulnerability: "+vuln)
			}
		case PerformanceDetails:
			if d.WebVitals.LCPScore > 0 && d.WebVitals.LCPScore < 50 {
				found = append(found, fmt.Sprintf("Core Web Vitals: LCP score %d is below 50", d.WebVitals.LCPScore))
			}
			if d.WebVitals.FIDScore > 0 && d.WebVitals.FIDScore < 50 {
				found = append(found, fmt.Sprintf("Core Web Vitals: FID score %d is below 50", d.WebVitals.FIDScore))
			}
			if d.WebVitals.CLSScore > 0 && d.WebVitals.CLSScore < 50 {
				found = append(found, fmt.Sprintf("Core Web Vitals: CLS score %d is below 50", d.WebVitals.CLSScore))
			}
		case AccessibilityDetails:
			criticalCount := 0
			for _, v := range d.Violations {
				if v.Impact == "critical" {
					criticalCount += v.Count
				}
			}
			if criticalCount > 5 {
				found = append(found, fmt.Sprintf("Accessibility: %d critical violations", criticalCount))
			}
		case MobileDetails:
			if !d.ViewportPresent {
				found = append(found, "Mobile: viewport meta tag is missing")
			} else if !d.ViewportValid {
				found = append(found, "Mobile: viewport configuration is invalid")
			}
		}
	}

	return found
}

func (n *Notifier) prefsFor(userID string) *database.AlertPrefs {
	if userID == "" {
		return &database.AlertPrefs{
			MinScoreThreshold: n.cfg.MinScoreThreshold,
			MinScoreDrop:      n.cfg.MinScoreDrop,
		}
	}
	prefs, err := n.db.GetAlertPrefs(userID, n.cfg.MinScoreThreshold, n.cfg.MinScoreDrop)
	if err != nil {
		slog.Error("load alert prefs failed", "user", userID, "error", err)
		return &database.AlertPrefs{
			MinScoreThreshold: n.cfg.MinScoreThreshold,
			MinScoreDrop:      n.cfg.MinScoreDrop,
		}
	}
	return prefs
}

// create persists one notification for the audit's requester. Anonymous
// audits have no inbox; rule evaluation still ran so external alerts fire.
func (n *Notifier) create(current *database.Audit, notif *database.Notification) {
	if current.RequestedBy == "" {
		return
	}
	notif.UserID = current.RequestedBy
	notif.AuditID = current.ID
	notif.Target = current.Target
	if err := n.db.CreateNotification(notif); err != nil {
		slog.Error("create notification failed", "audit_id", current.ID, "type", notif.Type, "error", err)
	}
}

func (n *Notifier) alert(ctx context.Context, current *database.Audit, priority, subject, message string) {
	if err := n.transport.Send(ctx, priority, subject, message, current.UUID); err != nil {
		slog.Error("alert delivery failed", "audit_id", current.ID, "error", err)
	}
}
