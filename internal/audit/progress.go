package audit

import (
	"log/slog"
	"math"
	"time"

	"github.com/nawedy/automatiq/internal/database"
)

// ProgressEvent is broadcast to subscribed clients on every tracker update.
type ProgressEvent struct {
	AuditID int64     `json:"audit_id"`
	Status  string    `json:"status"`
	Percent int       `json:"percent"`
	Module  string    `json:"module,omitempty"`
	Message string    `json:"message"`
	Done    bool      `json:"done,omitempty"`
	At      time.Time `json:"at"`
}

// Broadcaster delivers progress events to live observers (websocket hub).
type Broadcaster interface {
	Broadcast(auditID int64, ev ProgressEvent)
}

// ShouldPersist decides whether a progress change warrants a database write.
// Writes happen when the percentage crosses a 5-point boundary or when at
// least five seconds passed since the last write, which bounds write volume
// on fast pipelines without letting persisted progress go stale.
func ShouldPersist(prevPercent, newPercent int, sinceLast time.Duration) bool {
	if newPercent/5 != prevPercent/5 {
		return true
	}
	return sinceLast >= 5*time.Second
}

// Tracker owns the step counter and progress state for one audit run.
// The percentage it reports is capped at 99; 100 is reserved for the
// orchestrator's terminal Complete call so observers never see a finished
// percentage while a module is still mid-flight.
type Tracker struct {
	db          *database.DB
	broadcaster Broadcaster
	auditID     int64
	total       int
	percent     int
	started     time.Time
	lastWrite   time.Time
	lastWritten int
	duration    time.Duration
}

func NewTracker(db *database.DB, broadcaster Broadcaster, auditID int64, totalSteps int) *Tracker {
	return &Tracker{
		db:          db,
		broadcaster: broadcaster,
		auditID:     auditID,
		total:       totalSteps,
		started:     time.Now(),
		lastWrite:   time.Now(),
	}
}

// Percent returns the last computed progress percentage.
func (t *Tracker) Percent() int { return t.percent }

// Duration returns the elapsed run time recorded by Complete.
func (t *Tracker) Duration() time.Duration { return t.duration }

// Update advances progress to the given step and broadcasts the change.
// The counter only moves forward; a stale step never rewinds it.
func (t *Tracker) Update(module string, step int, message string) {
	percent := 99
	if t.total > 0 {
		percent = int(math.Round(float64(step) / float64(t.total) * 100))
		if percent > 99 {
			percent = 99
		}
	}
	if percent < t.percent {
		percent = t.percent
	}
	t.percent = percent

	if t.broadcaster != nil {
		t.broadcaster.Broadcast(t.auditID, ProgressEvent{
			AuditID: t.auditID,
			Status:  "running",
			Percent: percent,
			Module:  module,
			Message: message,
			At:      time.Now(),
		})
	}

	if ShouldPersist(t.lastWritten, percent, time.Since(t.lastWrite)) {
		if err := t.db.UpdateAuditProgress(t.auditID, percent, message); err != nil {
			slog.Error("persist progress failed", "audit_id", t.auditID, "error", err)
			return
		}
		t.lastWritten = percent
		t.lastWrite = time.Now()
	}
}

// Complete records the terminal progress state. On success the percentage
// becomes exactly 100; on failure the last computed percentage is kept.
func (t *Tracker) Complete(success bool, message string) {
	t.duration = time.Since(t.started)
	status := "failed"
	if success {
		t.percent = 100
		status = "completed"
	}

	if err := t.db.UpdateAuditProgress(t.auditID, t.percent, message); err != nil {
		slog.Error("persist final progress failed", "audit_id", t.auditID, "error", err)
	}

	if t.broadcaster != nil {
		t.broadcaster.Broadcast(t.auditID, ProgressEvent{
			AuditID: t.auditID,
			Status:  status,
			Percent: t.percent,
			Message: message,
			Done:    true,
			At:      time.Now(),
		})
	}
}
