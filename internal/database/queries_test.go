package database_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/nawedy/automatiq/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var auditIgnores = cmpopts.IgnoreFields(database.Audit{}, "ID", "StartedAt", "CompletedAt", "CreatedAt")

func TestAuditLifecycle(t *testing.T) {
	db := newTestDB(t)

	a := &database.Audit{
		UUID:        "aud-1",
		Target:      "https://example.com",
		RequestedBy: "u1",
		Status:      "queued",
		Message:     "Audit queued",
	}
	if err := db.CreateAudit(a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("create did not assign an id")
	}

	got, err := db.GetAudit(a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(a, got, auditIgnores); diff != "" {
		t.Fatalf("stored audit mismatch (-want +got):\n%s", diff)
	}

	byUUID, err := db.GetAuditByUUID("aud-1")
	if err != nil {
		t.Fatalf("get by uuid: %v", err)
	}
	if byUUID == nil || byUUID.ID != a.ID {
		t.Fatalf("get by uuid = %+v", byUUID)
	}

	if err := db.UpdateAuditStatus(a.ID, "running"); err != nil {
		t.Fatalf("mark running: %v", err)
	}
	running, err := db.GetAudit(a.ID)
	if err != nil {
		t.Fatalf("get running: %v", err)
	}
	if running.Status != "running" || running.StartedAt == nil {
		t.Fatalf("running audit = %+v", running)
	}

	if err := db.CompleteAudit(a.ID, 87, "Audit completed"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	done, err := db.GetAudit(a.ID)
	if err != nil {
		t.Fatalf("get completed: %v", err)
	}
	want := &database.Audit{
		UUID:        "aud-1",
		Target:      "https://example.com",
		RequestedBy: "u1",
		Status:      "completed",
		OverallScore: func() *int {
			s := 87
			return &s
		}(),
		Progress: 100,
		Message:  "Audit completed",
	}
	if diff := cmp.Diff(want, done, auditIgnores); diff != "" {
		t.Fatalf("completed audit mismatch (-want +got):\n%s", diff)
	}
	if done.CompletedAt == nil {
		t.Fatal("completed audit has no completion time")
	}
}

func TestGetAuditMissing(t *testing.T) {
	db := newTestDB(t)

	a, err := db.GetAudit(999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a != nil {
		t.Fatalf("missing audit = %+v, want nil", a)
	}
}

func TestFailAudit(t *testing.T) {
	db := newTestDB(t)

	a := &database.Audit{UUID: "aud-f", Target: "https://example.com", Status: "running"}
	if err := db.CreateAudit(a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.FailAudit(a.ID, "store seo result: disk full"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	got, err := db.GetAudit(a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != "failed" || got.Error != "store seo result: disk full" || got.CompletedAt == nil {
		t.Fatalf("failed audit = %+v", got)
	}
	if got.OverallScore != nil {
		t.Fatalf("failed audit has score %d", *got.OverallScore)
	}
}

func TestGetPreviousCompletedAudit(t *testing.T) {
	db := newTestDB(t)

	mk := func(uuid, target, status string, score int) *database.Audit {
		a := &database.Audit{UUID: uuid, Target: target, Status: "queued"}
		if err := db.CreateAudit(a); err != nil {
			t.Fatalf("create %s: %v", uuid, err)
		}
		switch status {
		case "completed":
			if err := db.CompleteAudit(a.ID, score, "done"); err != nil {
				t.Fatalf("complete %s: %v", uuid, err)
			}
		case "failed":
			if err := db.FailAudit(a.ID, "boom"); err != nil {
				t.Fatalf("fail %s: %v", uuid, err)
			}
		}
		return a
	}

	first := mk("a1", "https://example.com", "completed", 80)
	mk("a2", "https://example.com", "failed", 0)
	mk("a3", "https://other.example.com", "completed", 95)
	current := mk("a4", "https://example.com", "running", 0)

	prev, err := db.GetPreviousCompletedAudit("https://example.com", current.ID)
	if err != nil {
		t.Fatalf("get previous: %v", err)
	}
	if prev == nil || prev.ID != first.ID {
		t.Fatalf("previous = %+v, want audit %d", prev, first.ID)
	}
	if prev.OverallScore == nil || *prev.OverallScore != 80 {
		t.Fatalf("previous score = %v, want 80", prev.OverallScore)
	}

	none, err := db.GetPreviousCompletedAudit("https://example.com", first.ID)
	if err != nil {
		t.Fatalf("get previous of first: %v", err)
	}
	if none != nil {
		t.Fatalf("first audit has previous %+v", none)
	}
}

func TestModuleResultsOrderedByInsertion(t *testing.T) {
	db := newTestDB(t)

	a := &database.Audit{UUID: "aud-m", Target: "https://example.com", Status: "running"}
	if err := db.CreateAudit(a); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, module := range []string{"seo", "performance", "security"} {
		err := db.CreateModuleResult(&database.ModuleResult{
			AuditID: a.ID,
			Module:  module,
			Score:   50,
			Status:  "ok",
			Issues:  "[]",
			Details: "{}",
		})
		if err != nil {
			t.Fatalf("insert %s: %v", module, err)
		}
	}

	results, err := db.GetModuleResultsByAudit(a.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var order []string
	for _, r := range results {
		order = append(order, r.Module)
	}
	want := []string{"seo", "performance", "security"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("module order mismatch (-want +got):\n%s", diff)
	}
}

func TestNotificationLifecycle(t *testing.T) {
	db := newTestDB(t)

	// Notifications reference an audit row, so a parent must exist first.
	a := &database.Audit{UUID: "aud-n", Target: "https://example.com", RequestedBy: "u1", Status: "completed"}
	if err := db.CreateAudit(a); err != nil {
		t.Fatalf("create audit: %v", err)
	}

	n1 := &database.Notification{UserID: "u1", AuditID: a.ID, Target: "https://example.com", Type: "score_drop", Priority: "high", Title: "t1", Message: "m1"}
	n2 := &database.Notification{UserID: "u1", AuditID: a.ID, Target: "https://example.com", Type: "score_alert", Priority: "high", Title: "t2", Message: "m2"}
	other := &database.Notification{UserID: "u2", AuditID: a.ID, Target: "https://example.com", Type: "score_alert", Priority: "high", Title: "t3", Message: "m3"}
	for _, n := range []*database.Notification{n1, n2, other} {
		if err := db.CreateNotification(n); err != nil {
			t.Fatalf("create notification: %v", err)
		}
	}

	all, err := db.ListNotificationsByUser("u1", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("u1 notifications = %d, want 2", len(all))
	}

	if err := db.MarkNotificationRead(n1.ID, "u1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unread, err := db.ListNotificationsByUser("u1", true)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != n2.ID {
		t.Fatalf("unread = %+v, want only %d", unread, n2.ID)
	}

	// A user cannot delete another user's notification.
	if err := db.DeleteNotification(n2.ID, "u2"); err != nil {
		t.Fatalf("cross-user delete: %v", err)
	}
	remaining, err := db.ListNotificationsByUser("u1", false)
	if err != nil {
		t.Fatalf("list after cross-user delete: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("cross-user delete removed a row, have %d", len(remaining))
	}

	if err := db.DeleteNotification(n2.ID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	remaining, err = db.ListNotificationsByUser("u1", false)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != n1.ID {
		t.Fatalf("after delete = %+v", remaining)
	}
}

func TestAlertPrefsDefaultsAndUpsert(t *testing.T) {
	db := newTestDB(t)

	p, err := db.GetAlertPrefs("u1", 70, 5)
	if err != nil {
		t.Fatalf("get defaults: %v", err)
	}
	want := &database.AlertPrefs{UserID: "u1", MinScoreThreshold: 70, MinScoreDrop: 5}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("default prefs mismatch (-want +got):\n%s", diff)
	}

	if err := db.SaveAlertPrefs(&database.AlertPrefs{UserID: "u1", MinScoreThreshold: 85, MinScoreDrop: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.SaveAlertPrefs(&database.AlertPrefs{UserID: "u1", MinScoreThreshold: 90, MinScoreDrop: 10}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	p, err = db.GetAlertPrefs("u1", 70, 5)
	if err != nil {
		t.Fatalf("get saved: %v", err)
	}
	want = &database.AlertPrefs{UserID: "u1", MinScoreThreshold: 90, MinScoreDrop: 10}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("saved prefs mismatch (-want +got):\n%s", diff)
	}
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t)

	a := &database.Audit{UUID: "aud-s1", Target: "https://example.com", Status: "queued"}
	if err := db.CreateAudit(a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.CompleteAudit(a.ID, 80, "done"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	b := &database.Audit{UUID: "aud-s2", Target: "https://example.com", Status: "queued"}
	if err := db.CreateAudit(b); err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.AuditCount != 2 || stats.CompletedCount != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}
