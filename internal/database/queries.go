package database

import (
	"database/sql"
	"fmt"
	"time"
)

// --- Audits ---

func (db *DB) CreateAudit(a *Audit) error {
	res, err := db.Exec(
		`INSERT INTO audits (uuid, target, requested_by, status, progress, message) VALUES (?, ?, ?, ?, ?, ?)`,
		a.UUID, a.Target, a.RequestedBy, a.Status, a.Progress, a.Message,
	)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	a.ID, _ = res.LastInsertId()
	return nil
}

const auditColumns = `id, uuid, target, requested_by, status, overall_score, progress, message, error, started_at, completed_at, created_at`

func scanAudit(row interface{ Scan(...any) error }) (*Audit, error) {
	a := &Audit{}
	err := row.Scan(&a.ID, &a.UUID, &a.Target, &a.RequestedBy, &a.Status, &a.OverallScore,
		&a.Progress, &a.Message, &a.Error, &a.StartedAt, &a.CompletedAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (db *DB) GetAudit(id int64) (*Audit, error) {
	a, err := scanAudit(db.QueryRow(`SELECT `+auditColumns+` FROM audits WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get audit: %w", err)
	}
	return a, nil
}

func (db *DB) GetAuditByUUID(uuid string) (*Audit, error) {
	a, err := scanAudit(db.QueryRow(`SELECT `+auditColumns+` FROM audits WHERE uuid = ?`, uuid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get audit by uuid: %w", err)
	}
	return a, nil
}

func (db *DB) ListAudits(limit int) ([]Audit, error) {
	rows, err := db.Query(`SELECT `+auditColumns+` FROM audits ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var audits []Audit
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		audits = append(audits, *a)
	}
	return audits, rows.Err()
}

// GetPreviousCompletedAudit returns the most recent completed audit for the
// same target that finished before the given audit, or nil if none exists.
func (db *DB) GetPreviousCompletedAudit(target string, beforeID int64) (*Audit, error) {
	a, err := scanAudit(db.QueryRow(
		`SELECT `+auditColumns+` FROM audits
		 WHERE target = ? AND status = 'completed' AND id < ?
		 ORDER BY id DESC LIMIT 1`, target, beforeID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get previous audit: %w", err)
	}
	return a, nil
}

func (db *DB) UpdateAuditProgress(id int64, progress int, message string) error {
	_, err := db.Exec(`UPDATE audits SET progress = ?, message = ? WHERE id = ?`, progress, message, id)
	if err != nil {
		return fmt.Errorf("update audit progress: %w", err)
	}
	return nil
}

func (db *DB) UpdateAuditStatus(id int64, status string) error {
	now := time.Now()
	switch status {
	case "running":
		_, err := db.Exec(`UPDATE audits SET status = ?, started_at = ? WHERE id = ?`, status, now, id)
		return err
	case "completed", "failed":
		_, err := db.Exec(`UPDATE audits SET status = ?, completed_at = ? WHERE id = ?`, status, now, id)
		return err
	default:
		_, err := db.Exec(`UPDATE audits SET status = ? WHERE id = ?`, status, id)
		return err
	}
}

func (db *DB) CompleteAudit(id int64, overallScore int, message string) error {
	_, err := db.Exec(
		`UPDATE audits SET status = 'completed', overall_score = ?, progress = 100, message = ?, completed_at = ? WHERE id = ?`,
		overallScore, message, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("complete audit: %w", err)
	}
	return nil
}

func (db *DB) FailAudit(id int64, errMsg string) error {
	_, err := db.Exec(
		`UPDATE audits SET status = 'failed', error = ?, message = 'Audit failed', completed_at = ? WHERE id = ?`,
		errMsg, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("fail audit: %w", err)
	}
	return nil
}

// --- Module results ---

func (db *DB) CreateModuleResult(r *ModuleResult) error {
	res, err := db.Exec(
		`INSERT INTO module_results (audit_id, module, score, status, issues, details) VALUES (?, ?, ?, ?, ?, ?)`,
		r.AuditID, r.Module, r.Score, r.Status, r.Issues, r.Details,
	)
	if err != nil {
		return fmt.Errorf("insert module result: %w", err)
	}
	r.ID, _ = res.LastInsertId()
	return nil
}

func (db *DB) GetModuleResultsByAudit(auditID int64) ([]ModuleResult, error) {
	rows, err := db.Query(
		`SELECT id, audit_id, module, score, status, issues, details, created_at
		 FROM module_results WHERE audit_id = ? ORDER BY id`, auditID,
	)
	if err != nil {
		return nil, fmt.Errorf("list module results: %w", err)
	}
	defer rows.Close()

	var results []ModuleResult
	for rows.Next() {
		var r ModuleResult
		if err := rows.Scan(&r.ID, &r.AuditID, &r.Module, &r.Score, &r.Status, &r.Issues, &r.Details, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan module result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// --- Notifications ---

func (db *DB) CreateNotification(n *Notification) error {
	res, err := db.Exec(
		`INSERT INTO notifications (user_id, audit_id, target, type, priority, title, message, read)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		n.UserID, n.AuditID, n.Target, n.Type, n.Priority, n.Title, n.Message,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	n.ID, _ = res.LastInsertId()
	return nil
}

func (db *DB) ListNotificationsByUser(userID string, unreadOnly bool) ([]Notification, error) {
	q := `SELECT id, user_id, audit_id, target, type, priority, title, message, read, created_at
	      FROM notifications WHERE user_id = ?`
	if unreadOnly {
		q += ` AND read = 0`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := db.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.AuditID, &n.Target, &n.Type, &n.Priority, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (db *DB) MarkNotificationRead(id int64, userID string) error {
	_, err := db.Exec(`UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (db *DB) DeleteNotification(id int64, userID string) error {
	_, err := db.Exec(`DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// --- Alert preferences ---

// GetAlertPrefs returns the stored thresholds for a user, or the provided
// defaults when the user has never saved any.
func (db *DB) GetAlertPrefs(userID string, defaultThreshold, defaultDrop int) (*AlertPrefs, error) {
	p := &AlertPrefs{UserID: userID}
	err := db.QueryRow(
		`SELECT min_score_threshold, min_score_drop FROM alert_prefs WHERE user_id = ?`, userID,
	).Scan(&p.MinScoreThreshold, &p.MinScoreDrop)
	if err == sql.ErrNoRows {
		p.MinScoreThreshold = defaultThreshold
		p.MinScoreDrop = defaultDrop
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get alert prefs: %w", err)
	}
	return p, nil
}

func (db *DB) SaveAlertPrefs(p *AlertPrefs) error {
	_, err := db.Exec(
		`INSERT INTO alert_prefs (user_id, min_score_threshold, min_score_drop) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET min_score_threshold = excluded.min_score_threshold,
		 min_score_drop = excluded.min_score_drop, updated_at = CURRENT_TIMESTAMP`,
		p.UserID, p.MinScoreThreshold, p.MinScoreDrop,
	)
	if err != nil {
		return fmt.Errorf("save alert prefs: %w", err)
	}
	return nil
}

// --- Stats ---

type DashboardStats struct {
	AuditCount        int `json:"audit_count"`
	CompletedCount    int `json:"completed_count"`
	NotificationCount int `json:"notification_count"`
}

func (db *DB) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	db.QueryRow(`SELECT COUNT(*) FROM audits`).Scan(&stats.AuditCount)
	db.QueryRow(`SELECT COUNT(*) FROM audits WHERE status = 'completed'`).Scan(&stats.CompletedCount)
	db.QueryRow(`SELECT COUNT(*) FROM notifications`).Scan(&stats.NotificationCount)
	return stats, nil
}
