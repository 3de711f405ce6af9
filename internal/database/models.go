package database

import "time"

type Audit struct {
	ID           int64      `json:"id"`
	UUID         string     `json:"uuid"`
	Target       string     `json:"target"`
	RequestedBy  string     `json:"requested_by,omitempty"`
	Status       string     `json:"status"`
	OverallScore *int       `json:"overall_score,omitempty"`
	Progress     int        `json:"progress"`
	Message      string     `json:"message"`
	Error        string     `json:"error,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type ModuleResult struct {
	ID        int64     `json:"id"`
	AuditID   int64     `json:"audit_id"`
	Module    string    `json:"module"`
	Score     int       `json:"score"`
	Status    string    `json:"status"`
	Issues    string    `json:"issues"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	AuditID   int64     `json:"audit_id"`
	Target    string    `json:"target"`
	Type      string    `json:"type"`
	Priority  string    `json:"priority"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type AlertPrefs struct {
	UserID            string `json:"user_id"`
	MinScoreThreshold int    `json:"min_score_threshold"`
	MinScoreDrop      int    `json:"min_score_drop"`
}
