package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AlertTransport delivers out-of-band alerts (email, webhook, chat). The
// pipeline decides when to call it; delivery mechanics live behind it.
type AlertTransport interface {
	Send(ctx context.Context, priority, subject, message, auditRef string) error
}

// NopTransport is used when no alert channel is configured.
type NopTransport struct{}

func (NopTransport) Send(ctx context.Context, priority, subject, message, auditRef string) error {
	return nil
}

// WebhookTransport POSTs alert payloads as JSON to a configured endpoint.
type WebhookTransport struct {
	URL    string
	client *http.Client
}

func NewWebhookTransport(url string) *WebhookTransport {
	return &WebhookTransport{
		URL:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type alertPayload struct {
	Priority string    `json:"priority"`
	Subject  string    `json:"subject"`
	Message  string    `json:"message"`
	AuditRef string    `json:"audit_ref"`
	SentAt   time.Time `json:"sent_at"`
}

func (t *WebhookTransport) Send(ctx context.Context, priority, subject, message, auditRef string) error {
	body, err := json.Marshal(alertPayload{
		Priority: priority,
		Subject:  subject,
		Message:  message,
		AuditRef: auditRef,
		SentAt:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert endpoint returned %s", resp.Status)
	}
	return nil
}
