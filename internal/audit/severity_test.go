package audit_test

import (
	"testing"

	"github.com/nawedy/automatiq/internal/audit"
)

func TestInferSeverity(t *testing.T) {
	tests := []struct {
		name  string
		issue audit.Issue
		want  string
	}{
		{"explicit tag wins", audit.Issue{Description: "minor nit", Severity: audit.SeverityCritical}, audit.SeverityCritical},
		{"security keyword", audit.Issue{Description: "Missing security header Content-Security-Policy"}, audit.SeverityCritical},
		{"vulnerability keyword", audit.Issue{Description: "Known vulnerability in server banner"}, audit.SeverityCritical},
		{"missing https", audit.Issue{Description: "Page served with missing HTTPS"}, audit.SeverityCritical},
		{"performance keyword", audit.Issue{Description: "Performance budget exceeded"}, audit.SeverityMajor},
		{"slow keyword", audit.Issue{Description: "Server responded slow on first byte"}, audit.SeverityMajor},
		{"seo keyword", audit.Issue{Description: "Title tag hurts SEO ranking"}, audit.SeverityMajor},
		{"no keyword", audit.Issue{Description: "Paragraph is a little long"}, audit.SeverityMinor},
		{"empty description", audit.Issue{}, audit.SeverityMinor},
		{"critical beats major", audit.Issue{Description: "critical performance regression"}, audit.SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := audit.InferSeverity(tt.issue); got != tt.want {
				t.Fatalf("InferSeverity(%+v) = %q, want %q", tt.issue, got, tt.want)
			}
		})
	}
}
