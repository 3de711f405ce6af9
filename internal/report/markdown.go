package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/database"
)

type Generator struct {
	db         *database.DB
	reportsDir string
	fontPath   string
}

func NewGenerator(db *database.DB, reportsDir string) *Generator {
	return &Generator{db: db, reportsDir: reportsDir}
}

// SetFont configures the TTF font used for PDF rendering.
func (g *Generator) SetFont(path string) { g.fontPath = path }

func (g *Generator) GenerateMarkdown(auditID int64) (string, error) {
	a, err := g.db.GetAudit(auditID)
	if err != nil || a == nil {
		return "", fmt.Errorf("audit not found")
	}

	results, err := g.db.GetModuleResultsByAudit(auditID)
	if err != nil {
		return "", fmt.Errorf("listing module results: %w", err)
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Website Audit Report: %s\n\n", a.Target))
	b.WriteString(fmt.Sprintf("**Generated:** %s  \n", time.Now().Format("January 2, 2006 15:04:05 MST")))
	b.WriteString("**Tool:** AutomatIQ  \n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString(fmt.Sprintf("**Status:** %s  \n", a.Status))
	if a.OverallScore != nil {
		b.WriteString(fmt.Sprintf("**Overall score:** %d/100  \n", *a.OverallScore))
	}
	if a.StartedAt != nil {
		b.WriteString(fmt.Sprintf("**Started:** %s  \n", a.StartedAt.Format(time.RFC3339)))
	}
	if a.CompletedAt != nil {
		b.WriteString(fmt.Sprintf("**Completed:** %s  \n", a.CompletedAt.Format(time.RFC3339)))
		if a.StartedAt != nil {
			b.WriteString(fmt.Sprintf("**Duration:** %s  \n", a.CompletedAt.Sub(*a.StartedAt).Round(time.Millisecond)))
		}
	}
	b.WriteString("\n")

	if len(results) > 0 {
		b.WriteString("| Module | Score | Status |\n")
		b.WriteString("|---|---|---|\n")
		for _, r := range results {
			b.WriteString(fmt.Sprintf("| %s | %d | %s |\n", r.Module, r.Score, r.Status))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Findings by Module\n\n")
	for _, r := range results {
		b.WriteString(fmt.Sprintf("### %s — %d/100\n\n", r.Module, r.Score))
		if r.Status == audit.StatusFailed {
			b.WriteString("This module failed to complete.\n\n")
		}

		var issues []audit.Issue
		if err := json.Unmarshal([]byte(r.Issues), &issues); err != nil || len(issues) == 0 {
			b.WriteString("No issues recorded.\n\n")
			continue
		}

		b.WriteString("| Severity | Issue |\n")
		b.WriteString("|---|---|\n")
		for _, issue := range issues {
			severity := audit.InferSeverity(issue)
			desc := issue.Description
			if len(desc) > 200 {
				desc = desc[:200] + "..."
			}
			b.WriteString(fmt.Sprintf("| %s | %s |\n", severity, desc))
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func (g *Generator) SaveMarkdown(auditID int64) (string, error) {
	content, err := g.GenerateMarkdown(auditID)
	if err != nil {
		return "", err
	}

	a, _ := g.db.GetAudit(auditID)
	name := "audit"
	if a != nil {
		name = slugify(a.Target)
	}

	os.MkdirAll(g.reportsDir, 0755)
	filename := fmt.Sprintf("%s-%s.md", name, time.Now().Format("20060102-150405"))
	path := filepath.Join(g.reportsDir, filename)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

func slugify(target string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(target, "https://"), "http://")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, s)
	return strings.Trim(s, "-")
}
