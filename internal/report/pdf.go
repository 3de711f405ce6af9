package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/signintech/gopdf"

	"github.com/nawedy/automatiq/internal/audit"
)

// GeneratePDF renders the audit report as a PDF file and returns its path.
// Requires a TTF font configured via SetFont.
func (g *Generator) GeneratePDF(auditID int64) (string, error) {
	if g.fontPath == "" {
		return "", fmt.Errorf("no PDF font configured")
	}

	a, err := g.db.GetAudit(auditID)
	if err != nil || a == nil {
		return "", fmt.Errorf("audit not found")
	}
	results, err := g.db.GetModuleResultsByAudit(auditID)
	if err != nil {
		return "", fmt.Errorf("listing module results: %w", err)
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFont("report", g.fontPath); err != nil {
		return "", fmt.Errorf("loading font: %w", err)
	}

	line := func(size float64, text string) {
		pdf.SetFont("report", "", size)
		pdf.SetX(40)
		pdf.Cell(nil, text)
		pdf.Br(size + 6)
		if pdf.GetY() > 780 {
			pdf.AddPage()
			pdf.SetY(40)
		}
	}

	pdf.SetY(40)
	line(18, "Website Audit Report")
	line(12, "Target: "+a.Target)
	line(10, "Generated: "+time.Now().Format(time.RFC1123))
	if a.OverallScore != nil {
		line(14, fmt.Sprintf("Overall score: %d/100", *a.OverallScore))
	}
	pdf.Br(10)

	for _, r := range results {
		line(13, fmt.Sprintf("%s — %d/100 (%s)", r.Module, r.Score, r.Status))

		var issues []audit.Issue
		if err := json.Unmarshal([]byte(r.Issues), &issues); err == nil {
			for _, issue := range issues {
				desc := issue.Description
				if len(desc) > 110 {
					desc = desc[:110] + "..."
				}
				line(10, fmt.Sprintf("  [%s] %s", audit.InferSeverity(issue), desc))
			}
		}
		pdf.Br(6)
	}

	os.MkdirAll(g.reportsDir, 0755)
	filename := fmt.Sprintf("%s-%s.pdf", slugify(a.Target), time.Now().Format("20060102-150405"))
	path := filepath.Join(g.reportsDir, filename)

	if err := pdf.WritePdf(path); err != nil {
		return "", fmt.Errorf("writing pdf: %w", err)
	}
	return path, nil
}
