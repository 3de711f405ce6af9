package modules

import (
	"context"
	"fmt"
	"strings"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/scoring"
)

type Performance struct{}

func (Performance) Name() string { return "performance" }

func (Performance) Analyze(ctx context.Context, page *fetcher.Page) (audit.ModuleResult, error) {
	if page.FetchErr != nil {
		return audit.ModuleResult{}, page.FetchErr
	}
	if page.Doc == nil {
		return audit.ModuleResult{}, fmt.Errorf("no document to analyze")
	}

	details := audit.PerformanceDetails{
		TTFBMillis: page.TTFB.Milliseconds(),
		BodyBytes:  page.BodySize,
	}
	var issues []audit.Issue

	for _, s := range fetcher.FindAll(page.Doc, "script") {
		if fetcher.Attr(s, "src") != "" {
			details.ScriptCount++
		}
	}
	for _, l := range fetcher.FindAll(page.Doc, "link") {
		if strings.EqualFold(fetcher.Attr(l, "rel"), "stylesheet") {
			details.StylesheetCount++
		}
	}
	details.ImageCount = len(fetcher.FindAll(page.Doc, "img"))

	encoding := page.Headers.Get("Content-Encoding")
	details.Compressed = strings.Contains(encoding, "gzip") || strings.Contains(encoding, "br") ||
		strings.Contains(encoding, "zstd")
	details.CacheControl = page.Headers.Get("Cache-Control")

	unsizedImages := 0
	for _, img := range fetcher.FindAll(page.Doc, "img") {
		if !fetcher.HasAttr(img, "width") || !fetcher.HasAttr(img, "height") {
			unsizedImages++
		}
	}

	// Heuristic Core Web Vitals estimates from fetch metadata. Consumed
	// downstream as opaque 0-100 sub-scores.
	details.WebVitals = audit.CoreWebVitals{
		LCPScore: scoring.Clamp(100 - int(details.TTFBMillis/40) - details.BodyBytes/40960),
		FIDScore: scoring.Clamp(100 - details.ScriptCount*4),
		CLSScore: scoring.Clamp(100 - unsizedImages*8),
	}

	score := 100

	if details.TTFBMillis > 600 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("Slow server response: %dms to first byte", details.TTFBMillis),
			Category:    "performance",
			Severity:    audit.SeverityMajor,
		})
		score -= 15
	} else if details.TTFBMillis > 200 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("Server response time is %dms; under 200ms is ideal", details.TTFBMillis),
			Category:    "performance",
		})
		score -= 5
	}

	if details.BodyBytes > 1024*1024 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("Page HTML is %d KB; heavy documents slow rendering", details.BodyBytes/1024),
			Category:    "performance",
		})
		score -= 10
	}

	if details.ScriptCount > 15 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("%d external scripts; each blocks or delays interactivity", details.ScriptCount),
			Category:    "performance",
		})
		score -= 10
	}
	if details.StylesheetCount > 6 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("%d stylesheets; consider bundling", details.StylesheetCount),
			Category:    "performance",
		})
		score -= 5
	}

	if !details.Compressed && page.BodySize > 16*1024 {
		issues = append(issues, audit.Issue{
			Description: "Response is not compressed (no gzip/brotli content encoding)",
			Category:    "performance",
			Severity:    audit.SeverityMajor,
		})
		score -= 10
	}
	if details.CacheControl == "" {
		issues = append(issues, audit.Issue{
			Description: "No Cache-Control header; repeat visits re-download everything",
			Category:    "performance",
		})
		score -= 5
	}

	if unsizedImages > 3 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("%d images without explicit dimensions cause layout shift", unsizedImages),
			Category:    "performance",
		})
		score -= 5
	}

	return audit.ModuleResult{
		Score:   scoring.Clamp(score),
		Status:  audit.StatusOK,
		Issues:  issues,
		Details: details,
	}, nil
}
