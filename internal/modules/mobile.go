package modules

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/scoring"
)

type Mobile struct{}

func (Mobile) Name() string { return "mobile" }

var (
	fixedWidthRe = regexp.MustCompile(`width\s*=\s*\d+`)
	smallFontRe  = regexp.MustCompile(`font-size\s*:\s*([0-9]|1[01])px`)
)

func (Mobile) Analyze(ctx context.Context, page *fetcher.Page) (audit.ModuleResult, error) {
	if page.FetchErr != nil {
		return audit.ModuleResult{}, page.FetchErr
	}
	if page.Doc == nil {
		return audit.ModuleResult{}, fmt.Errorf("no document to analyze")
	}

	details := audit.MobileDetails{}
	var issues []audit.Issue
	score := 100

	details.Viewport = fetcher.MetaContent(page.Doc, "viewport")
	details.ViewportPresent = details.Viewport != ""
	viewport := strings.ToLower(details.Viewport)
	details.ViewportValid = strings.Contains(viewport, "width=device-width")
	details.FixedWidth = details.ViewportPresent && !details.ViewportValid && fixedWidthRe.MatchString(viewport)

	switch {
	case !details.ViewportPresent:
		issues = append(issues, audit.Issue{
			Description: "Missing viewport meta tag; mobile browsers will render the desktop layout",
			Category:    "mobile",
			Severity:    audit.SeverityCritical,
		})
		score -= 30
	case !details.ViewportValid:
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("Viewport %q does not use width=device-width", details.Viewport),
			Category:    "mobile",
			Severity:    audit.SeverityMajor,
		})
		score -= 20
	}
	if strings.Contains(viewport, "user-scalable=no") || strings.Contains(viewport, "maximum-scale=1") {
		issues = append(issues, audit.Issue{
			Description: "Viewport disables pinch zoom, which harms mobile accessibility",
			Category:    "mobile",
		})
		score -= 10
	}

	details.SmallFontHints = len(smallFontRe.FindAllString(page.HTML, -1))
	if details.SmallFontHints > 0 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("%d inline style(s) set font sizes below 12px", details.SmallFontHints),
			Category:    "mobile",
		})
		score -= 5
	}

	// Tap-target density: many interactive elements on a page with no
	// responsive viewport usually means touch targets overlap.
	details.TapTargets = len(fetcher.FindAll(page.Doc, "a")) + len(fetcher.FindAll(page.Doc, "button"))
	if !details.ViewportValid && details.TapTargets > 50 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("%d tap targets on a non-responsive layout", details.TapTargets),
			Category:    "mobile",
		})
		score -= 10
	}

	return audit.ModuleResult{
		Score:   scoring.Clamp(score),
		Status:  audit.StatusOK,
		Issues:  issues,
		Details: details,
	}, nil
}
