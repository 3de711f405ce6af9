package modules

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/scoring"
)

type Accessibility struct{}

func (Accessibility) Name() string { return "accessibility" }

// Impact weights follow the WCAG-style minor/moderate/serious/critical scale.
var impactPenalty = map[string]int{
	"minor":    2,
	"moderate": 5,
	"serious":  10,
	"critical": 15,
}

func (Accessibility) Analyze(ctx context.Context, page *fetcher.Page) (audit.ModuleResult, error) {
	if page.FetchErr != nil {
		return audit.ModuleResult{}, page.FetchErr
	}
	if page.Doc == nil {
		return audit.ModuleResult{}, fmt.Errorf("no document to analyze")
	}

	details := audit.AccessibilityDetails{}

	addViolation := func(description, impact string, count int) {
		if count == 0 {
			return
		}
		details.Violations = append(details.Violations, audit.AccessibilityViolation{
			Description: description,
			Impact:      impact,
			Count:       count,
		})
	}

	if htmlNodes := fetcher.FindAll(page.Doc, "html"); len(htmlNodes) > 0 {
		details.Lang = fetcher.Attr(htmlNodes[0], "lang")
	}
	if details.Lang == "" {
		addViolation("Document has no lang attribute", "serious", 1)
	}

	missingAlt := 0
	for _, img := range fetcher.FindAll(page.Doc, "img") {
		if !fetcher.HasAttr(img, "alt") {
			missingAlt++
		}
	}
	addViolation("Images without alt attributes", "critical", missingAlt)

	unlabeled := 0
	labeledIDs := make(map[string]bool)
	for _, l := range fetcher.FindAll(page.Doc, "label") {
		if forID := fetcher.Attr(l, "for"); forID != "" {
			labeledIDs[forID] = true
		}
	}
	for _, input := range fetcher.FindAll(page.Doc, "input") {
		inputType := strings.ToLower(fetcher.Attr(input, "type"))
		if inputType == "hidden" || inputType == "submit" || inputType == "button" {
			continue
		}
		if labeledIDs[fetcher.Attr(input, "id")] {
			continue
		}
		if fetcher.Attr(input, "aria-label") != "" || fetcher.Attr(input, "aria-labelledby") != "" {
			continue
		}
		if hasLabelAncestor(input) {
			continue
		}
		unlabeled++
	}
	addViolation("Form inputs without labels", "critical", unlabeled)

	emptyLinks := 0
	for _, a := range fetcher.FindAll(page.Doc, "a") {
		if fetcher.NodeText(a) == "" && fetcher.Attr(a, "aria-label") == "" &&
			len(fetcher.FindAll(a, "img")) == 0 {
			emptyLinks++
		}
	}
	addViolation("Links with no accessible text", "serious", emptyLinks)

	emptyButtons := 0
	for _, b := range fetcher.FindAll(page.Doc, "button") {
		if fetcher.NodeText(b) == "" && fetcher.Attr(b, "aria-label") == "" {
			emptyButtons++
		}
	}
	addViolation("Buttons with no accessible text", "serious", emptyButtons)

	skips := 0
	prev := 0
	fetcher.Walk(page.Doc, func(n *html.Node) {
		if len(n.Data) == 2 && n.Data[0] == 'h' && n.Data[1] >= '1' && n.Data[1] <= '6' {
			level := int(n.Data[1] - '0')
			if prev > 0 && level > prev+1 {
				skips++
			}
			prev = level
		}
	})
	addViolation("Heading levels skipped", "moderate", skips)

	score := 100
	var issues []audit.Issue
	for _, v := range details.Violations {
		score -= impactPenalty[v.Impact] * min(v.Count, 5)
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("%s (%d occurrence(s))", v.Description, v.Count),
			Category:    "accessibility",
			Severity:    wcagToSeverity(v.Impact),
		})
	}

	return audit.ModuleResult{
		Score:   scoring.Clamp(score),
		Status:  audit.StatusOK,
		Issues:  issues,
		Details: details,
	}, nil
}

func hasLabelAncestor(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "label" {
			return true
		}
	}
	return false
}

func wcagToSeverity(impact string) string {
	switch impact {
	case "critical":
		return audit.SeverityCritical
	case "serious", "moderate":
		return audit.SeverityMajor
	default:
		return audit.SeverityMinor
	}
}
