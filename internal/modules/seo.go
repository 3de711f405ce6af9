package modules

import (
	"context"
	"fmt"
	"strings"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/scoring"
)

type SEO struct{}

func (SEO) Name() string { return "seo" }

func (SEO) Analyze(ctx context.Context, page *fetcher.Page) (audit.ModuleResult, error) {
	if page.FetchErr != nil {
		return audit.ModuleResult{}, page.FetchErr
	}
	if page.Doc == nil {
		return audit.ModuleResult{}, fmt.Errorf("no document to analyze")
	}

	details := audit.SEODetails{}
	var issues []audit.Issue
	score := 100

	if titles := fetcher.FindAll(page.Doc, "title"); len(titles) > 0 {
		details.Title = fetcher.NodeText(titles[0])
	}
	details.TitleLength = len(details.Title)
	switch {
	case details.Title == "":
		issues = append(issues, audit.Issue{Description: "Page has no title tag", Category: "seo", Severity: audit.SeverityMajor})
		score -= 20
	case details.TitleLength < 10 || details.TitleLength > 70:
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("Title is %d characters; search engines display 10-70 best", details.TitleLength),
			Category:    "seo",
		})
		score -= 10
	}

	details.MetaDescription = fetcher.MetaContent(page.Doc, "description")
	details.DescLength = len(details.MetaDescription)
	switch {
	case details.MetaDescription == "":
		issues = append(issues, audit.Issue{Description: "Missing meta description", Category: "seo", Severity: audit.SeverityMajor})
		score -= 15
	case details.DescLength < 50 || details.DescLength > 160:
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("Meta description is %d characters; aim for 50-160", details.DescLength),
			Category:    "seo",
		})
		score -= 5
	}

	details.Canonical = fetcher.LinkHref(page.Doc, "canonical")
	if details.Canonical == "" {
		issues = append(issues, audit.Issue{Description: "No canonical URL declared", Category: "seo"})
		score -= 5
	}

	details.H1Count = len(fetcher.FindAll(page.Doc, "h1"))
	switch {
	case details.H1Count == 0:
		issues = append(issues, audit.Issue{Description: "Page has no H1 heading", Category: "seo", Severity: audit.SeverityMajor})
		score -= 15
	case details.H1Count > 1:
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("Page has %d H1 headings; use exactly one", details.H1Count),
			Category:    "seo",
		})
		score -= 5
	}

	details.RobotsMeta = fetcher.MetaContent(page.Doc, "robots")
	if strings.Contains(strings.ToLower(details.RobotsMeta), "noindex") {
		issues = append(issues, audit.Issue{
			Description: "Page is marked noindex and will not appear in search results",
			Category:    "seo",
			Severity:    audit.SeverityCritical,
		})
		score -= 25
	}

	for _, img := range fetcher.FindAll(page.Doc, "img") {
		details.ImageCount++
		if strings.TrimSpace(fetcher.Attr(img, "alt")) != "" {
			details.ImagesWithAlt++
		}
	}
	if details.ImageCount > 0 && details.ImagesWithAlt*2 < details.ImageCount {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("Only %d of %d images have alt text", details.ImagesWithAlt, details.ImageCount),
			Category:    "seo",
		})
		score -= 10
	}

	for _, m := range fetcher.FindAll(page.Doc, "meta") {
		if strings.HasPrefix(strings.ToLower(fetcher.Attr(m, "property")), "og:") {
			details.OpenGraphTags++
		}
	}
	if details.OpenGraphTags == 0 {
		issues = append(issues, audit.Issue{Description: "No Open Graph tags for social sharing", Category: "seo"})
		score -= 5
	}

	return audit.ModuleResult{
		Score:   scoring.Clamp(score),
		Status:  audit.StatusOK,
		Issues:  issues,
		Details: details,
	}, nil
}
