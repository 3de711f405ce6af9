package modules

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/scoring"
)

type CrossBrowser struct{}

func (CrossBrowser) Name() string { return "crossbrowser" }

var deprecatedTags = []string{
	"font", "center", "marquee", "blink", "frameset", "frame", "big", "strike", "tt", "acronym",
}

var vendorPrefixRe = regexp.MustCompile(`-(webkit|moz|ms|o)-[a-z-]+\s*:`)

func (CrossBrowser) Analyze(ctx context.Context, page *fetcher.Page) (audit.ModuleResult, error) {
	if page.FetchErr != nil {
		return audit.ModuleResult{}, page.FetchErr
	}
	if page.Doc == nil {
		return audit.ModuleResult{}, fmt.Errorf("no document to analyze")
	}

	details := audit.CrossBrowserDetails{}
	var issues []audit.Issue
	score := 100

	for n := page.Doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.DoctypeNode {
			details.HasDoctype = true
			break
		}
	}
	if !details.HasDoctype {
		issues = append(issues, audit.Issue{
			Description: "Missing doctype declaration; browsers fall back to quirks mode",
			Category:    "crossbrowser",
			Severity:    audit.SeverityMajor,
		})
		score -= 15
	}

	seen := make(map[string]bool)
	fetcher.Walk(page.Doc, func(n *html.Node) {
		for _, tag := range deprecatedTags {
			if n.Data == tag && !seen[tag] {
				seen[tag] = true
				details.DeprecatedTags = append(details.DeprecatedTags, tag)
			}
		}
	})
	if len(details.DeprecatedTags) > 0 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("Deprecated HTML tags in use: %s", strings.Join(details.DeprecatedTags, ", ")),
			Category:    "crossbrowser",
		})
		score -= 10 * len(details.DeprecatedTags)
	}

	details.VendorPrefixes = len(vendorPrefixRe.FindAllString(page.HTML, -1))
	if details.VendorPrefixes > 10 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("%d vendor-prefixed CSS declarations; verify standard properties accompany them", details.VendorPrefixes),
			Category:    "crossbrowser",
		})
		score -= 10
	}

	for _, obj := range append(fetcher.FindAll(page.Doc, "object"), fetcher.FindAll(page.Doc, "embed")...) {
		t := strings.ToLower(fetcher.Attr(obj, "type"))
		if strings.Contains(t, "flash") || strings.Contains(t, "shockwave") ||
			strings.Contains(strings.ToLower(fetcher.Attr(obj, "src")), ".swf") {
			details.PluginObjects++
		}
	}
	if details.PluginObjects > 0 {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("%d plugin object(s) (Flash) that no modern browser runs", details.PluginObjects),
			Category:    "crossbrowser",
			Severity:    audit.SeverityMajor,
		})
		score -= 20
	}

	return audit.ModuleResult{
		Score:   scoring.Clamp(score),
		Status:  audit.StatusOK,
		Issues:  issues,
		Details: details,
	}, nil
}
