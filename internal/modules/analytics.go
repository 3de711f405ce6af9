package modules

import (
	"context"
	"fmt"
	"strings"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/scoring"
)

type Analytics struct{}

func (Analytics) Name() string { return "analytics" }

// Provider signatures matched against the raw page source.
var analyticsSignatures = []struct {
	name       string
	signatures []string
	legacy     bool
}{
	{"Google Analytics 4", []string{"gtag('config', 'G-", `gtag("config", "G-`, "googletagmanager.com/gtag/js?id=G-"}, false},
	{"Google Tag Manager", []string{"googletagmanager.com/gtm.js", "GTM-"}, false},
	{"Universal Analytics", []string{"google-analytics.com/analytics.js", "ga('create'", "UA-"}, true},
	{"Matomo", []string{"matomo.js", "_paq.push"}, false},
	{"Plausible", []string{"plausible.io/js"}, false},
	{"Segment", []string{"cdn.segment.com/analytics.js", "analytics.load("}, false},
	{"Hotjar", []string{"static.hotjar.com", "hjSettings"}, false},
	{"Mixpanel", []string{"cdn.mxpnl.com", "mixpanel.init"}, false},
}

func (Analytics) Analyze(ctx context.Context, page *fetcher.Page) (audit.ModuleResult, error) {
	if page.FetchErr != nil {
		return audit.ModuleResult{}, page.FetchErr
	}

	details := audit.AnalyticsDetails{}
	var issues []audit.Issue

	source := page.HTML
	for _, provider := range analyticsSignatures {
		for _, sig := range provider.signatures {
			if strings.Contains(source, sig) {
				details.Providers = append(details.Providers, provider.name)
				if provider.legacy {
					details.Legacy = append(details.Legacy, provider.name)
				}
				break
			}
		}
	}

	score := 100
	switch {
	case len(details.Providers) == 0:
		issues = append(issues, audit.Issue{
			Description: "No analytics tracking detected; traffic data is not being collected",
			Category:    "analytics",
		})
		score = 40
	case len(details.Providers) > 3:
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("%d analytics providers detected; redundant trackers slow pages", len(details.Providers)),
			Category:    "analytics",
		})
		score -= 15
	}

	for _, legacy := range details.Legacy {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("%s is deprecated and no longer processes data", legacy),
			Category:    "analytics",
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
