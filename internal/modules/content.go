package modules

import (
	"context"
	"fmt"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/lingua"
	"github.com/nawedy/automatiq/internal/scoring"
)

// Content runs the linguistic analysis engine over the page's extracted text
// and parsed markup, then combines the three analyzer scores.
type Content struct{}

func (Content) Name() string { return "content" }

// Analyzer weights within the content composite.
var contentWeights = []struct {
	name   string
	weight float64
}{
	{"readability", 2.0},
	{"grammar", 1.5},
	{"structure", 2.0},
}

func (Content) Analyze(ctx context.Context, page *fetcher.Page) (audit.ModuleResult, error) {
	if page.FetchErr != nil {
		return audit.ModuleResult{}, page.FetchErr
	}
	if page.Doc == nil {
		return audit.ModuleResult{}, fmt.Errorf("no document to analyze")
	}

	details := audit.ContentDetails{
		Readability: lingua.AnalyzeReadability(page.Text),
		Grammar:     lingua.AnalyzeGrammar(page.Text),
		Structure:   lingua.AnalyzeStructure(page.Doc),
	}

	scores := map[string]float64{
		"readability": float64(details.Readability.Score),
		"grammar":     float64(details.Grammar.Score),
		"structure":   float64(details.Structure.Score),
	}
	var pairs []scoring.WeightedScore
	for _, w := range contentWeights {
		pairs = append(pairs, scoring.WeightedScore{Score: scores[w.name], Weight: w.weight})
	}

	var issues []audit.Issue
	for _, group := range [][]lingua.Issue{details.Readability.Issues, details.Grammar.Issues, details.Structure.Issues} {
		for _, li := range group {
			issues = append(issues, audit.Issue{
				Description: li.Message,
				Category:    li.Category,
			})
		}
	}

	return audit.ModuleResult{
		Score:   scoring.Aggregate(pairs),
		Status:  audit.StatusOK,
		Issues:  issues,
		Details: details,
	}, nil
}
