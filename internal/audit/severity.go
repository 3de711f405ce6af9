package audit

import "strings"

var criticalKeywords = []string{
	"critical", "security", "vulnerability", "breach", "broken",
	"missing ssl", "missing https",
}

var majorKeywords = []string{
	"major", "significant", "performance", "slow", "accessibility",
	"mobile", "seo",
}

// InferSeverity classifies an issue from its text when the module supplied no
// explicit severity tag. Best-effort keyword matching, deliberately isolated
// here so a better classifier can replace it without touching orchestration.
func InferSeverity(issue Issue) string {
	if issue.Severity != "" {
		return issue.Severity
	}

	text := strings.ToLower(issue.Description)
	for _, kw := range criticalKeywords {
		if strings.Contains(text, kw) {
			return SeverityCritical
		}
	}
	for _, kw := range majorKeywords {
		if strings.Contains(text, kw) {
			return SeverityMajor
		}
	}
	return SeverityMinor
}
