// Package modules contains the nine analysis modules the audit pipeline
// runs. Each one implements audit.Analyzer over the shared fetched page.
package modules

import "github.com/nawedy/automatiq/internal/audit"

// Registry returns the analyzers in their fixed execution order. The order is
// part of the pipeline's observable behavior (progress messages), so it is
// declared once here and resolved at startup.
func Registry() []audit.Analyzer {
	return []audit.Analyzer{
		&SEO{},
		&Performance{},
		&Accessibility{},
		&Security{},
		&Mobile{},
		&Content{},
		&CrossBrowser{},
		&Analytics{},
		&Chatbot{},
	}
}
