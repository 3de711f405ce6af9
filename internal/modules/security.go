package modules

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/nawedy/automatiq/internal/audit"
	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/scoring"
)

type Security struct{}

func (Security) Name() string { return "security" }

var requiredSecurityHeaders = []string{
	"Content-Security-Policy",
	"Strict-Transport-Security",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"Referrer-Policy",
}

func (Security) Analyze(ctx context.Context, page *fetcher.Page) (audit.ModuleResult, error) {
	if page.FetchErr != nil {
		return audit.ModuleResult{}, page.FetchErr
	}

	details := audit.SecurityDetails{
		HTTPS: strings.HasPrefix(page.FinalURL, "https://"),
	}
	var issues []audit.Issue
	score := 100

	if !details.HTTPS {
		details.SSLIssues = append(details.SSLIssues, "Site is served over plain HTTP, missing HTTPS")
		issues = append(issues, audit.Issue{
			Description: "Site is not served over HTTPS",
			Category:    "security",
			Severity:    audit.SeverityCritical,
		})
		score -= 30
	}

	if page.TLS != nil {
		state := page.TLS
		details.TLSVersion = tlsVersionName(state.Version)
		details.CipherSuite = tls.CipherSuiteName(state.CipherSuite)

		if state.Version < tls.VersionTLS12 {
			details.SSLIssues = append(details.SSLIssues,
				fmt.Sprintf("Connection negotiated %s; TLS 1.2 is the minimum acceptable", details.TLSVersion))
			issues = append(issues, audit.Issue{
				Description: fmt.Sprintf("Outdated TLS version in use: %s", details.TLSVersion),
				Category:    "security",
				Severity:    audit.SeverityCritical,
			})
			score -= 20
		}

		if len(state.PeerCertificates) > 0 {
			cert := state.PeerCertificates[0]
			details.CertExpiry = cert.NotAfter.Format(time.RFC3339)
			details.CertDaysLeft = int(time.Until(cert.NotAfter).Hours() / 24)

			if details.CertDaysLeft < 0 {
				details.SSLIssues = append(details.SSLIssues, "TLS certificate has expired")
				issues = append(issues, audit.Issue{
					Description: "TLS certificate has expired",
					Category:    "security",
					Severity:    audit.SeverityCritical,
				})
				score -= 30
			} else if details.CertDaysLeft < 14 {
				details.Vulnerabilities = append(details.Vulnerabilities,
					fmt.Sprintf("TLS certificate expires in %d days", details.CertDaysLeft))
				issues = append(issues, audit.Issue{
					Description: fmt.Sprintf("TLS certificate expires in %d days", details.CertDaysLeft),
					Category:    "security",
					Severity:    audit.SeverityMajor,
				})
				score -= 10
			}
		}
	}

	for _, header := range requiredSecurityHeaders {
		if page.Headers.Get(header) == "" {
			details.MissingHeaders = append(details.MissingHeaders, header)
		}
	}
	for _, header := range details.MissingHeaders {
		severity := audit.SeverityMinor
		penalty := 5
		switch header {
		case "Content-Security-Policy":
			severity = audit.SeverityMajor
			penalty = 10
		case "Strict-Transport-Security":
			if details.HTTPS {
				details.Vulnerabilities = append(details.Vulnerabilities,
					"HTTPS site without Strict-Transport-Security header")
				severity = audit.SeverityMajor
				penalty = 10
			}
		}
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("Missing %s header", header),
			Category:    "security",
			Severity:    severity,
		})
		score -= penalty
	}

	// Mixed content: insecure subresources on a secure page.
	if details.HTTPS && page.Doc != nil {
		mixed := 0
		for _, tag := range []string{"script", "img", "iframe", "link"} {
			for _, n := range fetcher.FindAll(page.Doc, tag) {
				src := fetcher.Attr(n, "src")
				if src == "" {
					src = fetcher.Attr(n, "href")
				}
				if strings.HasPrefix(src, "http://") {
					mixed++
				}
			}
		}
		if mixed > 0 {
			details.Vulnerabilities = append(details.Vulnerabilities,
				fmt.Sprintf("%d resources loaded over insecure HTTP on an HTTPS page", mixed))
			issues = append(issues, audit.Issue{
				Description: fmt.Sprintf("%d mixed-content resources loaded over HTTP", mixed),
				Category:    "security",
				Severity:    audit.SeverityCritical,
			})
			score -= 15
		}
	}

	if server := page.Headers.Get("X-Powered-By"); server != "" {
		issues = append(issues, audit.Issue{
			Description: fmt.Sprintf("X-Powered-By header discloses %q", server),
			Category:    "security",
		})
		score -= 3
	}

	return audit.ModuleResult{
		Score:   scoring.Clamp(score),
		Status:  audit.StatusOK,
		Issues:  issues,
		Details: details,
	}, nil
}

func tlsVersionName(v uint16) string {
	switch v {
	case tls.VersionTLS10:
		return "TLS 1.0"
	case tls.VersionTLS11:
		return "TLS 1.1"
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return fmt.Sprintf("Unknown (0x%04x)", v)
	}
}
