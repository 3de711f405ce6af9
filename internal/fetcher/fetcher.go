package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nawedy/automatiq/internal/config"
)

// Page is the rendered view of a target that analysis modules consume.
// A single fetch is shared by every module in one audit.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	HTML       string
	Doc        *html.Node
	Text       string
	TTFB       time.Duration
	BodySize   int
	TLS        *tls.ConnectionState
	FetchErr   error
}

// Fetcher obtains a rendered page for a target URL. The HTTP client below is
// the default implementation; a headless-browser fetcher can be substituted.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*Page, error)
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBody    int64
}

func NewClient(cfg config.FetchConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

func (c *Client) Fetch(ctx context.Context, target string) (*Page, error) {
	if err := ValidateURL(target); err != nil {
		return nil, err
	}

	page := &Page{URL: target}

	req, err := http.NewRequestWithContext(ctx, "GET", target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Return a degraded page so modules can fail individually
		// instead of aborting the whole audit.
		page.FetchErr = fmt.Errorf("fetch URL: %w", err)
		return page, nil
	}
	defer resp.Body.Close()

	page.TTFB = time.Since(start)
	page.StatusCode = resp.StatusCode
	page.FinalURL = resp.Request.URL.String()
	page.Headers = resp.Header
	page.TLS = resp.TLS

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		page.FetchErr = fmt.Errorf("read body: %w", err)
		return page, nil
	}
	page.BodySize = len(body)
	page.HTML = string(body)

	doc, err := html.Parse(strings.NewReader(page.HTML))
	if err != nil {
		page.FetchErr = fmt.Errorf("parse html: %w", err)
		return page, nil
	}
	page.Doc = doc
	page.Text = ExtractText(doc)

	return page, nil
}

// Parse builds a Page from raw HTML without a network fetch. Used by tests
// and by callers that already hold rendered markup.
func Parse(target, rawHTML string) *Page {
	page := &Page{
		URL:      target,
		FinalURL: target,
		HTML:     rawHTML,
		BodySize: len(rawHTML),
		Headers:  http.Header{},
	}
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		page.FetchErr = err
		return page
	}
	page.Doc = doc
	page.Text = ExtractText(doc)
	return page
}

var dangerousChars = regexp.MustCompile("[;|&`$(){}\\[\\]!<>\\\\\"']")

// ValidateURL checks that a target is a plausible HTTP/HTTPS URL.
func ValidateURL(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	cleaned := target
	for _, allowed := range []string{":", "/", "?", "=", "&", ".", "-", "_", "%", "#", "~", "+", ","} {
		cleaned = strings.ReplaceAll(cleaned, allowed, "")
	}
	if dangerousChars.MatchString(cleaned) {
		return fmt.Errorf("URL contains invalid characters")
	}

	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return fmt.Errorf("URL must start with http:// or https://")
	}

	return nil
}
