package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nawedy/automatiq/internal/config"
	"github.com/nawedy/automatiq/internal/fetcher"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{"http", "http://example.com", false},
		{"https with path and query", "https://example.com/page?q=1&r=2", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"missing scheme", "example.com", true},
		{"ftp scheme", "ftp://example.com", true},
		{"shell metacharacters", "https://example.com/$(whoami)", true},
		{"embedded quote", `https://example.com/"x`, true},
		{"semicolon", "https://example.com/a;b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fetcher.ValidateURL(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateURL(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
		})
	}
}

func TestClientFetch(t *testing.T) {
	const body = `<html><head><title>Hello</title></head><body><p>Welcome to the test page.</p></body></html>`

	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	defer ts.Close()

	client := fetcher.NewClient(config.FetchConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "AutomatIQ-test",
		MaxBodyBytes: 1 << 20,
	})

	page, err := client.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.FetchErr != nil {
		t.Fatalf("fetch degraded: %v", page.FetchErr)
	}
	if gotUA != "AutomatIQ-test" {
		t.Fatalf("user agent = %q", gotUA)
	}
	if page.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", page.StatusCode)
	}
	if page.BodySize != len(body) {
		t.Fatalf("body size = %d, want %d", page.BodySize, len(body))
	}
	if page.Doc == nil {
		t.Fatal("document not parsed")
	}
	if !strings.Contains(page.Text, "Welcome to the test page.") {
		t.Fatalf("extracted text = %q", page.Text)
	}
	if page.TTFB <= 0 {
		t.Fatalf("ttfb = %v", page.TTFB)
	}
}

func TestClientFetchConnectionErrorDegrades(t *testing.T) {
	client := fetcher.NewClient(config.FetchConfig{
		Timeout:      time.Second,
		UserAgent:    "AutomatIQ-test",
		MaxBodyBytes: 1 << 20,
	})

	// Reserved TEST-NET address; nothing listens there.
	page, err := client.Fetch(context.Background(), "http://192.0.2.1:9/")
	if err != nil {
		t.Fatalf("fetch returned hard error: %v", err)
	}
	if page.FetchErr == nil {
		t.Fatal("expected degraded page with FetchErr set")
	}
	if page.Doc != nil {
		t.Fatal("degraded page should have no document")
	}
}

func TestClientFetchRejectsInvalidURL(t *testing.T) {
	client := fetcher.NewClient(config.FetchConfig{Timeout: time.Second, MaxBodyBytes: 1 << 20})
	if _, err := client.Fetch(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestClientFetchBodyLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer ts.Close()

	client := fetcher.NewClient(config.FetchConfig{
		Timeout:      5 * time.Second,
		MaxBodyBytes: 1024,
	})
	page, err := client.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.BodySize != 1024 {
		t.Fatalf("body size = %d, want capped at 1024", page.BodySize)
	}
}

const domSample = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Sample</title>
  <meta name="description" content="A page about testing.">
  <meta property="og:title" content="Sample OG">
  <link rel="canonical" href="https://example.com/canonical">
  <link rel="stylesheet" href="/main.css">
</head>
<body>
  <h1>Heading</h1>
  <p>Visible <b>text</b> here.</p>
  <img src="a.png" alt="">
  <img src="b.png">
  <script>var hidden = "should not appear";</script>
</body>
</html>`

func TestDOMHelpers(t *testing.T) {
	page := fetcher.Parse("https://example.com", domSample)
	if page.Doc == nil {
		t.Fatalf("parse: %v", page.FetchErr)
	}

	if got := fetcher.MetaContent(page.Doc, "description"); got != "A page about testing." {
		t.Fatalf("meta description = %q", got)
	}
	if got := fetcher.MetaContent(page.Doc, "og:title"); got != "Sample OG" {
		t.Fatalf("og:title = %q", got)
	}
	if got := fetcher.MetaContent(page.Doc, "missing"); got != "" {
		t.Fatalf("missing meta = %q", got)
	}

	if got := fetcher.LinkHref(page.Doc, "canonical"); got != "https://example.com/canonical" {
		t.Fatalf("canonical = %q", got)
	}

	imgs := fetcher.FindAll(page.Doc, "img")
	if len(imgs) != 2 {
		t.Fatalf("img count = %d", len(imgs))
	}
	if !fetcher.HasAttr(imgs[0], "alt") {
		t.Fatal("first img should report an alt attribute even though it is empty")
	}
	if fetcher.HasAttr(imgs[1], "alt") {
		t.Fatal("second img has no alt attribute")
	}
	if got := fetcher.Attr(imgs[1], "src"); got != "b.png" {
		t.Fatalf("src = %q", got)
	}

	ps := fetcher.FindAll(page.Doc, "p")
	if len(ps) != 1 {
		t.Fatalf("p count = %d", len(ps))
	}
	if got := fetcher.NodeText(ps[0]); got != "Visible text here." {
		t.Fatalf("node text = %q", got)
	}

	if strings.Contains(page.Text, "should not appear") {
		t.Fatalf("script content leaked into text: %q", page.Text)
	}
	if got := fetcher.Attr(nil, "x"); got != "" {
		t.Fatalf("Attr(nil) = %q", got)
	}
}
