package lingua_test

import (
	"strings"
	"testing"

	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/lingua"
)

const longPara = `This opening paragraph carries enough words to introduce the page properly and set expectations for the reader before anything else happens on the page at all.`

func parseDoc(t *testing.T, body string) *fetcher.Page {
	t.Helper()
	page := fetcher.Parse("https://example.com", "<html><head><title>t</title></head><body>"+body+"</body></html>")
	if page.Doc == nil {
		t.Fatalf("parse: %v", page.FetchErr)
	}
	return page
}

func TestStructureWellFormedPage(t *testing.T) {
	page := parseDoc(t, `
		<h1>Main</h1>
		<p>`+longPara+`</p>
		<h2>Section</h2>
		<p>`+longPara+` However, the second paragraph adds a transition so the flow check passes too.</p>
		<ul><li>first item</li><li>second item</li><li>third item</li></ul>
		<p>`+longPara+`</p>`)

	r := lingua.AnalyzeStructure(page.Doc)
	if r.HeadingScore != 100 {
		t.Fatalf("heading score = %d, want 100 (issues: %+v)", r.HeadingScore, r.Issues)
	}
	if r.ListScore != 100 {
		t.Fatalf("list score = %d, want 100", r.ListScore)
	}
	if r.Score != 100 {
		t.Fatalf("overall = %d, want 100 (issues: %+v)", r.Score, r.Issues)
	}
	if r.HeadingCount != 2 || r.ParagraphCount != 3 {
		t.Fatalf("counts = %d headings, %d paragraphs", r.HeadingCount, r.ParagraphCount)
	}
}

func TestStructureMissingH1(t *testing.T) {
	page := parseDoc(t, `<h2>Only a subheading</h2><p>`+longPara+`</p>`)

	r := lingua.AnalyzeStructure(page.Doc)
	if r.HeadingScore != 75 {
		t.Fatalf("heading score = %d, want 75", r.HeadingScore)
	}
	mustHaveIssue(t, r.Issues, "no top-level")
}

func TestStructureMultipleH1(t *testing.T) {
	page := parseDoc(t, `<h1>One</h1><p>`+longPara+`</p><h1>Two</h1><p>`+longPara+`</p>`)

	r := lingua.AnalyzeStructure(page.Doc)
	if r.HeadingScore != 85 {
		t.Fatalf("heading score = %d, want 85", r.HeadingScore)
	}
	mustHaveIssue(t, r.Issues, "use exactly one")
}

func TestStructureHeadingSkip(t *testing.T) {
	page := parseDoc(t, `<h1>One</h1><p>`+longPara+`</p><h4>Deep</h4><p>`+longPara+`</p>`)

	r := lingua.AnalyzeStructure(page.Doc)
	mustHaveIssue(t, r.Issues, "skips from H1 to H4")
	if r.HeadingScore != 90 {
		t.Fatalf("heading score = %d, want 90", r.HeadingScore)
	}
}

func TestStructureSingleItemList(t *testing.T) {
	page := parseDoc(t, `<h1>One</h1><p>`+longPara+`</p><ul><li>lonely</li></ul>`)

	r := lingua.AnalyzeStructure(page.Doc)
	if r.ListScore != 85 {
		t.Fatalf("list score = %d, want 85", r.ListScore)
	}
	mustHaveIssue(t, r.Issues, "one or zero items")
}

func TestStructureEmptySection(t *testing.T) {
	page := parseDoc(t, `<h1>One</h1><p>`+longPara+`</p><h2>Empty</h2><h2>Also filled</h2><p>`+longPara+`</p>`)

	r := lingua.AnalyzeStructure(page.Doc)
	if r.SectionScore != 90 {
		t.Fatalf("section score = %d, want 90 (issues: %+v)", r.SectionScore, r.Issues)
	}
	mustHaveIssue(t, r.Issues, "introduce no content")
}

func TestStructureNoParagraphs(t *testing.T) {
	page := parseDoc(t, `<h1>Bare</h1>`)

	r := lingua.AnalyzeStructure(page.Doc)
	if r.ParagraphScore != 50 {
		t.Fatalf("paragraph score = %d, want 50", r.ParagraphScore)
	}
	if r.OrganizationScore != 50 {
		t.Fatalf("organization score = %d, want 50", r.OrganizationScore)
	}
}

func mustHaveIssue(t *testing.T, issues []lingua.Issue, substr string) {
	t.Helper()
	for _, iss := range issues {
		if strings.Contains(iss.Message, substr) {
			return
		}
	}
	t.Fatalf("no issue containing %q in %+v", substr, issues)
}
