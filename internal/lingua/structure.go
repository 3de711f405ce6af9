package lingua

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/nawedy/automatiq/internal/fetcher"
	"github.com/nawedy/automatiq/internal/scoring"
)

// StructureResult holds document-structure sub-scores and findings.
type StructureResult struct {
	Score             int     `json:"score"`
	HeadingScore      int     `json:"heading_score"`
	ParagraphScore    int     `json:"paragraph_score"`
	ListScore         int     `json:"list_score"`
	SectionScore      int     `json:"section_score"`
	OrganizationScore int     `json:"organization_score"`
	HeadingCount      int     `json:"heading_count"`
	ParagraphCount    int     `json:"paragraph_count"`
	Issues            []Issue `json:"issues"`
}

var transitionWords = []string{
	"however", "therefore", "moreover", "furthermore", "consequently",
	"additionally", "meanwhile", "nevertheless", "similarly", "instead",
	"finally", "first", "second", "third", "next", "then", "also",
	"in addition", "for example", "for instance", "in contrast",
	"on the other hand", "as a result", "in conclusion", "in summary",
}

type heading struct {
	level int
	text  string
}

// AnalyzeStructure checks heading hierarchy, paragraph shape, lists, section
// balance and organization signals over a parsed document.
func AnalyzeStructure(doc *html.Node) StructureResult {
	r := StructureResult{}

	headings := collectHeadings(doc)
	paragraphs := collectParagraphs(doc)
	r.HeadingCount = len(headings)
	r.ParagraphCount = len(paragraphs)

	r.HeadingScore = r.checkHeadings(headings)
	r.ParagraphScore = r.checkParagraphs(paragraphs)
	r.ListScore = r.checkLists(doc)
	r.SectionScore = r.checkSections(doc, headings, paragraphs)
	r.OrganizationScore = r.checkOrganization(paragraphs)

	r.Score = scoring.Aggregate([]scoring.WeightedScore{
		{Score: float64(r.HeadingScore), Weight: 2.5},
		{Score: float64(r.ParagraphScore), Weight: 2.0},
		{Score: float64(r.ListScore), Weight: 1.5},
		{Score: float64(r.SectionScore), Weight: 2.0},
		{Score: float64(r.OrganizationScore), Weight: 2.0},
	})
	return r
}

func collectHeadings(doc *html.Node) []heading {
	var headings []heading
	fetcher.Walk(doc, func(n *html.Node) {
		if len(n.Data) == 2 && n.Data[0] == 'h' && n.Data[1] >= '1' && n.Data[1] <= '6' {
			level, _ := strconv.Atoi(n.Data[1:])
			headings = append(headings, heading{level: level, text: fetcher.NodeText(n)})
		}
	})
	return headings
}

func collectParagraphs(doc *html.Node) []string {
	var paragraphs []string
	for _, p := range fetcher.FindAll(doc, "p") {
		if text := fetcher.NodeText(p); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs
}

func (r *StructureResult) checkHeadings(headings []heading) int {
	score := 100

	topLevel := 0
	for _, h := range headings {
		if h.level == 1 {
			topLevel++
		}
	}

	switch {
	case topLevel == 0:
		r.Issues = append(r.Issues, Issue{Message: "Page has no top-level (H1) heading", Category: "structure"})
		score -= 25
	case topLevel > 1:
		r.Issues = append(r.Issues, Issue{
			Message:  fmt.Sprintf("Page has %d H1 headings; use exactly one", topLevel),
			Category: "structure",
		})
		score -= 15
	}

	prev := 0
	for _, h := range headings {
		if prev > 0 && h.level > prev+1 {
			r.Issues = append(r.Issues, Issue{
				Message:  fmt.Sprintf("Heading hierarchy skips from H%d to H%d", prev, h.level),
				Category: "structure",
			})
			score -= 10
		}
		prev = h.level
	}

	return scoring.Clamp(score)
}

func (r *StructureResult) checkParagraphs(paragraphs []string) int {
	score := 100
	if len(paragraphs) == 0 {
		r.Issues = append(r.Issues, Issue{Message: "Page has no paragraph content", Category: "structure"})
		return 50
	}

	long := 0
	short := 0
	for _, p := range paragraphs {
		wc := len(Words(p))
		if wc > 150 {
			long++
		} else if wc < 20 {
			short++
		}
	}

	if long > 0 {
		r.Issues = append(r.Issues, Issue{
			Message:  fmt.Sprintf("%d paragraph(s) exceed 150 words; split them up", long),
			Category: "structure",
		})
		score -= 10 * long
	}
	if len(paragraphs) > 3 && short*2 > len(paragraphs) {
		r.Issues = append(r.Issues, Issue{
			Message:  "Most paragraphs are under 20 words; content reads as fragmented",
			Category: "structure",
		})
		score -= 15
	}

	return scoring.Clamp(score)
}

func (r *StructureResult) checkLists(doc *html.Node) int {
	score := 100

	lists := append(fetcher.FindAll(doc, "ul"), fetcher.FindAll(doc, "ol")...)
	for _, list := range lists {
		var items []string
		for c := list.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" {
				items = append(items, fetcher.NodeText(c))
			}
		}

		if len(items) <= 1 {
			r.Issues = append(r.Issues, Issue{
				Message:  "List with one or zero items; flatten it into a sentence",
				Category: "structure",
			})
			score -= 15
			continue
		}

		totalWords := 0
		for _, item := range items {
			totalWords += len(Words(item))
		}
		if totalWords/len(items) > 50 {
			r.Issues = append(r.Issues, Issue{
				Message:  "List items average over 50 words; lists should be scannable",
				Category: "structure",
			})
			score -= 10
		}
	}

	return scoring.Clamp(score)
}

func (r *StructureResult) checkSections(doc *html.Node, headings []heading, paragraphs []string) int {
	score := 100

	// Headings with no content before the next heading read as empty sections.
	empty := 0
	var order []*html.Node
	fetcher.Walk(doc, func(n *html.Node) {
		if (len(n.Data) == 2 && n.Data[0] == 'h' && n.Data[1] >= '1' && n.Data[1] <= '6') ||
			n.Data == "p" || n.Data == "ul" || n.Data == "ol" || n.Data == "table" || n.Data == "pre" {
			order = append(order, n)
		}
	})
	for i, n := range order {
		if n.Data[0] != 'h' || len(n.Data) != 2 {
			continue
		}
		hasContent := false
		for j := i + 1; j < len(order); j++ {
			if order[j].Data[0] == 'h' && len(order[j].Data) == 2 {
				break
			}
			if fetcher.NodeText(order[j]) != "" {
				hasContent = true
				break
			}
		}
		if !hasContent {
			empty++
		}
	}
	if empty > 0 {
		r.Issues = append(r.Issues, Issue{
			Message:  fmt.Sprintf("%d heading(s) introduce no content", empty),
			Category: "structure",
		})
		score -= 10 * empty
	}

	if len(headings) == 0 && len(paragraphs) > 5 {
		r.Issues = append(r.Issues, Issue{
			Message:  "Long content with no headings; readers cannot scan it",
			Category: "structure",
		})
		score -= 20
	}

	return scoring.Clamp(score)
}

func (r *StructureResult) checkOrganization(paragraphs []string) int {
	score := 100
	if len(paragraphs) == 0 {
		return 50
	}

	if len(paragraphs[0]) < 50 {
		r.Issues = append(r.Issues, Issue{
			Message:  "Opening paragraph is too short to introduce the page",
			Category: "structure",
		})
		score -= 20
	}
	if len(paragraphs) > 1 && len(paragraphs[len(paragraphs)-1]) < 50 {
		r.Issues = append(r.Issues, Issue{
			Message:  "Closing paragraph is too short to conclude the page",
			Category: "structure",
		})
		score -= 20
	}

	if len(paragraphs) > 3 {
		withTransition := 0
		for _, p := range paragraphs {
			lower := strings.ToLower(p)
			for _, tw := range transitionWords {
				if strings.Contains(lower, tw) {
					withTransition++
					break
				}
			}
		}
		if float64(withTransition) < 0.2*float64(len(paragraphs)) {
			r.Issues = append(r.Issues, Issue{
				Message:  "Few transition words between paragraphs; the text does not flow",
				Category: "structure",
			})
			score -= 20
		}
	}

	return scoring.Clamp(score)
}
