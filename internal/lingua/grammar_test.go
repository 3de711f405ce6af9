package lingua_test

import (
	"strings"
	"testing"

	"github.com/nawedy/automatiq/internal/lingua"
)

func TestGrammarFlagsMisspelling(t *testing.T) {
	r := lingua.AnalyzeGrammar("We will recieve your order shortly after payment clears today.")

	if r.SpellingErrors != 1 {
		t.Fatalf("spelling errors = %d, want 1", r.SpellingErrors)
	}

	var m *lingua.Match
	for i := range r.Matches {
		if r.Matches[i].Kind == "spelling" {
			m = &r.Matches[i]
		}
	}
	if m == nil {
		t.Fatal("no spelling match recorded")
	}
	if !strings.Contains(m.Message, "receive") {
		t.Fatalf("message %q does not reference the correction", m.Message)
	}
	if !strings.Contains(m.Context, "recieve") {
		t.Fatalf("context %q does not include the matched word", m.Context)
	}
	if m.Length != len("recieve") {
		t.Fatalf("match length = %d, want %d", m.Length, len("recieve"))
	}
	if r.Score >= 100 {
		t.Fatalf("score = %d, want below 100", r.Score)
	}
}

func TestGrammarCleanTextScoresFull(t *testing.T) {
	r := lingua.AnalyzeGrammar("The quick brown fox jumps over a sleeping dog near our garden fence.")

	if r.SpellingErrors != 0 || r.GrammarErrors != 0 || r.StyleIssues != 0 {
		t.Fatalf("clean text produced matches: %+v", r.Matches)
	}
	if r.Score != 100 {
		t.Fatalf("clean text score = %d, want 100", r.Score)
	}
}

func TestGrammarRules(t *testing.T) {
	cases := []struct {
		text string
		rule string
	}{
		{"We think its a great product for teams.", "its-contraction"},
		{"This change will have an affect on latency.", "affect-effect"},
		{"We now have less errors than before.", "less-fewer"},
		{"You could of told us earlier.", "could-of"},
		{"Results are better then expected.", "then-than"},
		{"Send the file to to the archive folder.", "doubled-word"},
		{"THE THE report covers last quarter.", "doubled-word"},
	}
	for _, tc := range cases {
		r := lingua.AnalyzeGrammar(tc.text)
		found := false
		for _, m := range r.Matches {
			if m.Rule == tc.rule {
				found = true
			}
		}
		if !found {
			t.Errorf("%q: rule %s not matched (matches: %+v)", tc.text, tc.rule, r.Matches)
		}
	}
}

func TestDoubledWordNoFalsePositive(t *testing.T) {
	r := lingua.AnalyzeGrammar("The theory is that an analysis covers everything.")
	for _, m := range r.Matches {
		if m.Rule == "doubled-word" {
			t.Fatalf("false doubled-word match: %+v", m)
		}
	}
}

func TestStyleRulesWeighLess(t *testing.T) {
	// One style hit in a 12-word text: 500*1/12 rounds to 42, capped at 20.
	r := lingua.AnalyzeGrammar("We use this tool in order to keep every audit fully reproducible.")

	if r.StyleIssues == 0 {
		t.Fatal("expected a style match for 'in order to'")
	}
	if r.GrammarErrors != 0 || r.SpellingErrors != 0 {
		t.Fatalf("unexpected hard errors: %+v", r.Matches)
	}
	if r.Score != 80 {
		t.Fatalf("score = %d, want 80 (style penalty capped at 20)", r.Score)
	}
}

func TestGrammarCaseInsensitive(t *testing.T) {
	r := lingua.AnalyzeGrammar("DEFINATELY the best option available here.")
	if r.SpellingErrors != 1 {
		t.Fatalf("uppercase misspelling not matched, errors = %d", r.SpellingErrors)
	}
}
