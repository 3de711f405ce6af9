package lingua_test

import (
	"strings"
	"testing"

	"github.com/nawedy/automatiq/internal/lingua"
)

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"One. Two. Three.", 3},
		{"What?! Really?", 2},
		{"No terminator at all", 1},
		{"", 0},
		{"Trailing... dots everywhere...", 2},
	}
	for _, tc := range cases {
		got := lingua.SplitSentences(tc.text)
		if len(got) != tc.want {
			t.Errorf("SplitSentences(%q) = %d sentences %v, want %d", tc.text, len(got), got, tc.want)
		}
	}
}

func TestCountSyllables(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"dog", 1},
		{"a", 1},
		{"window", 2},
		{"beautiful", 3},
		{"important", 3},
	}
	for _, tc := range cases {
		if got := lingua.CountSyllables(tc.word); got != tc.want {
			t.Errorf("CountSyllables(%q) = %d, want %d", tc.word, got, tc.want)
		}
	}
}

// Sentence length dominates the Flesch formula when every word is one
// syllable, so the reading ease must strictly decrease as words are added.
func TestFleschDecreasesWithSentenceLength(t *testing.T) {
	prev := 300.0
	for _, n := range []int{2, 5, 10, 20, 40} {
		text := strings.TrimSpace(strings.Repeat("cat ", n)) + "."
		r := lingua.AnalyzeReadability(text)

		if r.SentenceCount != 1 {
			t.Fatalf("n=%d: sentence count = %d, want 1", n, r.SentenceCount)
		}
		if r.WordCount != n {
			t.Fatalf("n=%d: word count = %d, want %d", n, r.WordCount, n)
		}
		if r.FleschReadingEase >= prev {
			t.Fatalf("n=%d: Flesch %v did not decrease from %v", n, r.FleschReadingEase, prev)
		}
		prev = r.FleschReadingEase
	}
}

func TestReadabilityEmptyText(t *testing.T) {
	r := lingua.AnalyzeReadability("")
	if r.Score != 0 {
		t.Fatalf("empty text score = %d, want 0", r.Score)
	}
	if len(r.Issues) == 0 {
		t.Fatal("empty text should raise an issue")
	}
}

func TestReadabilityLongSentenceIssue(t *testing.T) {
	// One sentence of 30 simple words: over the 25-word threshold.
	text := strings.TrimSpace(strings.Repeat("the cat sat on mats ", 6)) + "."
	r := lingua.AnalyzeReadability(text)

	found := false
	for _, issue := range r.Issues {
		if strings.Contains(issue.Message, "sentence length") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a sentence-length issue, got %v", r.Issues)
	}
	if r.Score >= 100 {
		t.Fatalf("score %d should reflect the raised issue", r.Score)
	}
}
