package lingua

import (
	"fmt"
	"math"
)

// ReadabilityResult holds the computed indices and score for a text.
type ReadabilityResult struct {
	Score             int     `json:"score"`
	SentenceCount     int     `json:"sentence_count"`
	WordCount         int     `json:"word_count"`
	SyllableCount     int     `json:"syllable_count"`
	CharCount         int     `json:"char_count"`
	FleschReadingEase float64 `json:"flesch_reading_ease"`
	FleschKincaid     float64 `json:"flesch_kincaid_grade"`
	SMOG              float64 `json:"smog_index"`
	ColemanLiau       float64 `json:"coleman_liau_index"`
	ARI               float64 `json:"automated_readability_index"`
	AvgGradeLevel     float64 `json:"avg_grade_level"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	AvgWordLength     float64 `json:"avg_word_length"`
	Issues            []Issue `json:"issues"`
}

// AnalyzeReadability computes the standard readability indices from plain
// text. All indices are deterministic functions of sentence, word, syllable
// and character counts.
func AnalyzeReadability(text string) ReadabilityResult {
	sentences := SplitSentences(text)
	words := Words(text)

	r := ReadabilityResult{
		Score:         100,
		SentenceCount: len(sentences),
		WordCount:     len(words),
		SyllableCount: CountTotalSyllables(words),
		CharCount:     LetterCount(text),
	}

	if r.SentenceCount == 0 || r.WordCount == 0 {
		r.Score = 0
		r.Issues = append(r.Issues, Issue{
			Message:  "No readable text content found",
			Category: "readability",
		})
		return r
	}

	wordsPerSentence := float64(r.WordCount) / float64(r.SentenceCount)
	syllablesPerWord := float64(r.SyllableCount) / float64(r.WordCount)
	charsPerWord := float64(r.CharCount) / float64(r.WordCount)

	r.AvgSentenceLength = round1(wordsPerSentence)
	r.AvgWordLength = round1(charsPerWord)

	r.FleschReadingEase = round1(206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord)
	r.FleschKincaid = round1(0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59)
	r.SMOG = round1(1.0430*math.Sqrt(float64(polysyllableCount(words))*30.0/float64(r.SentenceCount)) + 3.1291)

	lettersPer100 := charsPerWord * 100
	sentencesPer100 := float64(r.SentenceCount) / float64(r.WordCount) * 100
	r.ColemanLiau = round1(0.0588*lettersPer100 - 0.296*sentencesPer100 - 15.8)

	r.ARI = round1(4.71*charsPerWord + 0.5*wordsPerSentence - 21.43)

	r.AvgGradeLevel = round1((r.FleschKincaid + r.SMOG + r.ColemanLiau + r.ARI) / 4)

	// Band the base score on the Flesch reading ease before issue penalties.
	switch {
	case r.FleschReadingEase < 30:
		r.Score = 50
		r.Issues = append(r.Issues, Issue{
			Message:  "Text is very difficult to read (Flesch reading ease below 30)",
			Category: "readability",
		})
	case r.FleschReadingEase < 50:
		r.Score = 70
		r.Issues = append(r.Issues, Issue{
			Message:  "Text is difficult to read (Flesch reading ease below 50)",
			Category: "readability",
		})
	case r.FleschReadingEase > 90:
		r.Score = 80
	}

	if wordsPerSentence > 25 {
		r.Issues = append(r.Issues, Issue{
			Message:  fmt.Sprintf("Average sentence length is %.1f words; aim for 25 or fewer", wordsPerSentence),
			Category: "readability",
		})
		r.Score -= 10
	}
	if charsPerWord > 5.5 {
		r.Issues = append(r.Issues, Issue{
			Message:  fmt.Sprintf("Average word length is %.1f characters; simpler vocabulary reads better", charsPerWord),
			Category: "readability",
		})
		r.Score -= 10
	}
	if r.AvgGradeLevel < 6 || r.AvgGradeLevel > 12 {
		r.Issues = append(r.Issues, Issue{
			Message:  fmt.Sprintf("Average reading grade level is %.1f; general audiences expect grade 6-12", r.AvgGradeLevel),
			Category: "readability",
		})
		r.Score -= 10
	}

	if r.Score < 0 {
		r.Score = 0
	}
	return r
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
