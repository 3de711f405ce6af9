package lingua

import (
	"strings"
	"unicode"
)

// Issue is a single finding raised by an analyzer.
type Issue struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

// SplitSentences splits text on runs of sentence terminators.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	inTerminator := false

	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	for _, r := range text {
		switch r {
		case '.', '!', '?':
			inTerminator = true
		default:
			if inTerminator {
				flush()
				inTerminator = false
			}
			b.WriteRune(r)
		}
	}
	flush()
	return sentences
}

// Words tokenizes text into words, stripping surrounding punctuation.
func Words(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	var words []string
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// LetterCount counts letters and digits, ignoring punctuation and spaces.
func LetterCount(text string) int {
	count := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			count++
		}
	}
	return count
}

var syllableSuffixes = []string{"es", "ed", "e"}

// CountSyllables estimates syllables in a word by counting vowel-group runs
// after stripping common silent suffixes. Words of three characters or fewer
// count as one syllable, and no word counts as zero.
func CountSyllables(word string) int {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return 0
	}
	if len(w) <= 3 {
		return 1
	}

	for _, suffix := range syllableSuffixes {
		if strings.HasSuffix(w, suffix) && len(w) > len(suffix)+2 {
			// Keep "le" endings: "table" etc. still sound the final group.
			if suffix == "e" && strings.HasSuffix(w, "le") {
				break
			}
			w = w[:len(w)-len(suffix)]
			break
		}
	}

	count := 0
	prevVowel := false
	for _, r := range w {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if count == 0 {
		count = 1
	}
	return count
}

// CountTotalSyllables sums syllable estimates over a word list.
func CountTotalSyllables(words []string) int {
	total := 0
	for _, w := range words {
		total += CountSyllables(w)
	}
	return total
}

// polysyllableCount counts words of three or more syllables, used by SMOG.
func polysyllableCount(words []string) int {
	count := 0
	for _, w := range words {
		if CountSyllables(w) >= 3 {
			count++
		}
	}
	return count
}
