package lingua

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Match records one rule hit with enough position info to display a snippet.
type Match struct {
	Kind    string `json:"kind"` // spelling | grammar | style
	Rule    string `json:"rule"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
	Context string `json:"context"`
	Message string `json:"message"`
}

// GrammarResult is the output of the grammar/style analyzer.
type GrammarResult struct {
	Score          int     `json:"score"`
	WordCount      int     `json:"word_count"`
	SpellingErrors int     `json:"spelling_errors"`
	GrammarErrors  int     `json:"grammar_errors"`
	StyleIssues    int     `json:"style_issues"`
	Matches        []Match `json:"matches"`
	Issues         []Issue `json:"issues"`
}

// misspellings maps common misspelled forms to their corrections. Matched
// case-insensitively as whole words.
var misspellings = map[string]string{
	"abscence":     "absence",
	"accomodate":   "accommodate",
	"accross":      "across",
	"acheive":      "achieve",
	"aquire":       "acquire",
	"adress":       "address",
	"alot":         "a lot",
	"apparant":     "apparent",
	"arguement":    "argument",
	"basicly":      "basically",
	"begining":     "beginning",
	"beleive":      "believe",
	"buisness":     "business",
	"calender":     "calendar",
	"catagory":     "category",
	"cemetary":     "cemetery",
	"changable":    "changeable",
	"collegue":     "colleague",
	"comming":      "coming",
	"commitee":     "committee",
	"completly":    "completely",
	"concious":     "conscious",
	"definately":   "definitely",
	"dissapoint":   "disappoint",
	"embarass":     "embarrass",
	"enviroment":   "environment",
	"existance":    "existence",
	"familar":      "familiar",
	"finaly":       "finally",
	"foriegn":      "foreign",
	"freind":       "friend",
	"goverment":    "government",
	"grammer":      "grammar",
	"gaurantee":    "guarantee",
	"happend":      "happened",
	"harrass":      "harass",
	"immediatly":   "immediately",
	"independant":  "independent",
	"interupt":     "interrupt",
	"knowlege":     "knowledge",
	"liason":       "liaison",
	"libary":       "library",
	"maintainance": "maintenance",
	"neccessary":   "necessary",
	"noticable":    "noticeable",
	"occassion":    "occasion",
	"occured":      "occurred",
	"occurence":    "occurrence",
	"paralell":     "parallel",
	"perminant":    "permanent",
	"persistant":   "persistent",
	"posession":    "possession",
	"prefered":     "preferred",
	"publically":   "publicly",
	"recieve":      "receive",
	"recomend":     "recommend",
	"refered":      "referred",
	"relevent":     "relevant",
	"seperate":     "separate",
	"succesful":    "successful",
	"supercede":    "supersede",
	"tommorow":     "tomorrow",
	"truely":       "truly",
	"untill":       "until",
	"wierd":        "weird",
}

var misspellingRe = buildMisspellingRegexp()

func buildMisspellingRegexp() *regexp.Regexp {
	words := make([]string, 0, len(misspellings))
	for w := range misspellings {
		words = append(words, regexp.QuoteMeta(w))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`)
}

// Words commonly typed twice in a row. RE2 has no backreferences, so the
// doubled pairs are spelled out explicitly.
var doubledWords = []string{"the", "a", "an", "is", "are", "to", "of", "and", "in", "that"}

func buildDoubledWordRegexp() *regexp.Regexp {
	pairs := make([]string, len(doubledWords))
	for i, w := range doubledWords {
		pairs[i] = w + `\s+` + w
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(pairs, "|") + `)\b`)
}

type textRule struct {
	name    string
	re      *regexp.Regexp
	message string
}

var grammarRules = []textRule{
	{"its-contraction", regexp.MustCompile(`(?i)\bits\s+(a|an|the|not|been|being|going)\b`), `Possible "its/it's" confusion: "it's" is the contraction of "it is"`},
	{"affect-effect", regexp.MustCompile(`(?i)\bhave\s+an?\s+affect\b`), `"Affect" is a verb; the noun is "effect" ("have an effect")`},
	{"less-fewer", regexp.MustCompile(`(?i)\bless\s+(people|items|things|users|customers|visitors|pages|errors|words|clicks)\b`), `Use "fewer" with countable nouns, "less" with quantities`},
	{"could-of", regexp.MustCompile(`(?i)\b(could|would|should|must)\s+of\b`), `"Could of" should be "could have" (likewise would/should/must)`},
	{"your-welcome", regexp.MustCompile(`(?i)\byour\s+welcome\b`), `"Your welcome" should be "you're welcome"`},
	{"their-is", regexp.MustCompile(`(?i)\btheir\s+(is|are|was|were)\b`), `"Their is" should be "there is"`},
	{"doubled-word", buildDoubledWordRegexp(), `Doubled word`},
	{"then-than", regexp.MustCompile(`(?i)\b(better|worse|more|less|rather|faster|slower)\s+then\b`), `Comparisons use "than", not "then"`},
	{"should-went", regexp.MustCompile(`(?i)\b(have|has|had)\s+went\b`), `"Have went" should be "have gone"`},
	{"irregardless", regexp.MustCompile(`(?i)\birregardless\b`), `"Irregardless" is nonstandard; use "regardless"`},
}

var styleRules = []textRule{
	{"intensifier", regexp.MustCompile(`(?i)\b(very|really|extremely|incredibly|absolutely|totally)\s+\w+`), `Intensifier weakens the sentence; prefer a stronger word`},
	{"in-order-to", regexp.MustCompile(`(?i)\bin\s+order\s+to\b`), `"In order to" can nearly always be just "to"`},
	{"utilize", regexp.MustCompile(`(?i)\butili[sz]e[ds]?\b`), `"Utilize" is a wordy "use"`},
	{"is-able-to", regexp.MustCompile(`(?i)\b(is|are|was|were)\s+able\s+to\b`), `"Is able to" can usually be "can"`},
	{"due-to-fact", regexp.MustCompile(`(?i)\bdue\s+to\s+the\s+fact\s+that\b`), `"Due to the fact that" means "because"`},
	{"point-in-time", regexp.MustCompile(`(?i)\bat\s+this\s+point\s+in\s+time\b`), `"At this point in time" means "now"`},
	{"the-fact-that", regexp.MustCompile(`(?i)\bthe\s+fact\s+that\b`), `"The fact that" is usually padding`},
	{"it-should-be-noted", regexp.MustCompile(`(?i)\bit\s+should\s+be\s+noted\s+that\b`), `"It should be noted that" adds nothing; drop it`},
	{"needless-to-say", regexp.MustCompile(`(?i)\bneedless\s+to\s+say\b`), `If it is needless to say, it need not be said`},
	{"basically", regexp.MustCompile(`(?i)\b(basically|essentially|actually)\b`), `Filler adverb; the sentence is usually stronger without it`},
}

// AnalyzeGrammar runs the misspelling dictionary, grammar rules and style
// rules over plain text. Spelling and grammar hits weigh on the score far
// more than style hits.
func AnalyzeGrammar(text string) GrammarResult {
	r := GrammarResult{Score: 100, WordCount: len(Words(text))}

	if r.WordCount == 0 {
		return r
	}

	for _, loc := range misspellingRe.FindAllStringIndex(text, -1) {
		found := text[loc[0]:loc[1]]
		correction := misspellings[strings.ToLower(found)]
		r.SpellingErrors++
		r.Matches = append(r.Matches, newMatch("spelling", "misspelling", text, loc,
			fmt.Sprintf("%q appears to be a misspelling of %q", found, correction)))
	}

	for _, rule := range grammarRules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			r.GrammarErrors++
			r.Matches = append(r.Matches, newMatch("grammar", rule.name, text, loc, rule.message))
		}
	}

	for _, rule := range styleRules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			r.StyleIssues++
			r.Matches = append(r.Matches, newMatch("style", rule.name, text, loc, rule.message))
		}
	}

	errors := r.SpellingErrors + r.GrammarErrors
	penalty := int(math.Round(1000 * float64(errors) / float64(r.WordCount)))
	if penalty > 100 {
		penalty = 100
	}
	r.Score = 100 - penalty

	stylePenalty := int(math.Round(500 * float64(r.StyleIssues) / float64(r.WordCount)))
	if stylePenalty > 20 {
		stylePenalty = 20
	}
	r.Score -= stylePenalty

	if r.Score < 0 {
		r.Score = 0
	}

	if r.SpellingErrors > 0 {
		r.Issues = append(r.Issues, Issue{
			Message:  fmt.Sprintf("%d likely misspelling(s) found", r.SpellingErrors),
			Category: "grammar",
		})
	}
	if r.GrammarErrors > 0 {
		r.Issues = append(r.Issues, Issue{
			Message:  fmt.Sprintf("%d grammar issue(s) found", r.GrammarErrors),
			Category: "grammar",
		})
	}
	if r.StyleIssues > 0 {
		r.Issues = append(r.Issues, Issue{
			Message:  fmt.Sprintf("%d wordy or weak construction(s) found", r.StyleIssues),
			Category: "style",
		})
	}

	return r
}

func newMatch(kind, rule, text string, loc []int, message string) Match {
	start := loc[0] - 20
	if start < 0 {
		start = 0
	}
	end := loc[1] + 20
	if end > len(text) {
		end = len(text)
	}
	return Match{
		Kind:    kind,
		Rule:    rule,
		Offset:  loc[0],
		Length:  loc[1] - loc[0],
		Context: text[start:end],
		Message: message,
	}
}
