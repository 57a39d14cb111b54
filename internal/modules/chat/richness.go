package chat

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minTaskChars     = 80
	minTaskWords     = 12
	minTaskSentences = 2
)

var (
	actionVerbRule = regexp.MustCompile(`(?i)\b(design|draft|writ|wrote|build|built|implement|creat|develop|review|test|deploy|ship|deliver|investigat|research|produc|finaliz|finalis|prepar|analy[sz]|document|refactor|fix|configur|publish|launch|outlin|schedul|updat|migrat|integrat|audit|validat|measur|compil|present|send|sent|email|organi[sz]|interview|record|edit|benchmark|negotiat|submit)\w*`)

	concreteSignalRule = regexp.MustCompile(`(?i)(\d|\b(deliverables?|mock-?ups?|specs?|specifications?|milestones?|launch|prototypes?|wireframes?|drafts?|reports?|decks?|api|endpoints?|releases?|versions?|checklists?|documents?|pull requests?|deadlines?|kpis?|metrics?|dashboards?|slides?|contracts?|invoices?)\b)`)

	bulletRule = regexp.MustCompile(`(?m)^\s*([-*•]|\d+[.)])\s+`)

	vagueRules = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\btbd\b`),
		regexp.MustCompile(`(?i)\bn/a\b`),
		regexp.MustCompile(`(?i)\bnot sure\b`),
		regexp.MustCompile(`(?i)\bto-?do\b`),
		regexp.MustCompile(`(?i)\bplaceholder\b`),
		regexp.MustCompile(`(?i)\bsomeday\b`),
		regexp.MustCompile(`(?i)\bstuff\b`),
		regexp.MustCompile(`(?i)\bwhatever\b`),
		regexp.MustCompile(`(?i)\bmisc\b`),
		regexp.MustCompile(`(?i)\band so on\b`),
		regexp.MustCompile(`(?i)\bsomething like that\b`),
	}

	sentenceSplit = regexp.MustCompile(`[.!?]+(\s+|$)|\n+`)
)

// Richness is the outcome of the task description quality gate.
type Richness struct {
	Chars          int
	Words          int
	Sentences      int
	HasActionVerb  bool
	HasConcrete    bool
	VagueFragments []string
}

func (r Richness) OK() bool {
	return r.Chars >= minTaskChars &&
		r.Words >= minTaskWords &&
		r.Sentences >= minTaskSentences &&
		r.HasActionVerb &&
		r.HasConcrete &&
		len(r.VagueFragments) == 0
}

// Problems lists the failed checks in a stable order, for logs.
func (r Richness) Problems() []string {
	var out []string
	if r.Chars < minTaskChars {
		out = append(out, fmt.Sprintf("description has %d chars, needs %d", r.Chars, minTaskChars))
	}
	if r.Words < minTaskWords {
		out = append(out, fmt.Sprintf("description has %d words, needs %d", r.Words, minTaskWords))
	}
	if r.Sentences < minTaskSentences {
		out = append(out, fmt.Sprintf("description has %d sentences, needs %d", r.Sentences, minTaskSentences))
	}
	if !r.HasActionVerb {
		out = append(out, "no action verb")
	}
	if !r.HasConcrete {
		out = append(out, "no concrete deliverable or number")
	}
	for _, v := range r.VagueFragments {
		out = append(out, "vague wording: "+v)
	}
	return out
}

func AssessTaskDescription(desc string) Richness {
	desc = strings.TrimSpace(desc)
	r := Richness{
		Chars:         utf8.RuneCountInString(desc),
		Words:         len(strings.Fields(desc)),
		HasActionVerb: actionVerbRule.MatchString(desc),
		HasConcrete:   concreteSignalRule.MatchString(desc) || bulletRule.MatchString(desc),
	}
	for _, s := range sentenceSplit.Split(desc, -1) {
		if len(strings.Fields(s)) >= 2 {
			r.Sentences++
		}
	}
	for _, re := range vagueRules {
		if m := re.FindString(desc); m != "" {
			r.VagueFragments = append(r.VagueFragments, strings.ToLower(m))
		}
	}
	return r
}

func taskDetailQuestion(name string) string {
	return fmt.Sprintf("Before I add \"%s\", I need a bit more detail:\n"+
		"1. What concrete actions does it involve?\n"+
		"2. What does done look like?\n"+
		"3. Optionally, roughly how long will it take?", name)
}
