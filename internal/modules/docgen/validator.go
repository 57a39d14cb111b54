package docgen

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minExecutiveSummary = 220
	minAnalysisSection  = 180
	minActionItems      = 4
	maxPlaceholders     = 2
	minTimelinePhases   = 4
	minKPIs             = 4
	minResources        = 3
	knowledgeShare      = 0.3
)

// ValidationContext is what the document must be grounded in.
type ValidationContext struct {
	UserName       string
	ProjectNames   []string
	Knowledge      []KnowledgeRef
	MilestoneNames []string
}

type KnowledgeRef struct {
	Name    string
	Content string
}

var (
	placeholderRule = regexp.MustCompile(`(?i)\b(tbd|tba|n/a|placeholder|specify|to be (determined|decided|confirmed)|needed|unknown|various|lorem ipsum|xxx+|etc)\b|\[[^\]]*\]|<[^>]*>`)
	metaPhraseRule  = regexp.MustCompile(`(?i)\b(this (document|plan|report|strategy|roadmap|guide)|the above|as outlined below|in this section)\b`)
	buzzwordRule    = regexp.MustCompile(`(?i)\b(multi-channel|omni-?channel|drive growth|synergy|synergies|leverage|best-in-class|world-class|cutting-edge|holistic|game-?changer|move the needle|paradigm shift)\b`)
	digitRule       = regexp.MustCompile(`\d`)
)

// Validate returns every rubric violation as a human-readable remediation note.
// An empty result means the document may be persisted.
func Validate(doc *StrategicDocument, vc ValidationContext) []string {
	if doc == nil {
		return []string{"Document is empty."}
	}
	var issues []string
	add := func(format string, args ...any) { issues = append(issues, fmt.Sprintf(format, args...)) }

	if n := meaningful(doc.ExecutiveSummary); n < minExecutiveSummary {
		add("Executive summary is too short (%d characters); write at least %d characters of specific content.", n, minExecutiveSummary)
	}
	for _, sec := range []struct{ label, text string }{
		{"marketPositioning", doc.StrategicAnalysis.MarketPositioning},
		{"competitiveAdvantages", doc.StrategicAnalysis.CompetitiveAdvantages},
		{"riskAssessment", doc.StrategicAnalysis.RiskAssessment},
	} {
		if n := meaningful(sec.text); n < minAnalysisSection {
			add("strategicAnalysis.%s is too short (%d characters); write at least %d.", sec.label, n, minAnalysisSection)
		}
	}

	clean, placeholders := 0, 0
	for i, a := range doc.DetailedActionPlan {
		bad := 0
		for _, v := range []string{a.Step, a.Owner, a.Deadline, a.Resources, a.SuccessMetric} {
			if isPlaceholder(v) {
				bad++
			}
		}
		placeholders += bad
		if bad == 0 {
			clean++
		} else {
			add("Action item %d has %d placeholder or empty field(s); give a named owner, a concrete deadline, resources and a measurable success metric.", i+1, bad)
		}
	}
	if clean < minActionItems {
		add("Detailed action plan needs at least %d complete items (found %d).", minActionItems, clean)
	}
	if placeholders > maxPlaceholders {
		add("Action plan contains %d placeholders; at most %d are allowed.", placeholders, maxPlaceholders)
	}

	concrete := 0
	for _, p := range doc.ImplementationTimeline {
		if !isPlaceholder(p.Milestone) && concreteDate(p.StartDate) && concreteDate(p.EndDate) {
			concrete++
		}
	}
	if concrete < minTimelinePhases {
		add("Implementation timeline needs at least %d phases with concrete start and end dates (found %d).", minTimelinePhases, concrete)
	}

	if len(doc.KeyPerformanceIndicators) < minKPIs {
		add("Provide at least %d KPIs (found %d).", minKPIs, len(doc.KeyPerformanceIndicators))
	}
	numeric := false
	for _, k := range doc.KeyPerformanceIndicators {
		if digitRule.MatchString(k.Baseline) && digitRule.MatchString(k.Target) {
			numeric = true
			break
		}
	}
	if !numeric {
		add("At least one KPI needs a numeric baseline and a numeric target.")
	}

	resources := 0
	for _, r := range doc.ResourceRequirements {
		if !isPlaceholder(r.Category) && !isPlaceholder(r.Details) && !isPlaceholder(r.Cost) {
			resources++
		}
	}
	if resources < minResources {
		add("Resource requirements need at least %d categories with concrete details and cost (found %d).", minResources, resources)
	}

	// Names are matched verbatim and may contain & < > or quotes.
	body := strings.ToLower(doc.Markdown())
	if anchors := personalAnchors(vc); len(anchors) > 0 && !containsAny(body, anchors) {
		add("Reference the user's own context by name: mention %s.", strings.Join(anchors, " or "))
	}

	if m := metaPhraseRule.FindString(doc.ExecutiveSummary); m != "" {
		add("Executive summary must not contain meta commentary such as %q; state the substance directly.", m)
	}
	if m := buzzwordRule.FindString(doc.ExecutiveSummary); m != "" && !digitRule.MatchString(doc.ExecutiveSummary) {
		add("Executive summary relies on the unquantified buzzword %q; back it with numbers.", m)
	}

	if n := len(vc.Knowledge); n >= 3 {
		need := int(math.Ceil(float64(n) * knowledgeShare))
		got := 0
		for _, k := range vc.Knowledge {
			if referencesKnowledge(body, k) {
				got++
			}
		}
		if got < need {
			add("Reference at least %d of the user's knowledge items by name or content (currently %d).", need, got)
		}
	}

	if len(vc.MilestoneNames) >= 2 {
		timeline := strings.ToLower(timelineText(doc))
		var names []string
		for _, m := range vc.MilestoneNames {
			if s := strings.ToLower(strings.TrimSpace(m)); s != "" {
				names = append(names, s)
			}
		}
		if len(names) > 0 && !containsAny(timeline, names) {
			add("Align the implementation timeline with the user's milestones (for example %q).", vc.MilestoneNames[0])
		}
	}
	return issues
}

func meaningful(s string) int {
	return utf8.RuneCountInString(strings.Join(strings.Fields(s), " "))
}

func isPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || placeholderRule.MatchString(s)
}

func concreteDate(s string) bool {
	return !isPlaceholder(s) && digitRule.MatchString(s)
}

func personalAnchors(vc ValidationContext) []string {
	var out []string
	if name := strings.TrimSpace(vc.UserName); name != "" {
		out = append(out, strings.ToLower(strings.Fields(name)[0]))
	}
	for _, p := range vc.ProjectNames {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func referencesKnowledge(body string, k KnowledgeRef) bool {
	if name := strings.ToLower(strings.TrimSpace(k.Name)); utf8.RuneCountInString(name) >= 3 && strings.Contains(body, name) {
		return true
	}
	snippet := strings.ToLower(strings.Join(strings.Fields(k.Content), " "))
	if r := []rune(snippet); len(r) > 40 {
		snippet = string(r[:40])
	}
	return utf8.RuneCountInString(snippet) >= 12 && strings.Contains(body, snippet)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func timelineText(doc *StrategicDocument) string {
	var b strings.Builder
	for _, p := range doc.ImplementationTimeline {
		b.WriteString(p.Milestone)
		b.WriteString(" ")
		b.WriteString(p.Dependencies)
		b.WriteString("\n")
	}
	return b.String()
}
