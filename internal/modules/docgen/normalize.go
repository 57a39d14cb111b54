package docgen

import "strings"

// Normalize trims every field and fills the optional ones a validated
// document may still leave blank.
func Normalize(doc *StrategicDocument, t DocumentType) *StrategicDocument {
	doc.Title = tidy(doc.Title)
	if doc.Title == "" {
		doc.Title = t.Label()
	}
	doc.ExecutiveSummary = tidyBlock(doc.ExecutiveSummary)
	doc.StrategicAnalysis.MarketPositioning = tidyBlock(doc.StrategicAnalysis.MarketPositioning)
	doc.StrategicAnalysis.CompetitiveAdvantages = tidyBlock(doc.StrategicAnalysis.CompetitiveAdvantages)
	doc.StrategicAnalysis.RiskAssessment = tidyBlock(doc.StrategicAnalysis.RiskAssessment)

	for i := range doc.DetailedActionPlan {
		a := &doc.DetailedActionPlan[i]
		a.Step, a.Owner, a.Deadline = tidy(a.Step), tidy(a.Owner), tidy(a.Deadline)
		a.Resources, a.SuccessMetric = tidy(a.Resources), tidy(a.SuccessMetric)
	}
	for i := range doc.ImplementationTimeline {
		p := &doc.ImplementationTimeline[i]
		p.Milestone, p.StartDate, p.EndDate = tidy(p.Milestone), tidy(p.StartDate), tidy(p.EndDate)
		p.Dependencies = tidy(p.Dependencies)
	}
	for i := range doc.KeyPerformanceIndicators {
		k := &doc.KeyPerformanceIndicators[i]
		k.Metric, k.Baseline, k.Target = tidy(k.Metric), tidy(k.Baseline), tidy(k.Target)
		k.Cadence = tidy(k.Cadence)
		if k.Cadence == "" {
			k.Cadence = "monthly"
		}
	}
	for i := range doc.ResourceRequirements {
		r := &doc.ResourceRequirements[i]
		r.Category, r.Details, r.Cost = tidy(r.Category), tidy(r.Details), tidy(r.Cost)
		r.Owners = tidy(r.Owners)
		if r.Owners == "" {
			r.Owners = "Unassigned"
		}
	}
	methods := doc.Methodologies[:0]
	for _, m := range doc.Methodologies {
		if m = tidy(m); m != "" {
			methods = append(methods, m)
		}
	}
	doc.Methodologies = methods
	doc.Notes = tidyBlock(doc.Notes)
	return doc
}

func tidy(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tidyBlock keeps paragraph breaks but collapses runs of spaces within lines.
func tidyBlock(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := lines[:0]
	blank := false
	for _, l := range lines {
		l = tidy(l)
		if l == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
