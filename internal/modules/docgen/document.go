package docgen

import (
	"strconv"
	"strings"
)

type DocumentType string

const (
	TypeStrategy          DocumentType = "strategy"
	TypeBusinessPlan      DocumentType = "business_plan"
	TypeMarketingStrategy DocumentType = "marketing_strategy"
	TypeProjectPlan       DocumentType = "project_plan"
	TypeResearchReport    DocumentType = "research_report"
	TypeRoadmap           DocumentType = "roadmap"
	TypeGuide             DocumentType = "guide"
	TypeFramework         DocumentType = "framework"
	TypeAnalysis          DocumentType = "analysis"
)

// Label is the human-readable name used in titles and filenames.
func (t DocumentType) Label() string {
	switch t {
	case TypeBusinessPlan:
		return "Business Plan"
	case TypeMarketingStrategy:
		return "Marketing Strategy"
	case TypeProjectPlan:
		return "Project Plan"
	case TypeResearchReport:
		return "Research Report"
	case TypeRoadmap:
		return "Roadmap"
	case TypeGuide:
		return "Guide"
	case TypeFramework:
		return "Framework"
	case TypeAnalysis:
		return "Analysis"
	default:
		return "Strategy"
	}
}

type StrategicAnalysis struct {
	MarketPositioning     string `json:"marketPositioning"`
	CompetitiveAdvantages string `json:"competitiveAdvantages"`
	RiskAssessment        string `json:"riskAssessment"`
}

type ActionItem struct {
	Step          string `json:"step"`
	Owner         string `json:"owner"`
	Deadline      string `json:"deadline"`
	Resources     string `json:"resources"`
	SuccessMetric string `json:"successMetric"`
}

type TimelinePhase struct {
	Milestone    string `json:"milestone"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Dependencies string `json:"dependencies"`
}

type KPI struct {
	Metric   string `json:"metric"`
	Baseline string `json:"baseline"`
	Target   string `json:"target"`
	Cadence  string `json:"cadence"`
}

type ResourceRequirement struct {
	Category string `json:"category"`
	Details  string `json:"details"`
	Cost     string `json:"cost"`
	Owners   string `json:"owners"`
}

// StrategicDocument is the structured body the model must return.
type StrategicDocument struct {
	Title                    string                `json:"title"`
	ExecutiveSummary         string                `json:"executiveSummary"`
	StrategicAnalysis        StrategicAnalysis     `json:"strategicAnalysis"`
	DetailedActionPlan       []ActionItem          `json:"detailedActionPlan"`
	ImplementationTimeline   []TimelinePhase       `json:"implementationTimeline"`
	KeyPerformanceIndicators []KPI                 `json:"keyPerformanceIndicators"`
	ResourceRequirements     []ResourceRequirement `json:"resourceRequirements"`
	Methodologies            []string              `json:"methodologies"`
	Notes                    string                `json:"notes"`
}

// Markdown renders the document as plain markdown. It backs the fallback
// output when PDF rendering fails and the documentContent preview.
func (d *StrategicDocument) Markdown() string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\n")
	}
	line("# " + d.Title)
	line("")
	line("## Executive Summary")
	line(d.ExecutiveSummary)
	line("")
	line("## Strategic Analysis")
	line("### Market Positioning")
	line(d.StrategicAnalysis.MarketPositioning)
	line("### Competitive Advantages")
	line(d.StrategicAnalysis.CompetitiveAdvantages)
	line("### Risk Assessment")
	line(d.StrategicAnalysis.RiskAssessment)
	line("")
	line("## Detailed Action Plan")
	for i, a := range d.DetailedActionPlan {
		line("### " + strconv.Itoa(i+1) + ". " + a.Step)
		line("- Owner: " + a.Owner)
		line("- Deadline: " + a.Deadline)
		line("- Resources: " + a.Resources)
		line("- Success metric: " + a.SuccessMetric)
	}
	line("")
	line("## Implementation Timeline")
	for _, p := range d.ImplementationTimeline {
		line("- **" + p.Milestone + "**: " + p.StartDate + " to " + p.EndDate + deps(p.Dependencies))
	}
	line("")
	line("## Key Performance Indicators")
	for _, k := range d.KeyPerformanceIndicators {
		line("- " + KPILine(k))
	}
	line("")
	line("## Resource Requirements")
	for _, r := range d.ResourceRequirements {
		line("- **" + r.Category + "**: " + r.Details + " (cost: " + r.Cost + ", owners: " + r.Owners + ")")
	}
	if len(d.Methodologies) > 0 {
		line("")
		line("## Methodologies")
		for _, m := range d.Methodologies {
			line("- " + m)
		}
	}
	if strings.TrimSpace(d.Notes) != "" {
		line("")
		line("## Notes")
		line(d.Notes)
	}
	return b.String()
}

// KPILine formats a KPI as "metric — baseline → target (cadence)".
func KPILine(k KPI) string {
	s := k.Metric + " — " + k.Baseline + " → " + k.Target
	if strings.TrimSpace(k.Cadence) != "" {
		s += " (" + k.Cadence + ")"
	}
	return s
}

func deps(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return " (depends on: " + s + ")"
}
