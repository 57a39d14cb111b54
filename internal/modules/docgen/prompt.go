package docgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a senior strategy consultant writing for one specific person.
Every section must be grounded in their projects, goals, milestones and saved knowledge.
Return ONLY a single JSON object. No markdown fences, no commentary before or after it.`

var focusByType = map[DocumentType][]string{
	TypeStrategy: {
		"Frame the strategic choice the user faces and the option you recommend.",
		"Tie each move to an existing project or goal.",
	},
	TypeBusinessPlan: {
		"Cover customer segment, revenue model, unit economics and go-to-market.",
		"Quote costs and revenue targets as numbers with currency.",
	},
	TypeMarketingStrategy: {
		"Name target segments, channels and the message for each channel.",
		"Every channel needs a budget line and a conversion metric.",
	},
	TypeProjectPlan: {
		"Break the work into phases with owners, deliverables and dates.",
		"Call out dependencies between phases explicitly.",
	},
	TypeResearchReport: {
		"State the research question, method, findings and implications.",
		"Cite the user's saved knowledge items as evidence where they apply.",
	},
	TypeRoadmap: {
		"Sequence initiatives quarter by quarter with clear exit criteria.",
		"Align roadmap phases with the user's existing milestones.",
	},
	TypeGuide: {
		"Write step-by-step instructions the user can follow this week.",
		"Each step needs an owner, a time estimate and a check for done.",
	},
	TypeFramework: {
		"Define the framework's components and how to score each one.",
		"Show how to apply it to one of the user's current projects.",
	},
	TypeAnalysis: {
		"Lay out the evidence, the comparison and the conclusion.",
		"Quantify the trade-offs; avoid qualitative-only judgements.",
	},
}

const documentShape = `{
  "title": "string",
  "executiveSummary": "string (at least 220 characters)",
  "strategicAnalysis": {
    "marketPositioning": "string (at least 180 characters)",
    "competitiveAdvantages": "string (at least 180 characters)",
    "riskAssessment": "string (at least 180 characters)"
  },
  "detailedActionPlan": [
    {"step": "string", "owner": "named person or role", "deadline": "YYYY-MM-DD", "resources": "string", "successMetric": "measurable outcome"}
  ],
  "implementationTimeline": [
    {"milestone": "string", "startDate": "YYYY-MM-DD", "endDate": "YYYY-MM-DD", "dependencies": "string"}
  ],
  "keyPerformanceIndicators": [
    {"metric": "string", "baseline": "number with unit", "target": "number with unit", "cadence": "weekly|monthly|quarterly"}
  ],
  "resourceRequirements": [
    {"category": "string", "details": "string", "cost": "amount with currency", "owners": "string"}
  ],
  "methodologies": ["string"],
  "notes": "string"
}`

var qualityRules = []string{
	"At least 4 action items, each with a real owner, a dated deadline, resources and a measurable success metric.",
	"At least 4 timeline phases with concrete start and end dates.",
	"At least 4 KPIs; at least one with a numeric baseline and a numeric target.",
	"At least 3 resource categories with concrete details and cost.",
	"Mention the user by first name or reference their projects by name.",
	"Do not write placeholders such as TBD, N/A, [name] or \"to be determined\".",
	"Do not describe the document itself (\"this document\", \"this plan\"); state the substance.",
	"Buzzwords like \"leverage\" or \"synergy\" are only acceptable next to numbers.",
}

// Prompt is the user turn for one generation attempt. Remediation notes from
// the previous attempt are appended verbatim so the model can fix them.
func Prompt(req Request, notes []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s for the user.\n\n", req.DocumentType.Label())

	b.WriteString("FOCUS\n")
	focus, ok := focusByType[req.DocumentType]
	if !ok {
		focus = focusByType[TypeStrategy]
	}
	for _, f := range focus {
		b.WriteString("- " + f + "\n")
	}

	b.WriteString("\nUSER REQUEST\n")
	b.WriteString(strings.TrimSpace(req.UserMessage) + "\n")
	if s := strings.TrimSpace(req.AssistantResponse); s != "" {
		b.WriteString("\nASSISTANT DRAFT RESPONSE\n")
		b.WriteString(s + "\n")
	}
	if s := strings.TrimSpace(req.ContextSummary); s != "" {
		b.WriteString("\nUSER CONTEXT\n")
		b.WriteString(s + "\n")
	}
	if len(req.Validation.MilestoneNames) > 0 {
		b.WriteString("\nMILESTONES TO ALIGN WITH\n")
		for _, m := range req.Validation.MilestoneNames {
			b.WriteString("- " + m + "\n")
		}
	}

	b.WriteString("\nQUALITY RULES\n")
	for _, r := range qualityRules {
		b.WriteString("- " + r + "\n")
	}

	if len(notes) > 0 {
		b.WriteString("\nYOUR PREVIOUS ATTEMPT WAS REJECTED. FIX EVERY ISSUE:\n")
		for _, n := range notes {
			b.WriteString("- " + n + "\n")
		}
	}

	b.WriteString("\nReturn JSON with exactly this shape:\n")
	b.WriteString(documentShape)
	return b.String()
}
