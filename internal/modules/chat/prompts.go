package chat

import (
	"fmt"
	"strings"
	"time"
)

const extractionContract = `Respond with ONE JSON object and nothing else:
{
  "conversationalResponse": "string shown to the user",
  "entities": [
    {"type": "project|goal|task|milestone|knowledge|insight", "action": "create|update|delete", "data": {...}}
  ],
  "nextSteps": ["optional short suggestions"]
}
Entity data fields:
- project: name, description, status, priority, color
- goal: id?, name, description, status, priority, targetDate (YYYY-MM-DD), projectId or projectName
- task: name, description, projectId or projectName, projectConfirmed (true only when the user named the project explicitly), goalId or goalName, dueDate
- milestone: name, description, status, dueDate, projectId or projectName
- knowledge: name, content, type, tags[], source_url (only a link the user gave you)
- insight: title, summary, insightType (article|opportunity|trend|note), category (personal|project), projectName, source_url (only a link the user gave you), relevance (0-100)
Use "entities": [] when the user is only chatting or asking for advice.`

// BuildSystemPrompt grounds the extraction call in the user's workspace.
func BuildSystemPrompt(c Context, now time.Time) string {
	name := "the user"
	if c.Profile != nil && strings.TrimSpace(c.Profile.FullName) != "" {
		name = strings.TrimSpace(c.Profile.FullName)
	}

	projects := make([]string, 0, len(c.Projects))
	for _, p := range c.Projects {
		projects = append(projects, fmt.Sprintf("- %s (id %s, priority %s)", p.Name, p.ID, p.Priority))
	}
	tasks := make([]string, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		tasks = append(tasks, "- "+t.Name)
	}

	return strings.TrimSpace(strings.Join([]string{
		"You are ATMO, a decisive productivity partner for " + name + ".",
		"Today is " + now.UTC().Format("Monday, 2006-01-02") + ".",
		"",
		"PROFILE:",
		profileLines(c),
		"",
		"ACTIVE PROJECTS:",
		orNone(projects),
		"",
		"OPEN TASKS (do not create duplicates of these):",
		orNone(tasks),
		"",
		"RULES:",
		"- Be decisive. Suggest a concrete next action instead of asking open questions.",
		"- Ask at most 3 clarifying questions, as bullets, and only when you cannot act.",
		"- Keep replies under 100 words unless the user asks for a document.",
		"- Only extract entities the user clearly asked to create, change or delete.",
		"- Never invent a project for a task or goal. Use the exact project name from the list.",
		"- Task descriptions must state concrete actions and what done looks like.",
		"- Never invent URLs. source_url may only hold a link the user typed.",
		"",
		extractionContract,
	}, "\n"))
}

func profileLines(c Context) string {
	if c.Profile == nil {
		return "- (unknown)"
	}
	var lines []string
	if v := strings.TrimSpace(c.Profile.FullName); v != "" {
		lines = append(lines, "- Name: "+v)
	}
	if v := strings.TrimSpace(c.Profile.Role); v != "" {
		lines = append(lines, "- Role: "+v)
	}
	if v := clip(c.Profile.Bio, 240); v != "" {
		lines = append(lines, "- Bio: "+v)
	}
	return orNone(lines)
}

func orNone(lines []string) string {
	if len(lines) == 0 {
		return "- (none)"
	}
	return strings.Join(lines, "\n")
}
