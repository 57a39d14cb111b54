package chat

import (
	"strings"
	"time"

	ws "github.com/atmohq/atmo-backend/internal/domain/workspace"
)

var goalStatusMap = map[string]string{
	"planned": ws.GoalStatusPlanned, "plan": ws.GoalStatusPlanned, "todo": ws.GoalStatusPlanned,
	"to do": ws.GoalStatusPlanned, "not started": ws.GoalStatusPlanned, "pending": ws.GoalStatusPlanned,
	"new": ws.GoalStatusPlanned, "backlog": ws.GoalStatusPlanned, "upcoming": ws.GoalStatusPlanned,

	"in-progress": ws.GoalStatusInProgress, "in progress": ws.GoalStatusInProgress,
	"in_progress": ws.GoalStatusInProgress, "inprogress": ws.GoalStatusInProgress,
	"started": ws.GoalStatusInProgress, "ongoing": ws.GoalStatusInProgress, "active": ws.GoalStatusInProgress,
	"doing": ws.GoalStatusInProgress, "wip": ws.GoalStatusInProgress, "working": ws.GoalStatusInProgress,

	"completed": ws.GoalStatusCompleted, "complete": ws.GoalStatusCompleted, "done": ws.GoalStatusCompleted,
	"finished": ws.GoalStatusCompleted, "achieved": ws.GoalStatusCompleted, "closed": ws.GoalStatusCompleted,

	"deleted": ws.GoalStatusDeleted, "removed": ws.GoalStatusDeleted, "cancelled": ws.GoalStatusDeleted,
	"canceled": ws.GoalStatusDeleted,
}

var priorityMap = map[string]string{
	"high": ws.PriorityHigh, "urgent": ws.PriorityHigh, "critical": ws.PriorityHigh, "asap": ws.PriorityHigh,
	"important": ws.PriorityHigh, "top": ws.PriorityHigh, "p0": ws.PriorityHigh, "p1": ws.PriorityHigh,

	"medium": ws.PriorityMedium, "normal": ws.PriorityMedium, "moderate": ws.PriorityMedium,
	"default": ws.PriorityMedium, "p2": ws.PriorityMedium,

	"low": ws.PriorityLow, "minor": ws.PriorityLow, "nice to have": ws.PriorityLow,
	"optional": ws.PriorityLow, "someday": ws.PriorityLow, "p3": ws.PriorityLow,
}

var projectStatusMap = map[string]string{
	"planned": ws.StatusPlanned, "planning": ws.StatusPlanned, "not started": ws.StatusPlanned,
	"active":      ws.StatusActive,
	"in progress": ws.StatusInProgress, "in-progress": ws.StatusInProgress, "in_progress": ws.StatusInProgress,
	"ongoing": ws.StatusInProgress, "started": ws.StatusInProgress,
	"completed": ws.StatusCompleted, "complete": ws.StatusCompleted, "done": ws.StatusCompleted,
	"finished": ws.StatusCompleted,
}

func lookup(m map[string]string, raw, def string) string {
	key := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// NormalizeGoalStatus maps free text onto planned/in-progress/completed/deleted.
func NormalizeGoalStatus(raw string) string { return lookup(goalStatusMap, raw, ws.GoalStatusPlanned) }

// NormalizePriority maps free text onto high/medium/low.
func NormalizePriority(raw string) string { return lookup(priorityMap, raw, ws.PriorityMedium) }

func NormalizeProjectStatus(raw string) string {
	return lookup(projectStatusMap, raw, ws.StatusPlanned)
}

func clampRelevance(v *float64) int {
	if v == nil {
		return 50
	}
	switch {
	case *v < 0:
		return 0
	case *v > 100:
		return 100
	}
	return int(*v + 0.5)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"01/02/2006",
}

// parseDate accepts the date shapes models commonly emit. Unparseable input is nil.
func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
