package chat

import (
	"time"

	"github.com/atmohq/atmo-backend/internal/domain"
	ws "github.com/atmohq/atmo-backend/internal/domain/workspace"
)

const UrgencyWindow = 3 * 24 * time.Hour

// DerivePriority computes task priority from deadlines. A goal target date or an
// open milestone due within the urgency window (overdue included), or a high
// priority project, makes the task high; everything else is medium.
func DerivePriority(now time.Time, goal *domain.Goal, milestones []*domain.Milestone, project *domain.Project) string {
	horizon := now.Add(UrgencyWindow)
	if goal != nil && goal.TargetDate != nil &&
		goal.Status != ws.GoalStatusCompleted && goal.Status != ws.GoalStatusDeleted &&
		!goal.TargetDate.After(horizon) {
		return ws.PriorityHigh
	}
	for _, m := range milestones {
		if m.Open() && m.DueDate != nil && !m.DueDate.After(horizon) {
			return ws.PriorityHigh
		}
	}
	if project != nil && project.Priority == ws.PriorityHigh {
		return ws.PriorityHigh
	}
	return ws.PriorityMedium
}
