package chat

import (
	"testing"
	"time"

	"github.com/atmohq/atmo-backend/internal/domain"
	ws "github.com/atmohq/atmo-backend/internal/domain/workspace"
)

func TestDerivePriority(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	at := func(days int) *time.Time { v := now.AddDate(0, 0, days); return &v }
	medium := &domain.Project{Priority: ws.PriorityMedium}

	cases := []struct {
		name       string
		goal       *domain.Goal
		milestones []*domain.Milestone
		project    *domain.Project
		want       string
	}{
		{"goal due in 2 days", &domain.Goal{TargetDate: at(2)}, nil, medium, ws.PriorityHigh},
		{"goal due in 10 days", &domain.Goal{TargetDate: at(10)}, nil, medium, ws.PriorityMedium},
		{"overdue goal", &domain.Goal{TargetDate: at(-1)}, nil, medium, ws.PriorityHigh},
		{"completed goal ignored", &domain.Goal{TargetDate: at(1), Status: ws.GoalStatusCompleted}, nil, medium, ws.PriorityMedium},
		{"urgent open milestone", nil, []*domain.Milestone{{Status: ws.StatusPlanned, DueDate: at(3)}}, medium, ws.PriorityHigh},
		{"completed milestone ignored", nil, []*domain.Milestone{{Status: ws.StatusCompleted, DueDate: at(1)}}, medium, ws.PriorityMedium},
		{"high project", nil, nil, &domain.Project{Priority: ws.PriorityHigh}, ws.PriorityHigh},
		{"nothing urgent", nil, []*domain.Milestone{{Status: ws.StatusPlanned}}, nil, ws.PriorityMedium},
	}
	for _, tc := range cases {
		if got := DerivePriority(now, tc.goal, tc.milestones, tc.project); got != tc.want {
			t.Errorf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}
