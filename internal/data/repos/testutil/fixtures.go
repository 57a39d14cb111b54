package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/domain"
	"github.com/atmohq/atmo-backend/internal/domain/workspace"
)

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, fullName string) *domain.Profile {
	tb.Helper()
	p := &domain.Profile{ID: uuid.New(), FullName: fullName, Email: "user@example.com"}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, name, priority string) *domain.Project {
	tb.Helper()
	if priority == "" {
		priority = workspace.PriorityMedium
	}
	p := &domain.Project{
		OwnerID:  ownerID,
		Name:     name,
		Status:   workspace.StatusActive,
		Priority: priority,
		Active:   true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedGoal(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID, projectID uuid.UUID, name string, target *time.Time) *domain.Goal {
	tb.Helper()
	g := &domain.Goal{
		OwnerID:    ownerID,
		ProjectID:  projectID,
		Name:       name,
		Status:     workspace.GoalStatusPlanned,
		Priority:   workspace.PriorityMedium,
		TargetDate: target,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed goal: %v", err)
	}
	return g
}

func SeedMilestone(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID, projectID uuid.UUID, name string, due *time.Time) *domain.Milestone {
	tb.Helper()
	m := &domain.Milestone{
		OwnerID:   ownerID,
		ProjectID: projectID,
		Name:      name,
		Status:    workspace.StatusPlanned,
		DueDate:   due,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed milestone: %v", err)
	}
	return m
}

func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID, projectID uuid.UUID, name string) *domain.Task {
	tb.Helper()
	t := &domain.Task{
		OwnerID:     ownerID,
		ProjectID:   projectID,
		Name:        name,
		Description: "seeded",
		Priority:    workspace.PriorityMedium,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return t
}

func TimePtr(t time.Time) *time.Time { return &t }
