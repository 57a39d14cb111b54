package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/atmohq/atmo-backend/internal/data/repos/testutil"
	"github.com/atmohq/atmo-backend/internal/domain"
	ws "github.com/atmohq/atmo-backend/internal/domain/workspace"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
)

func TestProjectRepoLookups(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.From(ctx)
	repo := NewProjectRepo(db, testutil.Logger(t))
	owner := uuid.New()

	phoenix := testutil.SeedProject(t, ctx, db, owner, "Project Phoenix", "")
	testutil.SeedProject(t, ctx, db, owner, "Phoenix 100% Launch", "")
	testutil.SeedProject(t, ctx, db, uuid.New(), "Project Phoenix", "")

	exact, err := repo.FindByName(dbc, owner, "project phoenix")
	require.NoError(t, err)
	require.Len(t, exact, 1)
	require.Equal(t, phoenix.ID, exact[0].ID)

	partial, err := repo.SearchByName(dbc, owner, "PHOENIX")
	require.NoError(t, err)
	require.Len(t, partial, 2)

	literal, err := repo.SearchByName(dbc, owner, "100%")
	require.NoError(t, err)
	require.Len(t, literal, 1)

	recent, err := repo.FindRecentByName(dbc, owner, "PROJECT PHOENIX", time.Now().UTC().Add(-5*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, recent)

	stale, err := repo.FindRecentByName(dbc, owner, "Project Phoenix", time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	require.Nil(t, stale)

	deleted, err := repo.SoftDeleteByName(dbc, owner, "project phoenix")
	require.NoError(t, err)
	require.Len(t, deleted, 1)

	_, err = repo.GetByID(dbc, owner, phoenix.ID)
	require.Error(t, err)

	var raw domain.Project
	require.NoError(t, db.Where("id = ?", phoenix.ID).Take(&raw).Error)
	require.Equal(t, ws.StatusDeleted, raw.Status)
	require.False(t, raw.Active)

	active, err := repo.ListActive(dbc, owner, 8)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "Phoenix 100% Launch", active[0].Name)
}

func TestGoalRepoOrdersByPriorityAndSoftDeletes(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.From(ctx)
	repo := NewGoalRepo(db, testutil.Logger(t))
	owner := uuid.New()
	p := testutil.SeedProject(t, ctx, db, owner, "Atlas", "")

	low := testutil.SeedGoal(t, ctx, db, owner, p.ID, "Tidy backlog", nil)
	require.NoError(t, repo.UpdateFields(dbc, low.ID, map[string]interface{}{"priority": ws.PriorityLow}))
	high := testutil.SeedGoal(t, ctx, db, owner, p.ID, "Ship beta", nil)
	require.NoError(t, repo.UpdateFields(dbc, high.ID, map[string]interface{}{"priority": ws.PriorityHigh}))

	rows, err := repo.ListForContext(dbc, owner, 12)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, high.ID, rows[0].ID)

	found, err := repo.FindByProjectAndName(dbc, owner, p.ID, "ship BETA")
	require.NoError(t, err)
	require.NotNil(t, found)

	deletedGoals, err := repo.SoftDeleteByName(dbc, owner, nil, "Ship beta")
	require.NoError(t, err)
	require.Len(t, deletedGoals, 1)
	require.Equal(t, found.ID, deletedGoals[0].ID)

	found, err = repo.FindByProjectAndName(dbc, owner, p.ID, "ship beta")
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestTaskRepoOpenAndArchive(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.From(ctx)
	repo := NewTaskRepo(db, testutil.Logger(t))
	owner := uuid.New()
	p := testutil.SeedProject(t, ctx, db, owner, "Atlas", "")

	open := testutil.SeedTask(t, ctx, db, owner, p.ID, "Write docs")
	done := testutil.SeedTask(t, ctx, db, owner, p.ID, "Old chore")
	long := time.Now().UTC().AddDate(0, 0, -45)
	require.NoError(t, repo.UpdateFields(dbc, done.ID, map[string]interface{}{"completed": true, "completed_at": long}))

	rows, err := repo.ListOpen(dbc, owner, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, open.ID, rows[0].ID)

	gone := testutil.SeedProject(t, ctx, db, owner, "Retired", "")
	testutil.SeedTask(t, ctx, db, owner, gone.ID, "Hidden follow-up")
	_, err = NewProjectRepo(db, testutil.Logger(t)).SoftDeleteByName(dbc, owner, "Retired")
	require.NoError(t, err)
	rows, err = repo.ListOpen(dbc, owner, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, open.ID, rows[0].ID)

	n, err := repo.ArchiveCompletedBefore(dbc, time.Now().UTC().AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	all, err := repo.ListByOwner(dbc, owner)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestMilestoneRepoOpenByProject(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.From(ctx)
	repo := NewMilestoneRepo(db, testutil.Logger(t))
	owner := uuid.New()
	p := testutil.SeedProject(t, ctx, db, owner, "Atlas", "")

	later := time.Now().UTC().AddDate(0, 0, 20)
	soon := time.Now().UTC().AddDate(0, 0, 2)
	testutil.SeedMilestone(t, ctx, db, owner, p.ID, "GA", &later)
	beta := testutil.SeedMilestone(t, ctx, db, owner, p.ID, "Beta", &soon)
	testutil.SeedMilestone(t, ctx, db, owner, p.ID, "Someday", nil)
	shipped := testutil.SeedMilestone(t, ctx, db, owner, p.ID, "Alpha", &soon)
	require.NoError(t, repo.UpdateFields(dbc, shipped.ID, map[string]interface{}{"status": ws.StatusCompleted}))

	rows, err := repo.ListOpenByProject(dbc, owner, p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, beta.ID, rows[0].ID)
	require.Equal(t, "Someday", rows[2].Name)
}
