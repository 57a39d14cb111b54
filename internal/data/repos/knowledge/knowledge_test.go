package knowledge

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/atmohq/atmo-backend/internal/data/repos/testutil"
	"github.com/atmohq/atmo-backend/internal/domain"
	dk "github.com/atmohq/atmo-backend/internal/domain/knowledge"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
)

func TestKnowledgeItemRepoListRecent(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.From(context.Background())
	repo := NewKnowledgeItemRepo(db, testutil.Logger(t))
	owner := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	for i, name := range []string{"oldest", "middle", "newest"} {
		item := &domain.KnowledgeItem{OwnerID: owner, Name: name, Content: "c", OccurredAt: base.Add(time.Duration(i) * time.Minute)}
		item.SetTags([]string{"x"})
		require.NoError(t, repo.Create(dbc, item))
	}
	require.NoError(t, repo.Create(dbc, &domain.KnowledgeItem{OwnerID: uuid.New(), Name: "other"}))

	rows, err := repo.ListRecent(dbc, owner, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "newest", rows[0].Name)
	require.Equal(t, dk.DefaultItemType, rows[0].Type)
	require.Equal(t, []string{"x"}, rows[0].TagList())

	require.Error(t, repo.Create(dbc, &domain.KnowledgeItem{Name: "orphan"}))
}

func TestInsightRepoFindRecentByTitle(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.From(context.Background())
	repo := NewInsightRepo(db, testutil.Logger(t))
	owner := uuid.New()

	in := &domain.Insight{OwnerID: owner, Title: "Edge AI adoption", Category: dk.CategoryPersonal, InsightType: dk.InsightTrend}
	require.NoError(t, repo.Create(dbc, in))

	since := time.Now().UTC().Add(-5 * time.Minute)
	got, err := repo.FindRecentByTitle(dbc, owner, "  edge ai ADOPTION ", dk.CategoryPersonal, since)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, in.ID, got.ID)
	require.Equal(t, 50, got.Relevance)

	other, err := repo.FindRecentByTitle(dbc, owner, "Edge AI adoption", dk.CategoryProject, since)
	require.NoError(t, err)
	require.Nil(t, other)

	require.NoError(t, repo.UpdateFields(dbc, in.ID, map[string]interface{}{"relevance": 0}))
	got, err = repo.FindRecentByTitle(dbc, owner, "Edge AI adoption", dk.CategoryPersonal, since)
	require.NoError(t, err)
	require.Equal(t, 0, got.Relevance)
}
