package outputs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/atmohq/atmo-backend/internal/data/repos/testutil"
	"github.com/atmohq/atmo-backend/internal/domain"
	do "github.com/atmohq/atmo-backend/internal/domain/outputs"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
)

func TestOutputRepoScopesByUser(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.From(context.Background())
	repo := NewOutputRepo(db, testutil.Logger(t))
	user := uuid.New()

	o := &domain.Output{UserID: user, Filename: "plan.pdf", FileType: do.FileTypePDF, DocumentType: "business_plan", Title: "Plan", FileSize: 42}
	require.NoError(t, o.SetContent(domain.OutputContent{DocumentContent: "# Plan", PDFBase64: "AAAA"}))
	require.NoError(t, repo.Create(dbc, o))

	got, err := repo.GetByID(dbc, user, o.ID)
	require.NoError(t, err)
	c, err := got.Content()
	require.NoError(t, err)
	require.Equal(t, "AAAA", c.PDFBase64)

	_, err = repo.GetByID(dbc, uuid.New(), o.ID)
	require.Error(t, err)

	list, err := repo.ListByUser(dbc, user, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "plan.pdf", list[0].Filename)
	require.Empty(t, list[0].ContentData)
}
