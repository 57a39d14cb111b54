package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atmohq/atmo-backend/internal/domain/outputs"
	chatmod "github.com/atmohq/atmo-backend/internal/modules/chat"
	"github.com/atmohq/atmo-backend/internal/modules/docgen"
	"github.com/atmohq/atmo-backend/internal/modules/docgen/pdf"
	"github.com/atmohq/atmo-backend/internal/platform/apierr"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
)

func TestSendConversationOnly(t *testing.T) {
	f := newFixture(t, nil)
	f.reply("Start with the launch checklist, then review open bugs.")

	res, err := f.send("what tasks should I do today?")
	require.NoError(t, err)
	require.Equal(t, "Start with the launch checklist, then review open bugs.", res.Response)
	require.Zero(t, res.EntitiesExtracted)
	require.Empty(t, res.EntitiesCreated)
	require.False(t, res.DocumentGenerated)

	dbc := dbctx.From(context.Background())
	profile, err := f.repos.Profiles.GetByID(dbc, f.user)
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", profile.FullName)
	require.Zero(t, profile.StreakDays)

	session, err := f.repos.ChatSessions.GetOrCreateActive(dbc, f.user)
	require.NoError(t, err)
	msgs, err := f.repos.ChatMessages.ListRecent(dbc, session.ID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "user", msgs[0].Role)
	require.Equal(t, "assistant", msgs[1].Role)
}

func TestSendPassesHistoryToModel(t *testing.T) {
	f := newFixture(t, nil)
	f.reply("First answer.")
	f.reply("Second answer.")

	_, err := f.send("hello there")
	require.NoError(t, err)
	_, err = f.send("and what next?")
	require.NoError(t, err)

	msgs := f.chatLLM.Requests[1].Messages
	require.Len(t, msgs, 3)
	require.Equal(t, "hello there", msgs[0].Content)
	require.Equal(t, "First answer.", msgs[1].Content)
	require.Equal(t, "and what next?", msgs[2].Content)
}

func TestSendGeneratesDocumentAndDiscardsEntities(t *testing.T) {
	f := newFixture(t, nil)
	f.reply("Here is a plan for Phoenix.", map[string]any{"type": "project", "data": map[string]any{"name": "Marketing Plan"}})
	f.docLLM.Responses = []string{docJSON(t, growthPlan())}

	res, err := f.send("write me a marketing plan")
	require.NoError(t, err)
	require.True(t, res.DocumentGenerated)
	require.NotNil(t, res.OutputID)
	require.Zero(t, res.EntitiesExtracted)
	require.Equal(t, "Here is a plan for Phoenix.\n\nI've saved \"Phoenix Growth Plan\" to your Outputs as a PDF.", res.Response)

	dbc := dbctx.From(context.Background())
	projects, err := f.repos.Projects.ListActive(dbc, f.user, 0)
	require.NoError(t, err)
	require.Empty(t, projects)

	out, err := f.repos.Outputs.GetByID(dbc, f.user, *res.OutputID)
	require.NoError(t, err)
	require.Equal(t, outputs.FileTypePDF, out.FileType)
	require.Equal(t, string(docgen.TypeMarketingStrategy), out.DocumentType)
	require.True(t, contains(out.Filename, "phoenix-growth-plan-"))
	content, err := out.Content()
	require.NoError(t, err)
	require.NotEmpty(t, content.PDFBase64)
	require.NotEmpty(t, content.StructuredDocument)
	require.Positive(t, out.FileSize)
}

func TestSendFallsBackToMarkdownWhenRenderFails(t *testing.T) {
	f := newFixture(t, nil)
	f.docs.render = func(*docgen.StrategicDocument, string, docgen.DocumentType, string, pdf.Metadata) (string, error) {
		return "", errors.New("font missing")
	}
	f.reply("Drafting it now.")
	f.docLLM.Responses = []string{docJSON(t, growthPlan())}

	res, err := f.send("generate a business plan for my bakery")
	require.NoError(t, err)
	require.True(t, res.DocumentGenerated)
	require.True(t, contains(res.Response, "to your Outputs as a document."))

	out, err := f.repos.Outputs.GetByID(dbctx.From(context.Background()), f.user, *res.OutputID)
	require.NoError(t, err)
	require.Equal(t, outputs.FileTypeMarkdown, out.FileType)
	require.True(t, contains(out.Filename, ".md"))
	content, err := out.Content()
	require.NoError(t, err)
	require.Empty(t, content.PDFBase64)
	require.True(t, contains(content.DocumentContent, "# Phoenix Growth Plan"))
}

func TestSendFailsWhenDocumentNeverValidates(t *testing.T) {
	f := newFixture(t, nil)
	bad := growthPlan()
	bad.ExecutiveSummary = "We will grow."
	f.reply("On it.")
	f.docLLM.Responses = []string{docJSON(t, bad)}

	_, err := f.send("write me a marketing plan")
	require.ErrorIs(t, err, docgen.ErrValidationExhausted)
	require.Len(t, f.docLLM.Requests, 2)

	rows, err := f.repos.Outputs.ListByUser(dbctx.From(context.Background()), f.user, 0)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestSendContractViolationPersistsNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.chatLLM.Responses = []string{"I am not JSON at all"}

	_, err := f.send("add a project called Atlas")
	require.ErrorIs(t, err, chatmod.ErrModelContract)

	dbc := dbctx.From(context.Background())
	session, err := f.repos.ChatSessions.GetOrCreateActive(dbc, f.user)
	require.NoError(t, err)
	msgs, err := f.repos.ChatMessages.ListRecent(dbc, session.ID, 10)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestSendRejectsInvalidInput(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.send("   ")
	require.Equal(t, http.StatusBadRequest, apierr.StatusOf(err, 0))

	_, err = f.chat.Send(context.Background(), SendInput{Message: "hi"})
	require.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err, 0))
	require.Empty(t, f.chatLLM.Requests)
}

func TestSendRejectsReplayInFlight(t *testing.T) {
	f := newFixture(t, busyGuard{})

	_, err := f.chat.Send(context.Background(), SendInput{UserID: f.user, Message: "hello", MessageID: "m-1"})
	require.Equal(t, http.StatusConflict, apierr.StatusOf(err, 0))
	require.Empty(t, f.chatLLM.Requests)
}
