package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	cfg      *genai.GenerateContentConfig
	reply    string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.cfg = model, contents, cfg
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.reply, genai.RoleModel),
		}},
	}, nil
}

func TestCompleteMapsRolesAndSystem(t *testing.T) {
	fake := &fakeModels{reply: "ok"}
	c := newWithModels(logger.Nop(), fake, Config{Model: "gemini-test", MaxTokens: 256})

	out, err := c.Complete(context.Background(), llm.Request{
		System: "sys",
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "hi"},
			{Role: llm.RoleAssistant, Content: "hello"},
			{Role: llm.RoleUser, Content: "plan my week"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, "gemini-test", fake.model)
	require.Len(t, fake.contents, 3)
	require.Equal(t, string(genai.RoleModel), fake.contents[1].Role)
	require.NotNil(t, fake.cfg.SystemInstruction)
	require.Equal(t, int32(256), fake.cfg.MaxOutputTokens)
}

func TestCompleteRejectsEmptyConversation(t *testing.T) {
	c := newWithModels(logger.Nop(), &fakeModels{}, Config{})
	_, err := c.Complete(context.Background(), llm.Request{System: "sys"})
	require.Error(t, err)
}

func TestCompleteJSONSetsMIMEType(t *testing.T) {
	fake := &fakeModels{reply: `{"ok":true}`}
	c := newWithModels(logger.Nop(), fake, Config{})
	_, err := c.Complete(context.Background(), llm.Request{JSON: true, Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	require.Equal(t, "application/json", fake.cfg.ResponseMIMEType)
}
