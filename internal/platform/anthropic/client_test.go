package anthropic

import (
	"context"
	"testing"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/require"

	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type fakeMessages struct {
	got   anthropicsdk.MessageNewParams
	reply *anthropicsdk.Message
}

func (f *fakeMessages) New(_ context.Context, params anthropicsdk.MessageNewParams, _ ...option.RequestOption) (*anthropicsdk.Message, error) {
	f.got = params
	return f.reply, nil
}

func TestCompleteBuildsParamsAndJoinsText(t *testing.T) {
	fake := &fakeMessages{reply: &anthropicsdk.Message{
		Content: []anthropicsdk.ContentBlockUnion{
			{Type: "text", Text: "part one "},
			{Type: "text", Text: "part two"},
		},
	}}
	c := newWithMessages(logger.Nop(), fake, Config{Model: "claude-test", MaxTokens: 512})

	out, err := c.Complete(context.Background(), llm.Request{
		System: "sys",
		Messages: []llm.Message{
			{Role: llm.RoleAssistant, Content: "earlier reply"},
			{Role: llm.RoleUser, Content: "hi"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "part one part two", out)

	require.Equal(t, anthropicsdk.Model("claude-test"), fake.got.Model)
	require.Equal(t, int64(512), fake.got.MaxTokens)
	require.Len(t, fake.got.System, 1)
	require.Equal(t, "sys", fake.got.System[0].Text)
	require.Len(t, fake.got.Messages, 3)
	require.Equal(t, anthropicsdk.MessageParamRoleUser, fake.got.Messages[0].Role)
	require.Equal(t, anthropicsdk.MessageParamRoleAssistant, fake.got.Messages[1].Role)
}

func TestCompleteEmptyResponse(t *testing.T) {
	fake := &fakeMessages{reply: &anthropicsdk.Message{}}
	c := newWithMessages(logger.Nop(), fake, Config{})
	_, err := c.Complete(context.Background(), llm.Request{Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}}})
	require.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestCompleteJSONPrefillsBrace(t *testing.T) {
	fake := &fakeMessages{reply: &anthropicsdk.Message{
		Content: []anthropicsdk.ContentBlockUnion{{Type: "text", Text: `"intent":"chat"}`}},
	}}
	c := newWithMessages(logger.Nop(), fake, Config{})

	out, err := c.Complete(context.Background(), llm.Request{JSON: true, Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	require.Equal(t, `{"intent":"chat"}`, out)
	require.Len(t, fake.got.Messages, 2)
	require.Equal(t, anthropicsdk.MessageParamRoleAssistant, fake.got.Messages[1].Role)
}
