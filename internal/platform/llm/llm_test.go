package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMessagesMergesRuns(t *testing.T) {
	got := NormalizeMessages([]Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleUser, Content: "  "},
		{Role: RoleUser, Content: "again"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: "system", Content: "odd"},
	})
	want := []Message{
		{Role: RoleUser, Content: "hi\n\nagain"},
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "odd"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("NormalizeMessages mismatch (-want +got):\n%s", diff)
	}
}

func TestScriptedReplaysAndRecords(t *testing.T) {
	boom := errors.New("boom")
	s := &Scripted{Responses: []string{"a", "b"}, Errs: []error{nil, boom}}
	ctx := context.Background()

	out, err := s.Complete(ctx, Request{System: "one"})
	require.NoError(t, err)
	require.Equal(t, "a", out)

	_, err = s.Complete(ctx, Request{System: "two"})
	require.ErrorIs(t, err, boom)

	out, err = s.Complete(ctx, Request{System: "three"})
	require.NoError(t, err)
	require.Equal(t, "b", out)
	require.Len(t, s.Requests, 3)
}
