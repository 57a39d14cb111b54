package docgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

func fenced(t *testing.T, doc *StrategicDocument) string {
	t.Helper()
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	return "Here is the plan:\n```json\n" + string(b) + "\n```"
}

func phoenixRequest() Request {
	return Request{
		DocumentType:   TypeMarketingStrategy,
		UserMessage:    "Write me a marketing strategy for Phoenix",
		ContextSummary: "ACTIVE PROJECTS (1)\n- Project Phoenix",
		Validation:     phoenixContext,
	}
}

func TestGenerateRetriesWithRemediationNotes(t *testing.T) {
	short := completeDocument()
	short.ExecutiveSummary = "Phoenix grows."
	model := &llm.Scripted{Responses: []string{fenced(t, short), fenced(t, completeDocument())}}

	doc, err := NewGenerator(logger.Nop(), model, Config{}).Generate(context.Background(), phoenixRequest())
	require.NoError(t, err)
	require.Equal(t, "Project Phoenix Relaunch Strategy", doc.Title)
	require.Len(t, model.Requests, 2)

	first := model.Requests[0].Messages[0].Content
	require.Contains(t, first, "Write a Marketing Strategy")
	require.Contains(t, first, "Name target segments")
	require.NotContains(t, first, "PREVIOUS ATTEMPT")

	second := model.Requests[1].Messages[0].Content
	require.Contains(t, second, "YOUR PREVIOUS ATTEMPT WAS REJECTED")
	require.Contains(t, second, "Executive summary is too short")
	require.Equal(t, DefaultMaxTokens, model.Requests[1].MaxTokens)
}

func TestGenerateRecoversFromNonJSON(t *testing.T) {
	model := &llm.Scripted{Responses: []string{"Sure, here is a strategy in prose.", fenced(t, completeDocument())}}

	_, err := NewGenerator(logger.Nop(), model, Config{}).Generate(context.Background(), phoenixRequest())
	require.NoError(t, err)
	require.Contains(t, model.Requests[1].Messages[0].Content, "not a valid JSON document")
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	bad := completeDocument()
	bad.KeyPerformanceIndicators = nil
	model := &llm.Scripted{Responses: []string{fenced(t, bad)}}

	doc, err := NewGenerator(logger.Nop(), model, Config{MaxAttempts: 3}).Generate(context.Background(), phoenixRequest())
	require.Nil(t, doc)
	require.ErrorIs(t, err, ErrValidationExhausted)

	var ex *ExhaustedError
	require.True(t, errors.As(err, &ex))
	require.Len(t, ex.Attempts, 3)
	require.Len(t, model.Requests, 3)
	require.Contains(t, err.Error(), "after 3 attempts")
	require.Contains(t, err.Error(), "at least 4 KPIs")
}

func TestGenerateTreatsProviderErrorsAsAttempts(t *testing.T) {
	model := &llm.Scripted{
		Responses: []string{"", fenced(t, completeDocument())},
		Errs:      []error{errors.New("overloaded")},
	}

	_, err := NewGenerator(logger.Nop(), model, Config{}).Generate(context.Background(), phoenixRequest())
	require.NoError(t, err)
	require.Contains(t, model.Requests[1].Messages[0].Content, "overloaded")
}

func TestGenerateStopsWhenCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	model := &llm.Scripted{Responses: []string{fenced(t, completeDocument())}}

	_, err := NewGenerator(logger.Nop(), model, Config{}).Generate(ctx, phoenixRequest())
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, errors.Is(err, ErrValidationExhausted))
}

func TestNormalizeFillsOptionalFields(t *testing.T) {
	doc := completeDocument()
	doc.Title = "  "
	doc.ExecutiveSummary = "  First   line\n\n\n\nSecond  line "

	out := Normalize(doc, TypeRoadmap)
	require.Equal(t, "Roadmap", out.Title)
	require.Equal(t, "First line\n\nSecond line", out.ExecutiveSummary)
	require.Equal(t, "monthly", out.KeyPerformanceIndicators[3].Cadence)
	require.Equal(t, "Unassigned", out.ResourceRequirements[2].Owners)
	require.Equal(t, []string{"Jobs to be done", "North star metric"}, out.Methodologies)
}

func TestMarkdownSections(t *testing.T) {
	md := completeDocument().Markdown()
	for _, h := range []string{"# Project Phoenix Relaunch Strategy", "## Executive Summary", "## Detailed Action Plan", "### 1. Ship self-serve onboarding", "## Key Performance Indicators", "## Notes"} {
		require.True(t, strings.Contains(md, h), h)
	}
	require.Contains(t, md, "Paying teams — 120 → 500 (monthly)")
	require.Contains(t, md, "(depends on: Design review)")
}
