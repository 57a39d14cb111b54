package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	MaxRetries int
	Timeout    time.Duration
}

type messagesAPI interface {
	New(ctx context.Context, params anthropicsdk.MessageNewParams, opts ...option.RequestOption) (*anthropicsdk.Message, error)
}

type client struct {
	log       *logger.Logger
	msgs      messagesAPI
	model     anthropicsdk.Model
	maxTokens int
}

func NewClient(log *logger.Logger, cfg Config) (llm.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("missing ANTHROPIC_API_KEY")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if u := strings.TrimSpace(cfg.BaseURL); u != "" {
		opts = append(opts, option.WithBaseURL(u))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	sdk := anthropicsdk.NewClient(opts...)
	return newWithMessages(log, &sdk.Messages, cfg), nil
}

func newWithMessages(log *logger.Logger, msgs messagesAPI, cfg Config) *client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &client{
		log:       log.With("service", "AnthropicClient"),
		msgs:      msgs,
		model:     anthropicsdk.Model(model),
		maxTokens: maxTokens,
	}
}

func (c *client) Complete(ctx context.Context, req llm.Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	params := anthropicsdk.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(maxTokens),
	}
	if sys := strings.TrimSpace(req.System); sys != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: sys}}
	}
	if req.Temperature != nil {
		params.Temperature = param.NewOpt(*req.Temperature)
	}
	for _, m := range llm.NormalizeMessages(req.Messages) {
		role := anthropicsdk.MessageParamRoleUser
		if m.Role == llm.RoleAssistant {
			role = anthropicsdk.MessageParamRoleAssistant
		}
		params.Messages = append(params.Messages, anthropicsdk.MessageParam{
			Role:    role,
			Content: []anthropicsdk.ContentBlockParamUnion{anthropicsdk.NewTextBlock(m.Content)},
		})
	}
	// The Messages API requires the first turn to come from the user.
	if len(params.Messages) == 0 || params.Messages[0].Role != anthropicsdk.MessageParamRoleUser {
		params.Messages = append([]anthropicsdk.MessageParam{{
			Role:    anthropicsdk.MessageParamRoleUser,
			Content: []anthropicsdk.ContentBlockParamUnion{anthropicsdk.NewTextBlock(".")},
		}}, params.Messages...)
	}
	// JSON mode: prefill the assistant turn so the reply continues an object.
	if req.JSON {
		params.Messages = append(params.Messages, anthropicsdk.NewAssistantMessage(anthropicsdk.NewTextBlock("{")))
	}

	msg, err := c.msgs.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	var out strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			out.WriteString(block.Text)
		}
	}
	text := out.String()
	if req.JSON && !strings.HasPrefix(strings.TrimSpace(text), "{") {
		text = "{" + text
	}
	if strings.TrimSpace(strings.Trim(text, "{")) == "" {
		return "", llm.ErrEmptyResponse
	}
	c.log.Debug("Anthropic response", "model", string(c.model), "stop_reason", string(msg.StopReason),
		"input_tokens", msg.Usage.InputTokens, "output_tokens", msg.Usage.OutputTokens)
	return text, nil
}
