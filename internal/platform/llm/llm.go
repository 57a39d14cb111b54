package llm

import (
	"context"
	"errors"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Request is a provider-neutral completion request. System is sent as the
// provider's system/instructions slot; Messages are the ordered turns.
// JSON asks the provider to constrain output to a single JSON object where it
// can; callers still parse defensively with ExtractJSONBlock.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature *float64
	JSON        bool
}

// Client is implemented by every model provider.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

var ErrEmptyResponse = errors.New("llm: empty response")

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (string, error)

func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) { return f(ctx, req) }

// Scripted replays canned responses in order and records every request.
// The last response repeats once the script is exhausted.
type Scripted struct {
	Responses []string
	Errs      []error
	Requests  []Request
}

func (s *Scripted) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	i := len(s.Requests)
	s.Requests = append(s.Requests, req)
	if i < len(s.Errs) && s.Errs[i] != nil {
		return "", s.Errs[i]
	}
	if len(s.Responses) == 0 {
		return "", ErrEmptyResponse
	}
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	return s.Responses[i], nil
}

// NormalizeMessages drops empty turns and merges consecutive turns of the same
// role, which Anthropic and Gemini both reject.
func NormalizeMessages(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		role := m.Role
		if role != RoleAssistant {
			role = RoleUser
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + content
			continue
		}
		out = append(out, Message{Role: role, Content: content})
	}
	return out
}

func Float(v float64) *float64 { return &v }
