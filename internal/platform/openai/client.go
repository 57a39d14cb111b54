package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/atmohq/atmo-backend/internal/platform/httpx"
	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4.1-mini"
	noTempTTL      = 24 * time.Hour
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature *float64
}

type client struct {
	log      *logger.Logger
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
	retry    httpx.RetryPolicy
	temp     *float64

	// model -> time it rejected the temperature parameter
	noTemp sync.Map
}

// NewClient returns an llm.Client backed by the OpenAI Responses API. BaseURL
// may point at any Responses-compatible gateway.
func NewClient(log *logger.Logger, cfg Config) (llm.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &client{
		log:      log.With("service", "OpenAIClient", "model", model),
		endpoint: base + "/v1/responses",
		apiKey:   apiKey,
		model:    model,
		http:     &http.Client{Timeout: timeout},
		retry:    httpx.RetryPolicy{MaxRetries: max(cfg.MaxRetries, 0)},
		temp:     cfg.Temperature,
	}, nil
}

type inputItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textFormat struct {
	Format struct {
		Type string `json:"type"`
	} `json:"format"`
}

type responsesRequest struct {
	Model           string      `json:"model"`
	Instructions    string      `json:"instructions,omitempty"`
	Input           []inputItem `json:"input"`
	MaxOutputTokens int         `json:"max_output_tokens,omitempty"`
	Temperature     *float64    `json:"temperature,omitempty"`
	Text            *textFormat `json:"text,omitempty"`
}

type responsesResponse struct {
	Status string `json:"status"`
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	IncompleteDetails *struct {
		Reason string `json:"reason"`
	} `json:"incomplete_details,omitempty"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// text concatenates assistant output_text parts. A refusal part wins over text.
func (r responsesResponse) text() (string, error) {
	var b strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			switch {
			case c.Type == "refusal" && c.Refusal != "":
				return "", fmt.Errorf("model refused: %s", c.Refusal)
			case c.Type == "output_text":
				b.WriteString(c.Text)
			}
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		if r.IncompleteDetails != nil && r.IncompleteDetails.Reason != "" {
			return "", fmt.Errorf("%w (incomplete: %s)", llm.ErrEmptyResponse, r.IncompleteDetails.Reason)
		}
		return "", llm.ErrEmptyResponse
	}
	return b.String(), nil
}

func (c *client) Complete(ctx context.Context, in llm.Request) (string, error) {
	req := responsesRequest{
		Model:           c.model,
		Instructions:    in.System,
		MaxOutputTokens: in.MaxTokens,
		Temperature:     in.Temperature,
	}
	if req.Temperature == nil {
		req.Temperature = c.temp
	}
	if c.rejectsTemperature() {
		req.Temperature = nil
	}
	if in.JSON {
		req.Text = &textFormat{}
		req.Text.Format.Type = "json_object"
	}
	for _, m := range llm.NormalizeMessages(in.Messages) {
		req.Input = append(req.Input, inputItem{Role: string(m.Role), Content: m.Content})
	}

	resp, err := c.send(ctx, &req)
	if err != nil && req.Temperature != nil && isUnsupportedTemperature(err) {
		c.noTemp.Store(c.model, time.Now())
		req.Temperature = nil
		resp, err = c.send(ctx, &req)
	}
	if err != nil {
		return "", err
	}
	out, err := resp.text()
	if err != nil {
		return "", err
	}
	c.log.Debug("OpenAI response", "status", resp.Status, "json", in.JSON,
		"input_tokens", resp.Usage.InputTokens, "output_tokens", resp.Usage.OutputTokens)
	return out, nil
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string       { return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body) }
func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

func (c *client) send(ctx context.Context, req *responsesRequest) (*responsesResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var out responsesResponse
	err = httpx.Retry(ctx, c.retry, func(ctx context.Context) (*http.Response, error) {
		hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		hreq.Header.Set("Authorization", "Bearer "+c.apiKey)
		hreq.Header.Set("Content-Type", "application/json")
		resp, err := c.http.Do(hreq)
		if err != nil {
			return nil, err
		}
		raw, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return resp, err
		}
		if resp.StatusCode/100 != 2 {
			return resp, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return resp, fmt.Errorf("openai decode: %w", err)
		}
		return resp, nil
	}, func(attempt int, wait time.Duration, err error) {
		c.log.Warn("OpenAI request retrying", "attempt", attempt, "max_retries", c.retry.MaxRetries,
			"wait", wait.String(), "error", err.Error())
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) rejectsTemperature() bool {
	v, ok := c.noTemp.Load(c.model)
	return ok && time.Since(v.(time.Time)) < noTempTTL
}

func isUnsupportedTemperature(err error) bool {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "temperature") {
		return false
	}
	for _, s := range []string{"unsupported parameter", "unknown parameter", "not supported", "does not support", "only the default", "unsupported_value"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
