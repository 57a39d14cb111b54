package docgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/atmohq/atmo-backend/internal/observability"
	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

const (
	DefaultMaxAttempts    = 3
	DefaultAttemptTimeout = 90 * time.Second
	DefaultMaxTokens      = 6000
)

var ErrValidationExhausted = errors.New("docgen: document failed validation")

// ExhaustedError carries every attempt made before giving up.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	last := e.Attempts[len(e.Attempts)-1]
	reason := strings.Join(last.Issues, "; ")
	if last.Err != nil {
		reason = last.Err.Error()
	}
	return fmt.Sprintf("%v after %d attempts: %s", ErrValidationExhausted, len(e.Attempts), reason)
}

func (e *ExhaustedError) Unwrap() error { return ErrValidationExhausted }

type Attempt struct {
	Number   int
	Prompt   string
	Response string
	Issues   []string
	Err      error
}

type Request struct {
	DocumentType      DocumentType
	UserMessage       string
	AssistantResponse string
	ContextSummary    string
	Validation        ValidationContext
}

type Config struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	MaxTokens      int
	Temperature    *float64
}

type Generator struct {
	log *logger.Logger
	llm llm.Client
	cfg Config
}

func NewGenerator(log *logger.Logger, client llm.Client, cfg Config) *Generator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &Generator{log: log.With("service", "DocumentGenerator"), llm: client, cfg: cfg}
}

// Generate asks the model for a document, validates it, and feeds the issues
// back as remediation notes until it passes or attempts run out.
func (g *Generator) Generate(ctx context.Context, req Request) (*StrategicDocument, error) {
	ctx, span := observability.StartSpan(ctx, "docgen.Generate",
		attribute.String("document.type", string(req.DocumentType)))
	defer span.End()

	var (
		attempts []Attempt
		notes    []string
	)
	for n := 1; n <= g.cfg.MaxAttempts; n++ {
		a := Attempt{Number: n, Prompt: Prompt(req, notes)}
		doc := g.attempt(ctx, &a, req.Validation)
		attempts = append(attempts, a)

		if a.Err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("document generation: %w", ctx.Err())
		}
		if doc != nil && len(a.Issues) == 0 {
			span.SetAttributes(attribute.Int("docgen.attempts", n))
			g.log.Info("document generated", "type", req.DocumentType, "attempt", n)
			return Normalize(doc, req.DocumentType), nil
		}
		g.log.Warn("document attempt rejected",
			"type", req.DocumentType, "attempt", n, "issues", len(a.Issues), "error", a.Err)
		notes = a.Issues
	}
	span.SetAttributes(attribute.Int("docgen.attempts", len(attempts)))
	return nil, &ExhaustedError{Attempts: attempts}
}

func (g *Generator) attempt(ctx context.Context, a *Attempt, vc ValidationContext) *StrategicDocument {
	actx, cancel := context.WithTimeout(ctx, g.cfg.AttemptTimeout)
	defer cancel()

	a.Response, a.Err = g.llm.Complete(actx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: a.Prompt}},
		MaxTokens:   g.cfg.MaxTokens,
		JSON:        true,
		Temperature: g.cfg.Temperature,
	})
	if a.Err != nil {
		a.Issues = []string{"The previous attempt did not complete (" + a.Err.Error() + "). Return the full JSON object in one response."}
		return nil
	}
	doc, err := decodeDocument(a.Response)
	if err != nil {
		a.Issues = []string{"The response was not a valid JSON document of the required shape (" + err.Error() + ")."}
		return nil
	}
	a.Issues = Validate(doc, vc)
	return doc
}

func decodeDocument(raw string) (*StrategicDocument, error) {
	block := llm.ExtractJSONBlock(raw)
	if block == "" {
		return nil, errors.New("no JSON object found")
	}
	var doc StrategicDocument
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
