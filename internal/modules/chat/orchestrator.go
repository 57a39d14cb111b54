package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/atmohq/atmo-backend/internal/data/db"
	"github.com/atmohq/atmo-backend/internal/data/graph"
	"github.com/atmohq/atmo-backend/internal/data/repos"
	"github.com/atmohq/atmo-backend/internal/observability"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

const DefaultDedupWindow = 5 * time.Minute

// GraphSink receives every successful workspace mutation.
type GraphSink interface {
	Upsert(ctx context.Context, n graph.Node) error
}

type Options struct {
	DedupWindow         time.Duration
	SimilarityThreshold float64
	MaxTokens           int
	Temperature         *float64
}

type Deps struct {
	Log     *logger.Logger
	LLM     llm.Client
	Repos   repos.Set
	Graph   GraphSink
	Now     func() time.Time
	Options Options
}

type Orchestrator struct {
	log   *logger.Logger
	llm   llm.Client
	repos repos.Set
	graph GraphSink
	now   func() time.Time
	opts  Options
}

func NewOrchestrator(d Deps) *Orchestrator {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Options.DedupWindow <= 0 {
		d.Options.DedupWindow = DefaultDedupWindow
	}
	if d.Options.SimilarityThreshold <= 0 {
		d.Options.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if d.Options.MaxTokens <= 0 {
		d.Options.MaxTokens = 1500
	}
	return &Orchestrator{
		log:   d.Log.With("service", "ChatOrchestrator"),
		llm:   d.LLM,
		repos: d.Repos,
		graph: d.Graph,
		now:   d.Now,
		opts:  d.Options,
	}
}

type Input struct {
	OwnerID uuid.UUID
	Message string
	Intent  Intent
	Context Context
	// History holds the turns before Message, oldest first.
	History []llm.Message
}

type CreatedEntity struct {
	Type      EntityType `json:"type"`
	Name      string     `json:"name"`
	ID        uuid.UUID  `json:"id"`
	Action    string     `json:"action"`
	ProjectID *uuid.UUID `json:"projectId,omitempty"`
	Priority  string     `json:"priority,omitempty"`
}

const (
	outcomeCreated  = "created"
	outcomeUpdated  = "updated"
	outcomeDeleted  = "deleted"
	outcomeExisting = "existing"
)

type Result struct {
	Reply                  string
	ConversationalResponse string
	NextSteps              []string
	EntitiesExtracted      int
	EntitiesCreated        []CreatedEntity
}

// run is the per-message mutation state.
type run struct {
	ctx      context.Context
	dbc      dbctx.Context
	ownerID  uuid.UUID
	message  string
	now      time.Time
	snapshot Context

	notes   []string
	created []CreatedEntity
	touched bool
}

func (r *run) note(format string, args ...any) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

func (r *run) ask(question string) { r.notes = append(r.notes, question) }

func (r *run) record(c CreatedEntity) {
	r.created = append(r.created, c)
	if c.Action == outcomeCreated || c.Action == outcomeUpdated {
		r.touched = true
	}
}

// Run calls the model, enforces the envelope and applies the extracted entities.
// Envelope violations abort before any write; per-entity failures are logged and skipped.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*Result, error) {
	ctx, span := observability.StartSpan(ctx, "chat.orchestrate")
	defer span.End()

	now := o.now().UTC()
	msgs := append(append([]llm.Message{}, in.History...), llm.Message{Role: llm.RoleUser, Content: in.Message})
	raw, err := o.llm.Complete(ctx, llm.Request{
		System:      BuildSystemPrompt(in.Context, now),
		Messages:    llm.NormalizeMessages(msgs),
		MaxTokens:   o.opts.MaxTokens,
		JSON:        true,
		Temperature: o.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}
	ext, err := ParseExtraction(raw)
	if err != nil {
		o.log.Warn("model contract violation", "user_id", in.OwnerID, "error", err)
		return nil, err
	}

	res := &Result{
		ConversationalResponse: ext.ConversationalResponse,
		NextSteps:              ext.NextSteps,
		EntitiesCreated:        []CreatedEntity{},
	}
	if in.Intent.ShouldGenerate {
		res.Reply = ext.ConversationalResponse
		span.SetAttributes(attribute.Bool("document_intent", true))
		return res, nil
	}

	r := &run{
		ctx:      ctx,
		dbc:      dbctx.From(ctx),
		ownerID:  in.OwnerID,
		message:  in.Message,
		now:      now,
		snapshot: in.Context,
	}
	for i, rawEntity := range ext.Entities {
		e, err := DecodeEntity(rawEntity)
		if err != nil {
			o.log.Warn("entity rejected", "index", i, "error", err)
			continue
		}
		res.EntitiesExtracted++
		if err := o.dispatch(r, e); err != nil {
			o.log.Error("entity failed", "type", e.Type, "action", e.Action, "name", e.Name(), "class", db.Classify(err), "error", err)
		}
	}

	if r.touched {
		if err := o.repos.Profiles.TouchStreak(r.dbc, r.ownerID, now); err != nil {
			o.log.Warn("streak update failed", "user_id", r.ownerID, "error", err)
		}
	}

	res.EntitiesCreated = r.created
	res.Reply = ext.ConversationalResponse
	if len(r.notes) > 0 {
		res.Reply = strings.Join(r.notes, "\n\n")
	}
	span.SetAttributes(attribute.Int("entities", res.EntitiesExtracted), attribute.Int("mutations", len(r.created)))
	return res, nil
}

func (o *Orchestrator) dispatch(r *run, e *Entity) error {
	switch e.Type {
	case EntityProject:
		return o.handleProject(r, e.Action, e.Project)
	case EntityGoal:
		return o.handleGoal(r, e.Action, e.Goal)
	case EntityTask:
		return o.handleTask(r, e.Action, e.Task)
	case EntityMilestone:
		return o.handleMilestone(r, e.Action, e.Milestone)
	case EntityKnowledge:
		return o.handleKnowledge(r, e.Knowledge)
	case EntityInsight:
		return o.handleInsight(r, e.Insight)
	}
	return fmt.Errorf("unhandled entity type %q", e.Type)
}

func (o *Orchestrator) since(r *run) time.Time { return r.now.Add(-o.opts.DedupWindow) }

// project mirrors a mutation into the workspace graph, best effort.
func (o *Orchestrator) project(r *run, n graph.Node) {
	if o.graph == nil {
		return
	}
	n.OwnerID = r.ownerID
	if err := o.graph.Upsert(r.ctx, n); err != nil {
		o.log.Warn("graph projection failed", "kind", n.Kind, "id", n.ID, "error", err)
	}
}
