package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/atmohq/atmo-backend/internal/platform/llm"
)

// ErrModelContract marks a model reply that does not honour the extraction envelope.
var ErrModelContract = errors.New("model response violates extraction contract")

type EntityType string

const (
	EntityProject   EntityType = "project"
	EntityGoal      EntityType = "goal"
	EntityTask      EntityType = "task"
	EntityMilestone EntityType = "milestone"
	EntityKnowledge EntityType = "knowledge"
	EntityInsight   EntityType = "insight"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// projectRef is how goals, tasks and milestones point at their project.
type projectRef struct {
	ProjectID        string `json:"projectId"`
	ProjectName      string `json:"projectName"`
	ProjectConfirmed bool   `json:"projectConfirmed"`
}

type ProjectData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Color       string `json:"color"`
}

type GoalData struct {
	projectRef
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	TargetDate  string `json:"targetDate"`
}

type TaskData struct {
	projectRef
	Name        string `json:"name"`
	Description string `json:"description"`
	GoalID      string `json:"goalId"`
	GoalName    string `json:"goalName"`
	DueDate     string `json:"dueDate"`
}

type MilestoneData struct {
	projectRef
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
}

type KnowledgeData struct {
	projectRef
	Name      string   `json:"name"`
	Content   string   `json:"content"`
	Type      string   `json:"type"`
	Tags      []string `json:"tags"`
	SourceURL string   `json:"source_url"`
}

type InsightData struct {
	projectRef
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	InsightType string   `json:"insightType"`
	Category    string   `json:"category"`
	SourceURL   string   `json:"source_url"`
	Relevance   *float64 `json:"relevance"`
}

// Entity is a tagged union: exactly the field matching Type is set after decoding.
type Entity struct {
	Type   EntityType
	Action string

	Project   *ProjectData
	Goal      *GoalData
	Task      *TaskData
	Milestone *MilestoneData
	Knowledge *KnowledgeData
	Insight   *InsightData
}

type entityWire struct {
	Type   string          `json:"type"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// UnmarshalJSON accepts {type, action, data:{...}} and the flat form where the
// payload fields sit next to type.
func (e *Entity) UnmarshalJSON(b []byte) error {
	var w entityWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	payload := []byte(w.Data)
	if len(bytes.TrimSpace(payload)) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		payload = b
	}
	e.Type = EntityType(strings.ToLower(strings.TrimSpace(w.Type)))
	e.Action = strings.ToLower(strings.TrimSpace(w.Action))
	if e.Action == "" {
		e.Action = ActionCreate
	}
	var target any
	switch e.Type {
	case EntityProject:
		e.Project = &ProjectData{}
		target = e.Project
	case EntityGoal:
		e.Goal = &GoalData{}
		target = e.Goal
	case EntityTask:
		e.Task = &TaskData{}
		target = e.Task
	case EntityMilestone:
		e.Milestone = &MilestoneData{}
		target = e.Milestone
	case EntityKnowledge:
		e.Knowledge = &KnowledgeData{}
		target = e.Knowledge
	case EntityInsight:
		e.Insight = &InsightData{}
		target = e.Insight
	default:
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("%s payload: %w", e.Type, err)
	}
	// In the flat form the union tag lands in the knowledge item's own type field.
	if e.Knowledge != nil && strings.EqualFold(e.Knowledge.Type, string(EntityKnowledge)) {
		e.Knowledge.Type = ""
	}
	return nil
}

// Validate checks the fields every handler relies on.
func (e *Entity) Validate() error {
	switch e.Action {
	case ActionCreate, ActionUpdate, ActionDelete:
	default:
		return fmt.Errorf("unknown action %q", e.Action)
	}
	switch e.Type {
	case EntityProject:
		return requireText("project name", e.Project.Name)
	case EntityGoal:
		return requireText("goal name", e.Goal.Name)
	case EntityTask:
		return requireText("task name", e.Task.Name)
	case EntityMilestone:
		return requireText("milestone name", e.Milestone.Name)
	case EntityKnowledge:
		if strings.TrimSpace(e.Knowledge.Name) == "" && strings.TrimSpace(e.Knowledge.Content) == "" {
			return errors.New("knowledge item needs a name or content")
		}
		return nil
	case EntityInsight:
		return requireText("insight title", e.Insight.Title)
	default:
		return fmt.Errorf("unknown entity type %q", e.Type)
	}
}

// Name is the display name used in confirmations and logs.
func (e *Entity) Name() string {
	switch e.Type {
	case EntityProject:
		return strings.TrimSpace(e.Project.Name)
	case EntityGoal:
		return strings.TrimSpace(e.Goal.Name)
	case EntityTask:
		return strings.TrimSpace(e.Task.Name)
	case EntityMilestone:
		return strings.TrimSpace(e.Milestone.Name)
	case EntityKnowledge:
		return strings.TrimSpace(e.Knowledge.Name)
	case EntityInsight:
		return strings.TrimSpace(e.Insight.Title)
	}
	return ""
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Extraction is the envelope the model must return.
type Extraction struct {
	ConversationalResponse string
	Entities               []json.RawMessage
	NextSteps              []string
}

type extractionWire struct {
	ConversationalResponse *string            `json:"conversationalResponse"`
	Entities               *[]json.RawMessage `json:"entities"`
	NextSteps              json.RawMessage    `json:"nextSteps"`
}

// ParseExtraction enforces the envelope. Entities stay raw so that one bad
// entity can be skipped without failing the message.
func ParseExtraction(raw string) (*Extraction, error) {
	block := llm.ExtractJSONBlock(raw)
	if block == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrModelContract)
	}
	var w extractionWire
	if err := json.Unmarshal([]byte(block), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelContract, err)
	}
	if w.ConversationalResponse == nil {
		return nil, fmt.Errorf("%w: missing conversationalResponse", ErrModelContract)
	}
	if w.Entities == nil {
		return nil, fmt.Errorf("%w: missing entities", ErrModelContract)
	}
	out := &Extraction{
		ConversationalResponse: strings.TrimSpace(*w.ConversationalResponse),
		Entities:               *w.Entities,
		NextSteps:              decodeNextSteps(w.NextSteps),
	}
	return out, nil
}

// DecodeEntity decodes and validates one raw entity.
func DecodeEntity(raw json.RawMessage) (*Entity, error) {
	var e Entity
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// nextSteps is optional and arrives as strings or as {step|title|description} objects.
func decodeNextSteps(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return compact(plain)
	}
	var objs []map[string]any
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil
	}
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		for _, k := range []string{"step", "title", "description", "text"} {
			if s, ok := o[k].(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
				break
			}
		}
	}
	return out
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
