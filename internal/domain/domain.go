package domain

import (
	"github.com/atmohq/atmo-backend/internal/domain/chat"
	"github.com/atmohq/atmo-backend/internal/domain/knowledge"
	"github.com/atmohq/atmo-backend/internal/domain/outputs"
	"github.com/atmohq/atmo-backend/internal/domain/user"
	"github.com/atmohq/atmo-backend/internal/domain/workspace"
)

type (
	Profile = user.Profile

	Project   = workspace.Project
	Goal      = workspace.Goal
	Task      = workspace.Task
	Milestone = workspace.Milestone

	KnowledgeItem = knowledge.Item
	Insight       = knowledge.Insight

	ChatSession = chat.Session
	ChatMessage = chat.Message

	Output        = outputs.Output
	OutputContent = outputs.Content
)

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&Profile{},
		&Project{},
		&Goal{},
		&Task{},
		&Milestone{},
		&KnowledgeItem{},
		&Insight{},
		&ChatSession{},
		&ChatMessage{},
		&Output{},
	}
}
