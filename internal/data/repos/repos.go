package repos

import (
	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/data/repos/chat"
	"github.com/atmohq/atmo-backend/internal/data/repos/knowledge"
	"github.com/atmohq/atmo-backend/internal/data/repos/outputs"
	"github.com/atmohq/atmo-backend/internal/data/repos/user"
	"github.com/atmohq/atmo-backend/internal/data/repos/workspace"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type ProfileRepo = user.ProfileRepo

type ProjectRepo = workspace.ProjectRepo
type GoalRepo = workspace.GoalRepo
type TaskRepo = workspace.TaskRepo
type MilestoneRepo = workspace.MilestoneRepo

type KnowledgeItemRepo = knowledge.KnowledgeItemRepo
type InsightRepo = knowledge.InsightRepo

type ChatSessionRepo = chat.ChatSessionRepo
type ChatMessageRepo = chat.ChatMessageRepo

type OutputRepo = outputs.OutputRepo

// Set bundles every repository the services depend on.
type Set struct {
	Profiles     ProfileRepo
	Projects     ProjectRepo
	Goals        GoalRepo
	Tasks        TaskRepo
	Milestones   MilestoneRepo
	Knowledge    KnowledgeItemRepo
	Insights     InsightRepo
	ChatSessions ChatSessionRepo
	ChatMessages ChatMessageRepo
	Outputs      OutputRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Profiles:     user.NewProfileRepo(db, baseLog),
		Projects:     workspace.NewProjectRepo(db, baseLog),
		Goals:        workspace.NewGoalRepo(db, baseLog),
		Tasks:        workspace.NewTaskRepo(db, baseLog),
		Milestones:   workspace.NewMilestoneRepo(db, baseLog),
		Knowledge:    knowledge.NewKnowledgeItemRepo(db, baseLog),
		Insights:     knowledge.NewInsightRepo(db, baseLog),
		ChatSessions: chat.NewChatSessionRepo(db, baseLog),
		ChatMessages: chat.NewChatMessageRepo(db, baseLog),
		Outputs:      outputs.NewOutputRepo(db, baseLog),
	}
}
