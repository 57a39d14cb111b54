package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/atmohq/atmo-backend/internal/data/repos"
	"github.com/atmohq/atmo-backend/internal/domain"
	"github.com/atmohq/atmo-backend/internal/observability"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

const (
	maxContextProjects   = 8
	maxContextGoals      = 12
	maxContextTasks      = 12
	maxContextMessages   = 12
	maxContextKnowledge  = 50
	maxContextMilestones = 20
)

// Context is the workspace snapshot that grounds prompts and document validation.
type Context struct {
	Profile    *domain.Profile
	Projects   []*domain.Project
	Goals      []*domain.Goal
	Tasks      []*domain.Task
	Messages   []*domain.ChatMessage
	Knowledge  []*domain.KnowledgeItem
	Milestones []*domain.Milestone
}

type Fetcher struct {
	log  *logger.Logger
	repo repos.Set
}

func NewFetcher(log *logger.Logger, repo repos.Set) *Fetcher {
	return &Fetcher{log: log.With("service", "ContextFetcher"), repo: repo}
}

// Fetch loads every collection concurrently. A failed query is logged and leaves
// its collection empty; Fetch itself never fails.
func (f *Fetcher) Fetch(ctx context.Context, ownerID, sessionID uuid.UUID) Context {
	ctx, span := observability.StartSpan(ctx, "chat.context.fetch", attribute.String("owner_id", ownerID.String()))
	defer span.End()

	dbc := dbctx.From(ctx)
	var out Context
	var g errgroup.Group
	run := func(what string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				f.log.Warn("context query failed", "collection", what, "user_id", ownerID, "error", err)
			}
			return nil
		})
	}

	run("profile", func() (err error) {
		out.Profile, err = f.repo.Profiles.GetByID(dbc, ownerID)
		return err
	})
	run("projects", func() (err error) {
		out.Projects, err = f.repo.Projects.ListActive(dbc, ownerID, maxContextProjects)
		return err
	})
	run("goals", func() (err error) {
		out.Goals, err = f.repo.Goals.ListForContext(dbc, ownerID, maxContextGoals)
		return err
	})
	run("tasks", func() (err error) {
		out.Tasks, err = f.repo.Tasks.ListOpen(dbc, ownerID, maxContextTasks)
		return err
	})
	if sessionID != uuid.Nil {
		run("messages", func() (err error) {
			out.Messages, err = f.repo.ChatMessages.ListRecent(dbc, sessionID, maxContextMessages)
			return err
		})
	}
	run("knowledge", func() (err error) {
		out.Knowledge, err = f.repo.Knowledge.ListRecent(dbc, ownerID, maxContextKnowledge)
		return err
	})
	run("milestones", func() (err error) {
		out.Milestones, err = f.repo.Milestones.ListForContext(dbc, ownerID, maxContextMilestones)
		return err
	})
	_ = g.Wait()

	span.SetAttributes(
		attribute.Int("projects", len(out.Projects)),
		attribute.Int("tasks", len(out.Tasks)),
		attribute.Int("knowledge", len(out.Knowledge)),
	)
	return out
}

// ProjectName resolves a project id against the snapshot.
func (c Context) ProjectName(id uuid.UUID) string {
	for _, p := range c.Projects {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

// BuildContextSummary renders the snapshot as prompt text. Output depends only on c.
func BuildContextSummary(c Context) string {
	var b strings.Builder
	section := func(title string, n int) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%d)\n", title, n)
		if n == 0 {
			b.WriteString("- (none)\n")
		}
	}

	b.WriteString("USER PROFILE\n")
	if p := c.Profile; p != nil {
		writeField(&b, "Name", p.FullName)
		writeField(&b, "Role", p.Role)
		writeField(&b, "Bio", clip(p.Bio, 240))
		if p.StreakDays > 0 {
			fmt.Fprintf(&b, "- Active streak: %d days\n", p.StreakDays)
		}
	} else {
		b.WriteString("- (unknown)\n")
	}

	section("ACTIVE PROJECTS", len(c.Projects))
	for _, p := range c.Projects {
		fmt.Fprintf(&b, "- %s [priority %s, status %s, progress %d%%]", p.Name, p.Priority, p.Status, p.Progress)
		if d := clip(p.Description, 160); d != "" {
			b.WriteString(": " + d)
		}
		b.WriteString("\n")
	}

	section("GOALS", len(c.Goals))
	for _, g := range c.Goals {
		fmt.Fprintf(&b, "- %s%s [priority %s, status %s%s]\n", g.Name, inProject(c, g.ProjectID), g.Priority, g.Status, dated(", target ", g.TargetDate))
	}

	section("OPEN TASKS", len(c.Tasks))
	for _, t := range c.Tasks {
		fmt.Fprintf(&b, "- %s%s [priority %s%s]\n", t.Name, inProject(c, t.ProjectID), t.Priority, dated(", due ", t.DueDate))
	}

	section("MILESTONES", len(c.Milestones))
	for _, m := range c.Milestones {
		fmt.Fprintf(&b, "- %s%s [status %s%s]\n", m.Name, inProject(c, m.ProjectID), m.Status, dated(", due ", m.DueDate))
	}

	section("KNOWLEDGE ITEMS", len(c.Knowledge))
	for _, k := range c.Knowledge {
		fmt.Fprintf(&b, "- %s (%s)", k.Name, k.Type)
		if s := clip(k.Content, 200); s != "" {
			b.WriteString(": " + s)
		}
		b.WriteString("\n")
	}

	section("RECENT CONVERSATION", len(c.Messages))
	for _, m := range c.Messages {
		fmt.Fprintf(&b, "- %s: %s\n", m.Role, clip(m.Content, 280))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, label, v string) {
	if v = strings.TrimSpace(v); v != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, v)
	}
}

func inProject(c Context, id uuid.UUID) string {
	if name := c.ProjectName(id); name != "" {
		return " (project: " + name + ")"
	}
	return ""
}

func dated(prefix string, t *time.Time) string {
	if t == nil {
		return ""
	}
	return prefix + t.UTC().Format("2006-01-02")
}

// clip collapses whitespace and cuts s to n runes.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
