package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/domain"
)

// resolution is either a project or the question to ask instead of guessing.
type resolution struct {
	project  *domain.Project
	question string
}

// resolveProject applies one policy for goals, tasks and milestones: an owned id
// wins, then a unique case-insensitive exact name, then a unique partial match
// the user confirmed. Anything else becomes a question.
func (o *Orchestrator) resolveProject(r *run, ref projectRef, subject string) (resolution, error) {
	if id, err := uuid.Parse(strings.TrimSpace(ref.ProjectID)); err == nil {
		p, err := o.repos.Projects.GetByID(r.dbc, r.ownerID, id)
		switch {
		case err == nil:
			return resolution{project: p}, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return resolution{}, err
		}
	}

	name := strings.TrimSpace(ref.ProjectName)
	if name == "" {
		return resolution{question: o.pickProjectQuestion(r, subject, "")}, nil
	}

	exact, err := o.repos.Projects.FindByName(r.dbc, r.ownerID, name)
	if err != nil {
		return resolution{}, err
	}
	switch len(exact) {
	case 1:
		return resolution{project: exact[0]}, nil
	case 0:
	default:
		return resolution{question: fmt.Sprintf(
			"You have %d projects named \"%s\". Which one should \"%s\" go in?\n%s",
			len(exact), name, subject, bulletProjects(exact))}, nil
	}

	partial, err := o.repos.Projects.SearchByName(r.dbc, r.ownerID, name)
	if err != nil {
		return resolution{}, err
	}
	switch {
	case len(partial) == 1 && ref.ProjectConfirmed:
		return resolution{project: partial[0]}, nil
	case len(partial) == 1:
		return resolution{question: fmt.Sprintf(
			"Did you mean the project \"%s\" for \"%s\"? Reply with the project name to confirm.",
			partial[0].Name, subject)}, nil
	case len(partial) > 1:
		return resolution{question: fmt.Sprintf(
			"\"%s\" matches several projects. Which one should \"%s\" go in?\n%s",
			name, subject, bulletProjects(partial))}, nil
	}
	return resolution{question: o.pickProjectQuestion(r, subject, name)}, nil
}

func (o *Orchestrator) pickProjectQuestion(r *run, subject, missing string) string {
	var lead string
	if missing != "" {
		lead = fmt.Sprintf("I couldn't find a project called \"%s\". ", missing)
	}
	if len(r.snapshot.Projects) == 0 {
		return lead + fmt.Sprintf("You don't have any active projects yet. Which project should I create for \"%s\"?", subject)
	}
	return lead + fmt.Sprintf("Which project should \"%s\" go in?\n%s", subject, bulletProjects(r.snapshot.Projects))
}

func bulletProjects(ps []*domain.Project) string {
	lines := make([]string, 0, len(ps))
	for _, p := range ps {
		lines = append(lines, "- "+p.Name)
	}
	return strings.Join(lines, "\n")
}

// hasProjectRef reports whether the model pointed at a project at all.
func hasProjectRef(ref projectRef) bool {
	return strings.TrimSpace(ref.ProjectID) != "" || strings.TrimSpace(ref.ProjectName) != ""
}
