package chat

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/data/graph"
	"github.com/atmohq/atmo-backend/internal/domain"
	ws "github.com/atmohq/atmo-backend/internal/domain/workspace"
)

func (o *Orchestrator) handleProject(r *run, action string, d *ProjectData) error {
	name := strings.TrimSpace(d.Name)
	if action == ActionDelete {
		deleted, err := o.repos.Projects.SoftDeleteByName(r.dbc, r.ownerID, name)
		if err != nil {
			return err
		}
		if len(deleted) == 0 {
			r.note("I couldn't find a project named \"%s\" to delete.", name)
			return nil
		}
		for _, p := range deleted {
			r.record(CreatedEntity{Type: EntityProject, Name: p.Name, ID: p.ID, Action: outcomeDeleted})
			o.project(r, graph.Node{ID: p.ID, Kind: string(EntityProject), Name: p.Name, Status: ws.StatusDeleted, Deleted: true})
		}
		r.note("Deleted project \"%s\".", name)
		return nil
	}

	existing, err := o.repos.Projects.FindRecentByName(r.dbc, r.ownerID, name, o.since(r))
	if err != nil {
		return err
	}
	if existing != nil {
		updates := map[string]interface{}{}
		if v := strings.TrimSpace(d.Description); v != "" {
			updates["description"] = v
		}
		if strings.TrimSpace(d.Priority) != "" {
			updates["priority"] = NormalizePriority(d.Priority)
		}
		if strings.TrimSpace(d.Status) != "" {
			updates["status"] = NormalizeProjectStatus(d.Status)
		}
		if v := strings.TrimSpace(d.Color); v != "" {
			updates["color"] = v
		}
		if err := o.repos.Projects.UpdateFields(r.dbc, existing.ID, updates); err != nil {
			return err
		}
		r.record(CreatedEntity{Type: EntityProject, Name: existing.Name, ID: existing.ID, Action: outcomeUpdated})
		r.note("Updated project \"%s\".", existing.Name)
		return nil
	}

	p := &domain.Project{
		OwnerID:     r.ownerID,
		Name:        name,
		Description: strings.TrimSpace(d.Description),
		Status:      ws.StatusPlanned,
		Priority:    NormalizePriority(d.Priority),
		Active:      true,
		Color:       strings.TrimSpace(d.Color),
		Progress:    0,
	}
	if strings.TrimSpace(d.Status) != "" {
		p.Status = NormalizeProjectStatus(d.Status)
	}
	if err := o.repos.Projects.Create(r.dbc, p); err != nil {
		return err
	}
	r.record(CreatedEntity{Type: EntityProject, Name: p.Name, ID: p.ID, Action: outcomeCreated, Priority: p.Priority})
	r.note("Created project \"%s\".", p.Name)
	o.project(r, graph.Node{ID: p.ID, Kind: string(EntityProject), Name: p.Name, Status: p.Status})
	return nil
}

func (o *Orchestrator) handleGoal(r *run, action string, d *GoalData) error {
	name := strings.TrimSpace(d.Name)
	if action == ActionDelete {
		var projectID *uuid.UUID
		if hasProjectRef(d.projectRef) {
			res, err := o.resolveProject(r, d.projectRef, name)
			if err != nil {
				return err
			}
			if res.project == nil {
				r.ask(res.question)
				return nil
			}
			projectID = &res.project.ID
		}
		deleted, err := o.repos.Goals.SoftDeleteByName(r.dbc, r.ownerID, projectID, name)
		if err != nil {
			return err
		}
		if len(deleted) == 0 {
			r.note("I couldn't find a goal named \"%s\" to delete.", name)
			return nil
		}
		for _, g := range deleted {
			pid := g.ProjectID
			r.record(CreatedEntity{Type: EntityGoal, Name: g.Name, ID: g.ID, Action: outcomeDeleted, ProjectID: &pid})
			o.project(r, graph.Node{ID: g.ID, Kind: string(EntityGoal), Name: g.Name, Status: ws.GoalStatusDeleted, Deleted: true, ParentID: &pid})
		}
		r.note("Deleted goal \"%s\".", name)
		return nil
	}

	res, err := o.resolveProject(r, d.projectRef, name)
	if err != nil {
		return err
	}
	if res.project == nil {
		r.ask(res.question)
		return nil
	}
	p := res.project

	existing, err := o.findGoal(r, p.ID, d)
	if err != nil {
		return err
	}
	target := parseDate(d.TargetDate)
	if existing != nil {
		updates := map[string]interface{}{"project_id": p.ID}
		if v := strings.TrimSpace(d.Description); v != "" {
			updates["description"] = v
		}
		if strings.TrimSpace(d.Status) != "" {
			updates["status"] = NormalizeGoalStatus(d.Status)
		}
		if strings.TrimSpace(d.Priority) != "" {
			updates["priority"] = NormalizePriority(d.Priority)
		}
		if target != nil {
			updates["target_date"] = *target
		}
		if err := o.repos.Goals.UpdateFields(r.dbc, existing.ID, updates); err != nil {
			return err
		}
		pid := p.ID
		outcome := outcomeUpdated
		if updates["status"] == ws.GoalStatusDeleted {
			outcome = outcomeDeleted
		}
		r.record(CreatedEntity{Type: EntityGoal, Name: existing.Name, ID: existing.ID, Action: outcome, ProjectID: &pid})
		r.note("Updated goal \"%s\" in %s.", existing.Name, p.Name)
		o.project(r, graph.Node{ID: existing.ID, Kind: string(EntityGoal), Name: existing.Name, Status: stringOr(updates["status"], existing.Status), ParentID: &pid})
		return nil
	}

	g := &domain.Goal{
		OwnerID:     r.ownerID,
		ProjectID:   p.ID,
		Name:        name,
		Description: strings.TrimSpace(d.Description),
		Status:      NormalizeGoalStatus(d.Status),
		Priority:    NormalizePriority(d.Priority),
		TargetDate:  target,
	}
	if err := o.repos.Goals.Create(r.dbc, g); err != nil {
		return err
	}
	pid := p.ID
	r.record(CreatedEntity{Type: EntityGoal, Name: g.Name, ID: g.ID, Action: outcomeCreated, ProjectID: &pid, Priority: g.Priority})
	r.note("Added goal \"%s\" to %s.", g.Name, p.Name)
	o.project(r, graph.Node{ID: g.ID, Kind: string(EntityGoal), Name: g.Name, Status: g.Status, ParentID: &pid})
	return nil
}

// findGoal matches by id first, then by exact name inside the project.
func (o *Orchestrator) findGoal(r *run, projectID uuid.UUID, d *GoalData) (*domain.Goal, error) {
	if id, err := uuid.Parse(strings.TrimSpace(d.ID)); err == nil {
		g, err := o.repos.Goals.GetByID(r.dbc, r.ownerID, id)
		switch {
		case err == nil:
			return g, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return o.repos.Goals.FindByProjectAndName(r.dbc, r.ownerID, projectID, d.Name)
}

func (o *Orchestrator) handleTask(r *run, action string, d *TaskData) error {
	name := strings.TrimSpace(d.Name)
	if action == ActionDelete {
		o.log.Info("task delete not supported from chat", "name", name)
		return nil
	}

	res, err := o.resolveProject(r, d.projectRef, name)
	if err != nil {
		return err
	}
	if res.project == nil {
		r.ask(res.question)
		return nil
	}
	p := res.project
	pid := p.ID

	existing, err := o.repos.Tasks.FindRecentByName(r.dbc, r.ownerID, p.ID, name, o.since(r))
	if err != nil {
		return err
	}
	if existing != nil {
		r.record(CreatedEntity{Type: EntityTask, Name: existing.Name, ID: existing.ID, Action: outcomeExisting, ProjectID: &pid, Priority: existing.Priority})
		r.note("\"%s\" is already on your list in %s.", existing.Name, p.Name)
		return nil
	}

	if rich := AssessTaskDescription(d.Description); !rich.OK() {
		o.log.Debug("task description below bar", "name", name, "problems", rich.Problems())
		r.ask(taskDetailQuestion(name))
		return nil
	}

	open, err := o.repos.Tasks.ListOpen(r.dbc, r.ownerID, 0)
	if err != nil {
		return err
	}
	if dup, ok := FindDuplicate(name, open, func(t *domain.Task) string { return t.Name }, o.opts.SimilarityThreshold); ok {
		r.ask("\"" + name + "\" looks a lot like your open task \"" + dup.Name + "\". Should I add it anyway, or update the existing task?")
		return nil
	}

	goal, err := o.taskGoal(r, p.ID, d)
	if err != nil {
		return err
	}
	milestones, err := o.repos.Milestones.ListOpenByProject(r.dbc, r.ownerID, p.ID)
	if err != nil {
		return err
	}

	t := &domain.Task{
		OwnerID:     r.ownerID,
		ProjectID:   p.ID,
		Name:        name,
		Description: strings.TrimSpace(d.Description),
		Priority:    DerivePriority(r.now, goal, milestones, p),
		DueDate:     parseDate(d.DueDate),
	}
	if goal != nil {
		gid := goal.ID
		t.GoalID = &gid
	}
	if err := o.repos.Tasks.Create(r.dbc, t); err != nil {
		return err
	}
	r.record(CreatedEntity{Type: EntityTask, Name: t.Name, ID: t.ID, Action: outcomeCreated, ProjectID: &pid, Priority: t.Priority})
	r.note("Added task \"%s\" to %s with %s priority.", t.Name, p.Name, t.Priority)
	parent := pid
	if t.GoalID != nil {
		parent = *t.GoalID
	}
	o.project(r, graph.Node{ID: t.ID, Kind: string(EntityTask), Name: t.Name, Status: "open", ParentID: &parent})
	return nil
}

// taskGoal finds the optional goal a task belongs to. A miss is not an error.
func (o *Orchestrator) taskGoal(r *run, projectID uuid.UUID, d *TaskData) (*domain.Goal, error) {
	if strings.TrimSpace(d.GoalID) == "" && strings.TrimSpace(d.GoalName) == "" {
		return nil, nil
	}
	return o.findGoal(r, projectID, &GoalData{ID: d.GoalID, Name: d.GoalName})
}

func (o *Orchestrator) handleMilestone(r *run, action string, d *MilestoneData) error {
	name := strings.TrimSpace(d.Name)
	if action == ActionDelete {
		o.log.Info("milestone delete not supported from chat", "name", name)
		return nil
	}
	res, err := o.resolveProject(r, d.projectRef, name)
	if err != nil {
		return err
	}
	if res.project == nil {
		o.log.Warn("milestone skipped: project unresolved", "name", name, "project", d.ProjectName)
		return nil
	}
	p := res.project
	pid := p.ID
	due := parseDate(d.DueDate)

	existing, err := o.repos.Milestones.FindRecentByName(r.dbc, r.ownerID, p.ID, name, o.since(r))
	if err != nil {
		return err
	}
	if existing != nil {
		updates := map[string]interface{}{}
		if v := strings.TrimSpace(d.Description); v != "" {
			updates["description"] = v
		}
		if strings.TrimSpace(d.Status) != "" {
			updates["status"] = NormalizeProjectStatus(d.Status)
		}
		if due != nil {
			updates["due_date"] = *due
		}
		if err := o.repos.Milestones.UpdateFields(r.dbc, existing.ID, updates); err != nil {
			return err
		}
		r.record(CreatedEntity{Type: EntityMilestone, Name: existing.Name, ID: existing.ID, Action: outcomeUpdated, ProjectID: &pid})
		r.note("Updated milestone \"%s\" in %s.", existing.Name, p.Name)
		return nil
	}

	m := &domain.Milestone{
		OwnerID:     r.ownerID,
		ProjectID:   p.ID,
		Name:        name,
		Description: strings.TrimSpace(d.Description),
		Status:      NormalizeProjectStatus(d.Status),
		DueDate:     due,
	}
	if err := o.repos.Milestones.Create(r.dbc, m); err != nil {
		return err
	}
	r.record(CreatedEntity{Type: EntityMilestone, Name: m.Name, ID: m.ID, Action: outcomeCreated, ProjectID: &pid})
	r.note("Added milestone \"%s\" to %s.", m.Name, p.Name)
	o.project(r, graph.Node{ID: m.ID, Kind: string(EntityMilestone), Name: m.Name, Status: m.Status, ParentID: &pid})
	return nil
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}
