package chat

import (
	"strings"

	"github.com/atmohq/atmo-backend/internal/data/graph"
	"github.com/atmohq/atmo-backend/internal/domain"
	"github.com/atmohq/atmo-backend/internal/domain/knowledge"
)

func (o *Orchestrator) handleKnowledge(r *run, d *KnowledgeData) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = clip(d.Content, 60)
	}
	item := &domain.KnowledgeItem{
		OwnerID:    r.ownerID,
		Name:       name,
		Content:    strings.TrimSpace(d.Content),
		Type:       strings.ToLower(strings.TrimSpace(d.Type)),
		SourceURL:  userSuppliedURL(d.SourceURL, r.message),
		OccurredAt: r.now,
	}
	if item.Type == "" {
		item.Type = knowledge.DefaultItemType
	}
	item.SetTags(compact(d.Tags))
	if p := o.quietProject(r, d.projectRef, name); p != nil {
		pid := p.ID
		item.ProjectID = &pid
	}
	if err := o.repos.Knowledge.Create(r.dbc, item); err != nil {
		return err
	}
	r.record(CreatedEntity{Type: EntityKnowledge, Name: item.Name, ID: item.ID, Action: outcomeCreated, ProjectID: item.ProjectID})
	r.note("Saved \"%s\" to your Digital Brain.", item.Name)
	o.project(r, graph.Node{ID: item.ID, Kind: string(EntityKnowledge), Name: item.Name, Status: item.Type, ParentID: item.ProjectID})
	return nil
}

func (o *Orchestrator) handleInsight(r *run, d *InsightData) error {
	title := strings.TrimSpace(d.Title)
	typ := strings.ToLower(strings.TrimSpace(d.InsightType))
	if !knowledge.ValidInsightType(typ) {
		typ = knowledge.InsightNote
	}
	category := strings.ToLower(strings.TrimSpace(d.Category))
	if category != knowledge.CategoryProject {
		category = knowledge.CategoryPersonal
	}
	source := userSuppliedURL(d.SourceURL, r.message)
	relevance := clampRelevance(d.Relevance)

	existing, err := o.repos.Insights.FindRecentByTitle(r.dbc, r.ownerID, title, category, o.since(r))
	if err != nil {
		return err
	}
	if existing != nil {
		updates := map[string]interface{}{}
		if v := strings.TrimSpace(d.Summary); v != "" && v != existing.Summary {
			updates["summary"] = v
		}
		if source != "" && existing.SourceURL == "" {
			updates["source_url"] = source
		}
		if len(updates) == 0 {
			r.record(CreatedEntity{Type: EntityInsight, Name: existing.Title, ID: existing.ID, Action: outcomeExisting})
			r.note("You already saved the insight \"%s\".", existing.Title)
			return nil
		}
		if err := o.repos.Insights.UpdateFields(r.dbc, existing.ID, updates); err != nil {
			return err
		}
		r.record(CreatedEntity{Type: EntityInsight, Name: existing.Title, ID: existing.ID, Action: outcomeUpdated})
		r.note("Updated the insight \"%s\".", existing.Title)
		return nil
	}

	in := &domain.Insight{
		OwnerID:     r.ownerID,
		Title:       title,
		Summary:     strings.TrimSpace(d.Summary),
		InsightType: typ,
		Category:    category,
		SourceURL:   source,
	}
	if category == knowledge.CategoryProject {
		if p := o.quietProject(r, d.projectRef, title); p != nil {
			pid := p.ID
			in.ProjectID = &pid
		}
	}
	if err := o.repos.Insights.Create(r.dbc, in); err != nil {
		return err
	}
	// relevance defaults to 50 in the schema, so an explicit 0 needs its own write.
	if relevance != 50 {
		if err := o.repos.Insights.UpdateFields(r.dbc, in.ID, map[string]interface{}{"relevance": relevance}); err != nil {
			return err
		}
		in.Relevance = relevance
	}
	r.record(CreatedEntity{Type: EntityInsight, Name: in.Title, ID: in.ID, Action: outcomeCreated, ProjectID: in.ProjectID})
	r.note("Saved the %s insight \"%s\".", in.InsightType, in.Title)
	o.project(r, graph.Node{ID: in.ID, Kind: string(EntityInsight), Name: in.Title, Status: in.Category, ParentID: in.ProjectID})
	return nil
}

// quietProject resolves an optional project link without asking the user.
func (o *Orchestrator) quietProject(r *run, ref projectRef, subject string) *domain.Project {
	if !hasProjectRef(ref) {
		return nil
	}
	ref.ProjectConfirmed = false
	res, err := o.resolveProject(r, ref, subject)
	if err != nil {
		o.log.Warn("optional project lookup failed", "subject", subject, "error", err)
		return nil
	}
	return res.project
}

// userSuppliedURL keeps a source URL only if the user typed it verbatim.
func userSuppliedURL(raw, message string) string {
	u := strings.TrimSpace(raw)
	if u == "" || !strings.Contains(message, u) {
		return ""
	}
	return u
}
