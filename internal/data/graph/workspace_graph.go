package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atmohq/atmo-backend/internal/platform/logger"
	"github.com/atmohq/atmo-backend/internal/platform/neo4jdb"
)

// Node is one workspace record projected into Neo4j.
type Node struct {
	OwnerID  uuid.UUID
	ID       uuid.UUID
	Kind     string
	Name     string
	Status   string
	ParentID *uuid.UUID
	Deleted  bool
}

// kindLabels whitelists the secondary labels; Cypher cannot bind labels as parameters.
var kindLabels = map[string]string{
	"project":   "Project",
	"goal":      "Goal",
	"task":      "Task",
	"milestone": "Milestone",
	"knowledge": "KnowledgeItem",
	"insight":   "Insight",
}

type WorkspaceGraph struct {
	client *neo4jdb.Client
	log    *logger.Logger

	schemaOnce sync.Once
}

// NewWorkspaceGraph returns a graph whose writes are no-ops when client is nil.
func NewWorkspaceGraph(client *neo4jdb.Client, log *logger.Logger) *WorkspaceGraph {
	return &WorkspaceGraph{client: client, log: log.With("repo", "WorkspaceGraph")}
}

func (g *WorkspaceGraph) Enabled() bool {
	return g != nil && g.client.Enabled()
}

func (g *WorkspaceGraph) Upsert(ctx context.Context, n Node) error {
	if !g.Enabled() {
		return nil
	}
	cypher, params, err := upsertStatement(n, time.Now().UTC())
	if err != nil {
		return err
	}
	g.schemaOnce.Do(func() { g.ensureSchema(ctx) })

	err = g.client.Write(ctx, neo4jdb.Statement{Cypher: cypher, Params: params})
	if err != nil {
		return fmt.Errorf("neo4j upsert %s %s: %w", n.Kind, n.ID, err)
	}
	return nil
}

func (g *WorkspaceGraph) ensureSchema(ctx context.Context) {
	err := g.client.Write(ctx,
		neo4jdb.Statement{Cypher: "CREATE CONSTRAINT atmo_workspace_item_id IF NOT EXISTS FOR (n:WorkspaceItem) REQUIRE n.id IS UNIQUE"},
		neo4jdb.Statement{Cypher: "CREATE CONSTRAINT atmo_user_id IF NOT EXISTS FOR (u:AtmoUser) REQUIRE u.id IS UNIQUE"},
	)
	if err != nil {
		g.log.Warn("neo4j schema init failed", "error", err)
	}
}

func upsertStatement(n Node, now time.Time) (string, map[string]any, error) {
	label, ok := kindLabels[n.Kind]
	if !ok {
		return "", nil, fmt.Errorf("unknown workspace kind %q", n.Kind)
	}
	if n.OwnerID == uuid.Nil || n.ID == uuid.Nil {
		return "", nil, fmt.Errorf("workspace node needs owner and id")
	}
	params := map[string]any{
		"owner_id":  n.OwnerID.String(),
		"id":        n.ID.String(),
		"kind":      n.Kind,
		"name":      n.Name,
		"status":    n.Status,
		"deleted":   n.Deleted,
		"synced_at": now.Format(time.RFC3339Nano),
	}
	cypher := `
MERGE (u:AtmoUser {id: $owner_id})
MERGE (n:WorkspaceItem {id: $id})
SET n:` + label + `,
    n.owner_id = $owner_id,
    n.kind = $kind,
    n.name = $name,
    n.status = $status,
    n.deleted = $deleted,
    n.synced_at = $synced_at
MERGE (u)-[:OWNS]->(n)`
	if n.ParentID != nil && *n.ParentID != uuid.Nil {
		params["parent_id"] = n.ParentID.String()
		cypher += `
MERGE (p:WorkspaceItem {id: $parent_id})
MERGE (p)-[:CONTAINS]->(n)`
	}
	return cypher, params, nil
}
