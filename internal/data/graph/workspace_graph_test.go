package graph

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

func TestUpsertStatementWithParent(t *testing.T) {
	parent := uuid.New()
	n := Node{OwnerID: uuid.New(), ID: uuid.New(), Kind: "task", Name: "Write docs", Status: "open", ParentID: &parent}
	cypher, params, err := upsertStatement(n, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	require.Contains(t, cypher, "SET n:Task")
	require.Contains(t, cypher, "(p)-[:CONTAINS]->(n)")
	require.Equal(t, parent.String(), params["parent_id"])
	require.Equal(t, "2026-01-02T03:04:05Z", params["synced_at"])
}

func TestUpsertStatementRejectsUnknownKind(t *testing.T) {
	_, _, err := upsertStatement(Node{OwnerID: uuid.New(), ID: uuid.New(), Kind: "x) DETACH DELETE n //"}, time.Now())
	require.Error(t, err)

	cypher, _, err := upsertStatement(Node{OwnerID: uuid.New(), ID: uuid.New(), Kind: "project"}, time.Now())
	require.NoError(t, err)
	require.False(t, strings.Contains(cypher, "CONTAINS"))
}

func TestDisabledGraphIsNoop(t *testing.T) {
	g := NewWorkspaceGraph(nil, logger.Nop())
	require.False(t, g.Enabled())
	require.NoError(t, g.Upsert(context.Background(), Node{Kind: "bogus"}))
}
