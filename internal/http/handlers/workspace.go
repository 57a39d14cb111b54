package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atmohq/atmo-backend/internal/http/response"
	"github.com/atmohq/atmo-backend/internal/platform/ctxutil"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
	"github.com/atmohq/atmo-backend/internal/services"
)

type WorkspaceHandler struct {
	log       *logger.Logger
	workspace services.WorkspaceService
}

func NewWorkspaceHandler(log *logger.Logger, workspace services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{log: log.With("handler", "WorkspaceHandler"), workspace: workspace}
}

// GET /api/workspace
func (h *WorkspaceHandler) Get(c *gin.Context) {
	graph, err := h.workspace.Graph(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		response.RespondFailure(c, err, http.StatusInternalServerError, "Failed to load workspace.")
		return
	}
	response.RespondOK(c, graph)
}
