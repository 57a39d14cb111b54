package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atmohq/atmo-backend/internal/http/response"
	"github.com/atmohq/atmo-backend/internal/platform/apierr"
	"github.com/atmohq/atmo-backend/internal/platform/ctxutil"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
	"github.com/atmohq/atmo-backend/internal/services"
)

const defaultOutputPage = 50

type OutputHandler struct {
	log     *logger.Logger
	outputs services.OutputService
}

func NewOutputHandler(log *logger.Logger, outputs services.OutputService) *OutputHandler {
	return &OutputHandler{log: log.With("handler", "OutputHandler"), outputs: outputs}
}

// GET /api/outputs
func (h *OutputHandler) List(c *gin.Context) {
	limit := defaultOutputPage
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be a positive integer, got %q", raw))
			return
		}
		limit = min(n, 200)
	}
	rows, err := h.outputs.List(c.Request.Context(), ctxutil.UserID(c.Request.Context()), limit)
	if err != nil {
		response.RespondFailure(c, err, http.StatusInternalServerError, "Failed to load outputs.")
		return
	}
	response.RespondOK(c, gin.H{"outputs": rows})
}

// GET /api/outputs/:id
func (h *OutputHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondFailure(c, apierr.BadRequest("invalid_output_id", err), http.StatusBadRequest, "")
		return
	}
	out, err := h.outputs.Get(c.Request.Context(), ctxutil.UserID(c.Request.Context()), id)
	if err != nil {
		response.RespondFailure(c, err, http.StatusInternalServerError, "Failed to load output.")
		return
	}
	response.RespondOK(c, gin.H{"output": out})
}
