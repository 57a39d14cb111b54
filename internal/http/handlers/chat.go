package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atmohq/atmo-backend/internal/http/response"
	"github.com/atmohq/atmo-backend/internal/platform/apierr"
	"github.com/atmohq/atmo-backend/internal/platform/ctxutil"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
	"github.com/atmohq/atmo-backend/internal/services"
)

const chatFailure = "Failed to process your message."

type ChatHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewChatHandler(log *logger.Logger, chat services.ChatService) *ChatHandler {
	return &ChatHandler{log: log.With("handler", "ChatHandler"), chat: chat}
}

type sendMessageRequest struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

// POST /functions/v1/chat
// POST /api/chat
func (h *ChatHandler) Send(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondFailure(c, apierr.Unauthorized("You must be logged in to use the chat."), http.StatusUnauthorized, "")
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondFailure(c, apierr.BadRequest("invalid_request", err), http.StatusBadRequest, chatFailure)
		return
	}

	res, err := h.chat.Send(c.Request.Context(), services.SendInput{
		UserID:    rd.UserID,
		Email:     rd.Email,
		FullName:  rd.FullName,
		Message:   req.Message,
		MessageID: strings.TrimSpace(req.MessageID),
	})
	if err != nil {
		var ae *apierr.Error
		if !errors.As(err, &ae) {
			h.log.Warn("chat failed", "user_id", rd.UserID.String(), "request_id", ctxutil.RequestID(c.Request.Context()), "error", err)
		}
		response.RespondFailure(c, err, http.StatusBadRequest, chatFailure)
		return
	}
	response.RespondOK(c, res)
}
