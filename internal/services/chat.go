package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/atmohq/atmo-backend/internal/data/repos"
	"github.com/atmohq/atmo-backend/internal/domain"
	domainchat "github.com/atmohq/atmo-backend/internal/domain/chat"
	"github.com/atmohq/atmo-backend/internal/domain/outputs"
	chatmod "github.com/atmohq/atmo-backend/internal/modules/chat"
	"github.com/atmohq/atmo-backend/internal/observability"
	"github.com/atmohq/atmo-backend/internal/platform/apierr"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/llm"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
	"github.com/atmohq/atmo-backend/internal/platform/redis"
)

const MaxMessageLength = 8000

type SendInput struct {
	UserID    uuid.UUID
	Email     string
	FullName  string
	Message   string
	MessageID string
}

type SendResult struct {
	Response          string                  `json:"response"`
	EntitiesExtracted int                     `json:"entitiesExtracted"`
	EntitiesCreated   []chatmod.CreatedEntity `json:"entitiesCreated"`
	DocumentGenerated bool                    `json:"documentGenerated"`
	OutputID          *uuid.UUID              `json:"outputId,omitempty"`
}

type ChatService interface {
	// Send handles one user message end to end. Nothing is persisted when it
	// returns an error, except entity writes that already succeeded.
	Send(ctx context.Context, in SendInput) (*SendResult, error)
}

type chatService struct {
	log          *logger.Logger
	repos        repos.Set
	fetcher      *chatmod.Fetcher
	orchestrator *chatmod.Orchestrator
	documents    DocumentService
	guard        redis.MessageGuard
	now          func() time.Time
}

func NewChatService(
	baseLog *logger.Logger,
	repoSet repos.Set,
	fetcher *chatmod.Fetcher,
	orchestrator *chatmod.Orchestrator,
	documents DocumentService,
	guard redis.MessageGuard,
) ChatService {
	if guard == nil {
		guard = redis.NoopGuard{}
	}
	return &chatService{
		log:          baseLog.With("service", "ChatService"),
		repos:        repoSet,
		fetcher:      fetcher,
		orchestrator: orchestrator,
		documents:    documents,
		guard:        guard,
		now:          time.Now,
	}
}

func (s *chatService) Send(ctx context.Context, in SendInput) (*SendResult, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, apierr.BadRequest("missing_message", errors.New("message is required"))
	}
	if utf8.RuneCountInString(msg) > MaxMessageLength {
		return nil, apierr.BadRequest("message_too_long", fmt.Errorf("message exceeds %d characters", MaxMessageLength))
	}
	if in.UserID == uuid.Nil {
		return nil, apierr.Unauthorized(unauthorizedMessage)
	}

	ctx, span := observability.StartSpan(ctx, "chat.send")
	defer span.End()

	release, err := s.guard.Acquire(ctx, in.UserID.String(), in.MessageID)
	if err != nil {
		if errors.Is(err, redis.ErrInFlight) {
			return nil, apierr.New(http.StatusConflict, "message_in_flight", err)
		}
		return nil, err
	}
	defer release()

	dbc := dbctx.From(ctx)
	if err := s.repos.Profiles.Ensure(dbc, in.UserID, in.Email, in.FullName); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	session, err := s.repos.ChatSessions.GetOrCreateActive(dbc, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("open chat session: %w", err)
	}

	intent := chatmod.ClassifyIntent(msg)
	span.SetAttributes(attribute.Bool("intent.generate", intent.ShouldGenerate))
	snapshot := s.fetcher.Fetch(ctx, in.UserID, session.ID)

	res, err := s.orchestrator.Run(ctx, chatmod.Input{
		OwnerID: in.UserID,
		Message: msg,
		Intent:  intent,
		Context: snapshot,
		History: history(snapshot.Messages),
	})
	if err != nil {
		return nil, err
	}

	out := &SendResult{
		Response:          res.Reply,
		EntitiesExtracted: res.EntitiesExtracted,
		EntitiesCreated:   res.EntitiesCreated,
	}
	if intent.ShouldGenerate {
		doc, err := s.documents.Generate(ctx, DocumentRequest{
			UserID:            in.UserID,
			Message:           msg,
			AssistantResponse: res.ConversationalResponse,
			Snapshot:          snapshot,
		})
		if err != nil {
			return nil, err
		}
		out.DocumentGenerated = true
		out.OutputID = &doc.ID
		out.Response = documentReply(res.Reply, doc)
	}

	now := s.now().UTC()
	if _, err := s.repos.ChatMessages.Create(dbc, []*domain.ChatMessage{
		{UserID: in.UserID, SessionID: session.ID, Role: domainchat.RoleUser, Content: msg, ClientMessageID: strings.TrimSpace(in.MessageID), CreatedAt: now},
		{UserID: in.UserID, SessionID: session.ID, Role: domainchat.RoleAssistant, Content: out.Response, CreatedAt: now.Add(time.Millisecond)},
	}); err != nil {
		s.log.Error("persist chat messages failed", "user_id", in.UserID, "session_id", session.ID, "error", err)
	}
	if err := s.repos.ChatSessions.Touch(dbc, session.ID, now); err != nil {
		s.log.Warn("touch chat session failed", "session_id", session.ID, "error", err)
	}

	s.log.Info("chat message handled",
		"user_id", in.UserID,
		"session_id", session.ID,
		"entities", out.EntitiesExtracted,
		"mutations", len(out.EntitiesCreated),
		"document", out.DocumentGenerated,
	)
	return out, nil
}

func history(msgs []*domain.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		role := llm.RoleUser
		if m.Role == domainchat.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}

func documentReply(reply string, out *domain.Output) string {
	label := "PDF"
	if out.FileType != outputs.FileTypePDF {
		label = "document"
	}
	saved := fmt.Sprintf("I've saved \"%s\" to your Outputs as a %s.", out.Title, label)
	if reply = strings.TrimSpace(reply); reply == "" {
		return saved
	}
	return reply + "\n\n" + saved
}
