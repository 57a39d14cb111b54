package chat

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/domain"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type ChatSessionRepo interface {
	// GetOrCreateActive returns the user's active session, opening one if none exists.
	GetOrCreateActive(dbc dbctx.Context, userID uuid.UUID) (*domain.ChatSession, error)
	Touch(dbc dbctx.Context, id uuid.UUID, at time.Time) error
	DeactivateIdle(dbc dbctx.Context, before time.Time) (int64, error)
}

type chatSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatSessionRepo(db *gorm.DB, baseLog *logger.Logger) ChatSessionRepo {
	return &chatSessionRepo{db: db, log: baseLog.With("repo", "ChatSessionRepo")}
}

func (r *chatSessionRepo) GetOrCreateActive(dbc dbctx.Context, userID uuid.UUID) (*domain.ChatSession, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out *domain.ChatSession
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		var existing domain.ChatSession
		err := tx.Where("user_id = ? AND active = ?", userID, true).
			Order("last_message_at DESC").
			Take(&existing).Error
		if err == nil {
			out = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		s := &domain.ChatSession{UserID: userID, Active: true, LastMessageAt: time.Now().UTC()}
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		out = s
		return nil
	})
	return out, err
}

func (r *chatSessionRepo) Touch(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	return dbc.DB(r.db).Model(&domain.ChatSession{}).Where("id = ?", id).
		Updates(map[string]interface{}{"last_message_at": at.UTC(), "updated_at": time.Now().UTC()}).Error
}

func (r *chatSessionRepo) DeactivateIdle(dbc dbctx.Context, before time.Time) (int64, error) {
	res := dbc.DB(r.db).Model(&domain.ChatSession{}).
		Where("active = ? AND last_message_at < ?", true, before.UTC()).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

type ChatMessageRepo interface {
	Create(dbc dbctx.Context, rows []*domain.ChatMessage) ([]*domain.ChatMessage, error)
	// ListRecent returns the newest limit messages of a session in chronological order.
	ListRecent(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Create(dbc dbctx.Context, rows []*domain.ChatMessage) ([]*domain.ChatMessage, error) {
	if len(rows) == 0 {
		return []*domain.ChatMessage{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *chatMessageRepo) ListRecent(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	if sessionID == uuid.Nil {
		return nil, fmt.Errorf("missing session_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 12
	}
	var out []*domain.ChatMessage
	if err := dbc.DB(r.db).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
