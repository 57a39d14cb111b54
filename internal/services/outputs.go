package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/atmohq/atmo-backend/internal/data/db"
	"github.com/atmohq/atmo-backend/internal/data/repos"
	"github.com/atmohq/atmo-backend/internal/domain"
	"github.com/atmohq/atmo-backend/internal/platform/apierr"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type OutputService interface {
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Output, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Output, error)
}

type outputService struct {
	log     *logger.Logger
	outputs repos.OutputRepo
}

func NewOutputService(log *logger.Logger, outputRepo repos.OutputRepo) OutputService {
	return &outputService{log: log.With("service", "OutputService"), outputs: outputRepo}
}

func (s *outputService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Output, error) {
	rows, err := s.outputs.ListByUser(dbctx.From(ctx), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	return rows, nil
}

func (s *outputService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Output, error) {
	out, err := s.outputs.GetByID(dbctx.From(ctx), userID, id)
	if db.IsNotFound(err) {
		return nil, apierr.New(http.StatusNotFound, "output_not_found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("get output: %w", err)
	}
	return out, nil
}
