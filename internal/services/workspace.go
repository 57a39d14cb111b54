package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/atmohq/atmo-backend/internal/data/repos"
	"github.com/atmohq/atmo-backend/internal/domain"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

const maxWorkspaceProjects = 200

// WorkspaceGraph is the dashboard's view of everything a user is working on.
type WorkspaceGraph struct {
	Profile    *domain.Profile     `json:"profile,omitempty"`
	Projects   []*domain.Project   `json:"projects"`
	Goals      []*domain.Goal      `json:"goals"`
	Tasks      []*domain.Task      `json:"tasks"`
	Milestones []*domain.Milestone `json:"milestones"`
}

type WorkspaceService interface {
	Graph(ctx context.Context, userID uuid.UUID) (*WorkspaceGraph, error)
}

type workspaceService struct {
	log   *logger.Logger
	repos repos.Set
}

func NewWorkspaceService(log *logger.Logger, repoSet repos.Set) WorkspaceService {
	return &workspaceService{log: log.With("service", "WorkspaceService"), repos: repoSet}
}

// Graph fails as a whole when any collection fails; a partial dashboard would
// look like lost data.
func (s *workspaceService) Graph(ctx context.Context, userID uuid.UUID) (*WorkspaceGraph, error) {
	dbc := dbctx.From(ctx)
	out := &WorkspaceGraph{}
	g, gctx := errgroup.WithContext(ctx)
	dbc.Ctx = gctx
	g.Go(func() (err error) {
		out.Projects, err = s.repos.Projects.ListActive(dbc, userID, maxWorkspaceProjects)
		return wrap("projects", err)
	})
	g.Go(func() (err error) {
		out.Goals, err = s.repos.Goals.ListByOwner(dbc, userID)
		return wrap("goals", err)
	})
	g.Go(func() (err error) {
		out.Tasks, err = s.repos.Tasks.ListByOwner(dbc, userID)
		return wrap("tasks", err)
	})
	g.Go(func() (err error) {
		out.Milestones, err = s.repos.Milestones.ListByOwner(dbc, userID)
		return wrap("milestones", err)
	})
	g.Go(func() error {
		p, err := s.repos.Profiles.GetByID(dbc, userID)
		if err != nil {
			s.log.Debug("workspace profile missing", "user_id", userID, "error", err)
			return nil
		}
		out.Profile = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w", what, err)
}
