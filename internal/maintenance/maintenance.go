// Package maintenance runs the periodic housekeeping jobs: closing idle chat
// sessions and archiving long-completed tasks.
package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/atmohq/atmo-backend/internal/data/repos"
	"github.com/atmohq/atmo-backend/internal/platform/dbctx"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

const (
	DefaultSessionIdle  = 12 * time.Hour
	DefaultArchiveAfter = 30 * 24 * time.Hour
	DefaultSessionSpec  = "@every 30m"
	DefaultArchiveSpec  = "@daily"
)

type Config struct {
	SessionIdle  time.Duration
	ArchiveAfter time.Duration
	SessionSpec  string
	ArchiveSpec  string
}

func (c Config) withDefaults() Config {
	if c.SessionIdle <= 0 {
		c.SessionIdle = DefaultSessionIdle
	}
	if c.ArchiveAfter <= 0 {
		c.ArchiveAfter = DefaultArchiveAfter
	}
	if c.SessionSpec == "" {
		c.SessionSpec = DefaultSessionSpec
	}
	if c.ArchiveSpec == "" {
		c.ArchiveSpec = DefaultArchiveSpec
	}
	return c
}

type Scheduler struct {
	log      *logger.Logger
	sessions repos.ChatSessionRepo
	tasks    repos.TaskRepo
	cfg      Config
	now      func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewScheduler(baseLog *logger.Logger, sessions repos.ChatSessionRepo, tasks repos.TaskRepo, cfg Config) *Scheduler {
	return &Scheduler{
		log:      baseLog.With("component", "Maintenance"),
		sessions: sessions,
		tasks:    tasks,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}
}

// DeactivateIdleSessions closes sessions with no message within SessionIdle,
// so the user's next message opens a fresh one.
func (s *Scheduler) DeactivateIdleSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeactivateIdle(dbctx.From(ctx), s.now().Add(-s.cfg.SessionIdle))
	if err != nil {
		return 0, fmt.Errorf("deactivate idle sessions: %w", err)
	}
	return n, nil
}

func (s *Scheduler) ArchiveCompletedTasks(ctx context.Context) (int64, error) {
	n, err := s.tasks.ArchiveCompletedBefore(dbctx.From(ctx), s.now().Add(-s.cfg.ArchiveAfter))
	if err != nil {
		return 0, fmt.Errorf("archive completed tasks: %w", err)
	}
	return n, nil
}

// Start registers both jobs and starts the cron loop. Jobs run with ctx and
// stop firing once Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("maintenance already started")
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) (int64, error)
	}{
		{"deactivate_idle_sessions", s.cfg.SessionSpec, s.DeactivateIdleSessions},
		{"archive_completed_tasks", s.cfg.ArchiveSpec, s.ArchiveCompletedTasks},
	}
	for _, j := range jobs {
		j := j
		if _, err := c.AddFunc(j.spec, func() { s.runJob(ctx, j.name, j.run) }); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", j.name, j.spec, err)
		}
	}
	c.Start()
	s.cron = c
	s.log.Info("maintenance started", "session_spec", s.cfg.SessionSpec, "archive_spec", s.cfg.ArchiveSpec)
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("maintenance stop timed out")
	}
}

func (s *Scheduler) runJob(ctx context.Context, name string, run func(context.Context) (int64, error)) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	n, err := run(ctx)
	if err != nil {
		s.log.Error("maintenance job failed", "job", name, "error", err)
		return
	}
	s.log.Info("maintenance job done", "job", name, "rows", n, "duration_ms", time.Since(start).Milliseconds())
}
