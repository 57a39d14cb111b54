package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/atmohq/atmo-backend/internal/data/db"
	"github.com/atmohq/atmo-backend/internal/data/repos"
	apphttp "github.com/atmohq/atmo-backend/internal/http"
	"github.com/atmohq/atmo-backend/internal/maintenance"
	"github.com/atmohq/atmo-backend/internal/observability"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type App struct {
	Log         *logger.Logger
	Cfg         Config
	DB          *gorm.DB
	Repos       repos.Set
	Services    Services
	Server      *apphttp.Server
	Maintenance *maintenance.Scheduler

	closers []func(context.Context) error
}

// OpenDatabase connects with the configured driver and migrates when asked to.
func OpenDatabase(log *logger.Logger, cfg DatabaseConfig, migrate bool) (*db.Service, error) {
	svc, err := db.NewService(log, db.Config{
		Driver:        strings.ToLower(cfg.Driver),
		DSN:           cfg.DSN,
		Host:          cfg.Host,
		Port:          cfg.Port,
		User:          cfg.User,
		Password:      cfg.Password,
		Name:          cfg.Name,
		SSLMode:       cfg.SSLMode,
		SQLitePath:    cfg.SQLitePath,
		MaxOpenConns:  cfg.MaxOpenConns,
		SlowThreshold: cfg.SlowThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if migrate {
		if err := svc.AutoMigrateAll(); err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return svc, nil
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	a := &App{Log: log, Cfg: cfg}

	a.closers = append(a.closers, observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Otel.Environment,
		Endpoint:    cfg.Otel.Endpoint,
		Headers:     cfg.Otel.Headers,
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	}))

	dbSvc, err := OpenDatabase(log, cfg.Database, cfg.Database.AutoMigrate)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.DB = dbSvc.DB()
	a.closers = append(a.closers, func(context.Context) error { return dbSvc.Close() })
	a.Repos = repos.NewSet(a.DB, log)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.closers = append(a.closers, clients.close)

	a.Services = wireServices(log, cfg, a.Repos, clients)

	if strings.TrimSpace(cfg.Server.Mode) != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	a.Server = apphttp.NewServer(wireRouterConfig(log, serviceName, a.Services), cfg.Server.ShutdownTimeout)

	if cfg.Maintenance.Enabled {
		a.Maintenance = maintenance.NewScheduler(log, a.Repos.ChatSessions, a.Repos.Tasks, maintenance.Config{
			SessionIdle:  cfg.Maintenance.SessionIdle,
			ArchiveAfter: cfg.Maintenance.ArchiveAfter,
			SessionSpec:  cfg.Maintenance.SessionSpec,
			ArchiveSpec:  cfg.Maintenance.ArchiveSpec,
		})
	}
	return a, nil
}

// Run serves HTTP and runs maintenance until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Maintenance != nil {
		if err := a.Maintenance.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.Server.ShutdownTimeout)
			defer cancel()
			a.Maintenance.Stop(stopCtx)
		}()
	}
	return a.Server.Run(ctx, ":"+strings.TrimPrefix(a.Cfg.Server.Port, ":"))
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil && a.Log != nil {
		a.Log.Warn("shutdown errors", "error", err)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
