package app

import (
	apphttp "github.com/atmohq/atmo-backend/internal/http"
	httpH "github.com/atmohq/atmo-backend/internal/http/handlers"
	httpMW "github.com/atmohq/atmo-backend/internal/http/middleware"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, serviceName string, svcs Services) apphttp.RouterConfig {
	return apphttp.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		AuthMiddleware:   httpMW.NewAuthMiddleware(log, svcs.Auth),
		ChatHandler:      httpH.NewChatHandler(log, svcs.Chat),
		OutputHandler:    httpH.NewOutputHandler(log, svcs.Outputs),
		WorkspaceHandler: httpH.NewWorkspaceHandler(log, svcs.Workspace),
		HealthHandler:    httpH.NewHealthHandler(),
	}
}
