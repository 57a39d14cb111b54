package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/atmohq/atmo-backend/internal/http/handlers"
	httpMW "github.com/atmohq/atmo-backend/internal/http/middleware"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AuthMiddleware *httpMW.AuthMiddleware

	ChatHandler      *httpH.ChatHandler
	OutputHandler    *httpH.OutputHandler
	WorkspaceHandler *httpH.WorkspaceHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.Correlate())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Browser preflights carry Origin and are answered by CORS with an empty
	// 200. Only bare OPTIONS requests reach PreflightOK.
	r.OPTIONS("/*path", httpMW.PreflightOK)

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Chat (edge-function path kept for existing clients)
	if cfg.ChatHandler != nil {
		protected.POST("/functions/v1/chat", cfg.ChatHandler.Send)
		protected.POST("/api/chat", cfg.ChatHandler.Send)
	}

	if cfg.OutputHandler != nil {
		protected.GET("/api/outputs", cfg.OutputHandler.List)
		protected.GET("/api/outputs/:id", cfg.OutputHandler.Get)
	}

	if cfg.WorkspaceHandler != nil {
		protected.GET("/api/workspace", cfg.WorkspaceHandler.Get)
	}

	return r
}
