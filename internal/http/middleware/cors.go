package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS is permissive: browser clients authenticate with bearer tokens, not cookies.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey", "X-Request-Id"},
		ExposeHeaders:             []string{"X-Request-Id", "X-Trace-Id"},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	})
}

// PreflightOK answers bare OPTIONS requests that carry no CORS headers.
func PreflightOK(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
