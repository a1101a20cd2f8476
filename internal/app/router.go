package app

import (
	"github.com/gin-gonic/gin"

	"github.com/kidomigon/roomcompanion-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		RoomHandler:    handlerset.Room,
		AlertHandler:   handlerset.Alert,
		AuthHandler:    handlerset.Auth,
		AuthMiddleware: mw.Auth,
		RateLimiter:    mw.RateLimit,
	})
}
