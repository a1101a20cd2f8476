package app

import (
	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/middleware"
)

type Middleware struct {
	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimiter
}

func wireMiddleware(log *logger.Logger, svcs Services, clients Clients) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:      middleware.NewAuthMiddleware(log, svcs.Auth),
		RateLimit: middleware.NewRateLimiter(log, clients.Redis),
	}
}
