package app

import (
	"github.com/kidomigon/roomcompanion-backend/internal/handlers"
	"github.com/kidomigon/roomcompanion-backend/internal/logger"
)

type Handlers struct {
	Room  *handlers.RoomHandler
	Alert *handlers.AlertHandler
	Auth  *handlers.AuthHandler
}

func wireHandlers(log *logger.Logger, cfg Config, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Room:  handlers.NewRoomHandler(log, svcs.Room, svcs.Companion, svcs.Alert),
		Alert: handlers.NewAlertHandler(log, svcs.Alert),
		Auth:  handlers.NewAuthHandler(log, svcs.Auth, cfg.SecureCookie, int(cfg.SessionTTL.Seconds())),
	}
}
