package app

import (
	"fmt"

	"github.com/kidomigon/roomcompanion-backend/internal/inference"
	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/services"
)

type Services struct {
	Gateway   *inference.Gateway
	Companion services.CompanionService
	Alert     services.AlertService
	Room      services.RoomService
	Auth      services.AuthService
}

func wireServices(log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	providers := make([]*inference.Provider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		p, err := inference.NewProvider(pc)
		if err != nil {
			return Services{}, fmt.Errorf("init provider %s: %w", pc.Name, err)
		}
		providers = append(providers, p)
	}
	gateway := inference.NewGateway(log, providers...)

	prompts := services.NewPromptComposer()
	canned := services.NewCannedResponder()
	conversations := services.NewConversationStore()
	classifier := services.NewClassifier(gateway, prompts, log)

	companion := services.NewCompanionService(
		log,
		gateway,
		classifier,
		conversations,
		prompts,
		canned,
		repos.Alert,
		repos.Question,
	)

	alertService := services.NewAlertService(log, repos.Alert, repos.Question, repos.Room)
	roomService := services.NewRoomService(log, repos.Room)
	authService := services.NewAuthService(log, repos.Staff, repos.Session, cfg.SessionTTL)

	return Services{
		Gateway:   gateway,
		Companion: companion,
		Alert:     alertService,
		Room:      roomService,
		Auth:      authService,
	}, nil
}
