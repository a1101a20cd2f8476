package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/repos"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

type RoomService interface {
	Get(ctx context.Context, roomID string) (*types.Room, error)
	List(ctx context.Context) ([]*types.Room, error)
	Update(ctx context.Context, roomID, residentName, mode string) (*types.Room, error)
}

type roomService struct {
	log      *logger.Logger
	roomRepo repos.RoomRepo
}

func NewRoomService(baseLog *logger.Logger, roomRepo repos.RoomRepo) RoomService {
	return &roomService{
		log:      baseLog.With("service", "RoomService"),
		roomRepo: roomRepo,
	}
}

func (s *roomService) Get(ctx context.Context, roomID string) (*types.Room, error) {
	return s.roomRepo.GetByID(ctx, nil, roomID)
}

func (s *roomService) List(ctx context.Context) ([]*types.Room, error) {
	return s.roomRepo.List(ctx, nil)
}

func (s *roomService) Update(ctx context.Context, roomID, residentName, mode string) (*types.Room, error) {
	residentName = strings.TrimSpace(residentName)
	if residentName == "" {
		return nil, fmt.Errorf("resident_name required")
	}
	mode = strings.TrimSpace(mode)
	if mode != types.ModeStandard && mode != types.ModeMemorySupport {
		return nil, fmt.Errorf("invalid mode %q", mode)
	}
	if err := s.roomRepo.Update(ctx, nil, roomID, residentName, mode); err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}
	return s.roomRepo.GetByID(ctx, nil, roomID)
}
