package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/repos"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

type CreateAlertInput struct {
	RoomID       string
	ResidentName string
	Type         string
	Message      string
	Severity     string
}

type RoomSummary struct {
	ResidentName       string `json:"resident_name"`
	Mode               string `json:"mode"`
	HelpCount30m       int64  `json:"help_count_30m"`
	OrientationCount7d int64  `json:"orientation_count_7d"`
	ActiveAlerts       int64  `json:"active_alerts"`
	LatestSeverity     string `json:"latest_severity,omitempty"`
}

type AlertService interface {
	Create(ctx context.Context, input CreateAlertInput) (*types.Alert, error)
	List(ctx context.Context, filter repos.AlertFilter) ([]*types.Alert, error)
	Acknowledge(ctx context.Context, id uuid.UUID, staffName, notes string) (*types.Alert, error)
	Resolve(ctx context.Context, id uuid.UUID, staffName, notes string) (*types.Alert, error)
	Summary(ctx context.Context) (map[string]*RoomSummary, error)
	Questions(ctx context.Context, roomID string, limit int) ([]*types.Question, error)
}

type alertService struct {
	log          *logger.Logger
	alertRepo    repos.AlertRepo
	questionRepo repos.QuestionRepo
	roomRepo     repos.RoomRepo
}

func NewAlertService(baseLog *logger.Logger, alertRepo repos.AlertRepo, questionRepo repos.QuestionRepo, roomRepo repos.RoomRepo) AlertService {
	return &alertService{
		log:          baseLog.With("service", "AlertService"),
		alertRepo:    alertRepo,
		questionRepo: questionRepo,
		roomRepo:     roomRepo,
	}
}

func (s *alertService) Create(ctx context.Context, input CreateAlertInput) (*types.Alert, error) {
	if strings.TrimSpace(input.RoomID) == "" {
		return nil, fmt.Errorf("room_id required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("message required")
	}
	severity := input.Severity
	if severity == "" {
		severity = types.SeverityRoutine
	}
	if !types.ValidSeverity(severity) {
		return nil, fmt.Errorf("invalid severity %q", severity)
	}
	alertType := input.Type
	if alertType == "" {
		alertType = types.AlertTypeHelp
	}

	alert := &types.Alert{
		RoomID:       input.RoomID,
		ResidentName: input.ResidentName,
		Type:         alertType,
		Message:      input.Message,
		Severity:     severity,
		Status:       types.AlertStatusNew,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := s.alertRepo.Create(ctx, nil, alert)
	if err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	s.log.Info("alert created", "room_id", created.RoomID, "severity", created.Severity, "type", created.Type)
	return created, nil
}

func (s *alertService) List(ctx context.Context, filter repos.AlertFilter) ([]*types.Alert, error) {
	return s.alertRepo.List(ctx, nil, filter)
}

func (s *alertService) Acknowledge(ctx context.Context, id uuid.UUID, staffName, notes string) (*types.Alert, error) {
	var notesPtr *string
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		notesPtr = &trimmed
	}
	if err := s.alertRepo.Acknowledge(ctx, nil, id, staffName, notesPtr); err != nil {
		return nil, fmt.Errorf("acknowledge alert: %w", err)
	}
	return s.alertRepo.GetByID(ctx, nil, id)
}

func (s *alertService) Resolve(ctx context.Context, id uuid.UUID, staffName, notes string) (*types.Alert, error) {
	var notesPtr *string
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		notesPtr = &trimmed
	}
	if err := s.alertRepo.Resolve(ctx, nil, id, staffName, notesPtr); err != nil {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}
	return s.alertRepo.GetByID(ctx, nil, id)
}

// Questions returns the recent question log for one room, newest first.
func (s *alertService) Questions(ctx context.Context, roomID string, limit int) ([]*types.Question, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.questionRepo.ListByRoom(ctx, nil, roomID, limit)
}

// Summary builds the per-room dashboard card data: recent help alerts,
// recent orientation questions, and the standing alert load.
func (s *alertService) Summary(ctx context.Context) (map[string]*RoomSummary, error) {
	rooms, err := s.roomRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	now := time.Now().UTC()
	helpWindow := now.Add(-30 * time.Minute)
	orientationWindow := now.Add(-7 * 24 * time.Hour)

	summary := make(map[string]*RoomSummary, len(rooms))
	for _, room := range rooms {
		helpCount, err := s.alertRepo.CountHelpSince(ctx, nil, room.RoomID, helpWindow)
		if err != nil {
			return nil, fmt.Errorf("count help alerts for room %s: %w", room.RoomID, err)
		}
		orientationCount, err := s.questionRepo.CountOrientationSince(ctx, nil, room.RoomID, orientationWindow)
		if err != nil {
			return nil, fmt.Errorf("count orientation questions for room %s: %w", room.RoomID, err)
		}
		activeCount, err := s.alertRepo.CountActive(ctx, nil, room.RoomID)
		if err != nil {
			return nil, fmt.Errorf("count active alerts for room %s: %w", room.RoomID, err)
		}
		latestSeverity, err := s.alertRepo.LatestActiveSeverity(ctx, nil, room.RoomID)
		if err != nil {
			return nil, fmt.Errorf("latest severity for room %s: %w", room.RoomID, err)
		}

		summary[room.RoomID] = &RoomSummary{
			ResidentName:       room.ResidentName,
			Mode:               room.Mode,
			HelpCount30m:       helpCount,
			OrientationCount7d: orientationCount,
			ActiveAlerts:       activeCount,
			LatestSeverity:     latestSeverity,
		}
	}
	return summary, nil
}
