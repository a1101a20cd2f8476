package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kidomigon/roomcompanion-backend/internal/inference"
	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/repos"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

const (
	chatTemperature = 0.7

	emptyInputReply = "I didn't catch that. Could you say that again?"

	replySourceModel  = "model"
	replySourceCanned = "canned"
)

// TurnResult is what the hosting HTTP layer returns to the room screen.
type TurnResult struct {
	Reply        string `json:"response"`
	AlertCreated bool   `json:"alert_created"`
	Severity     string `json:"severity,omitempty"`
}

// CompanionService handles one resident utterance end to end: concurrent
// reply generation and help classification, conversation memory, the
// question log, and the escalation decision.
type CompanionService interface {
	HandleTurn(ctx context.Context, room *types.Room, userMessage string) (*TurnResult, error)
	Greeting(room *types.Room) string
}

type companionService struct {
	log           *logger.Logger
	gateway       CompletionClient
	classifier    Classifier
	conversations *ConversationStore
	prompts       PromptComposer
	canned        CannedResponder
	alertRepo     repos.AlertRepo
	questionRepo  repos.QuestionRepo
}

func NewCompanionService(
	baseLog *logger.Logger,
	gateway CompletionClient,
	classifier Classifier,
	conversations *ConversationStore,
	prompts PromptComposer,
	canned CannedResponder,
	alertRepo repos.AlertRepo,
	questionRepo repos.QuestionRepo,
) CompanionService {
	return &companionService{
		log:           baseLog.With("service", "CompanionService"),
		gateway:       gateway,
		classifier:    classifier,
		conversations: conversations,
		prompts:       prompts,
		canned:        canned,
		alertRepo:     alertRepo,
		questionRepo:  questionRepo,
	}
}

// HandleTurn always produces a reply; inference failures degrade through the
// provider chain and then to canned text, never to an error the resident
// sees. The returned error reports persistence problems only — the reply in
// the TurnResult is valid even when err is non-nil.
func (s *companionService) HandleTurn(ctx context.Context, room *types.Room, userMessage string) (*TurnResult, error) {
	text := strings.TrimSpace(userMessage)
	if text == "" {
		return &TurnResult{Reply: emptyInputReply}, nil
	}

	// The resident's own message must be part of the context the chat
	// branch sends upstream.
	s.conversations.Append(room.RoomID, types.TurnRoleUser, text)

	var (
		reply          string
		replySource    string
		classification types.ClassificationResult
	)

	// Fan out the two branches and join; each owns its own fallback chain,
	// so neither can fail the other.
	g := new(errgroup.Group)
	g.Go(func() error {
		reply, replySource = s.generateReply(ctx, room, text)
		return nil
	})
	g.Go(func() error {
		classification = s.classifier.Classify(ctx, text)
		return nil
	})
	_ = g.Wait()

	s.log.Info("turn handled",
		"room_id", room.RoomID,
		"reply_source", replySource,
		"is_help_request", classification.IsHelpRequest,
		"severity", classification.Severity,
		"confidence", classification.Confidence,
	)

	now := time.Now().UTC()
	var persistErr error
	if _, err := s.questionRepo.Create(ctx, nil, &types.Question{
		RoomID:       room.RoomID,
		ResidentName: room.ResidentName,
		Question:     text,
		Response:     reply,
		CreatedAt:    now,
	}); err != nil {
		s.log.Error("failed to log question", "room_id", room.RoomID, "error", err)
		persistErr = fmt.Errorf("log question: %w", err)
	}

	result := &TurnResult{Reply: reply}
	if shouldEscalate(classification) {
		alert := &types.Alert{
			RoomID:       room.RoomID,
			ResidentName: room.ResidentName,
			Type:         types.AlertTypeHelp,
			Message:      fmt.Sprintf("[%s] %s", classification.Severity, text),
			Severity:     classification.Severity,
			Status:       types.AlertStatusNew,
			CreatedAt:    now,
		}
		if _, err := s.alertRepo.Create(ctx, nil, alert); err != nil {
			s.log.Error("failed to create alert", "room_id", room.RoomID, "severity", classification.Severity, "error", err)
			persistErr = fmt.Errorf("create alert: %w", err)
		} else {
			result.AlertCreated = true
			result.Severity = classification.Severity
		}
	}

	return result, persistErr
}

// generateReply runs the chat branch: provider chain first, canned responder
// when the chain is exhausted. The assistant turn is recorded either way so
// the history stays coherent.
func (s *companionService) generateReply(ctx context.Context, room *types.Room, text string) (string, string) {
	now := time.Now()
	systemPrompt := s.prompts.BuildChatPrompt(room.RoomID, room.ResidentName, room.Mode, now)

	history := s.conversations.History(room.RoomID)
	messages := make([]inference.Message, 0, len(history)+1)
	messages = append(messages, inference.Message{Role: types.TurnRoleSystem, Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, inference.Message{Role: turn.Role, Content: turn.Content})
	}

	reply, err := s.gateway.Complete(ctx, messages, chatTemperature)
	if err != nil {
		s.log.Warn("chat inference exhausted, using canned response", "room_id", room.RoomID, "error", err)
		reply = s.canned.Respond(text, room.RoomID, room.ResidentName, room.Mode, now)
		s.conversations.Append(room.RoomID, types.TurnRoleAssistant, reply)
		return reply, replySourceCanned
	}

	s.conversations.Append(room.RoomID, types.TurnRoleAssistant, reply)
	return reply, replySourceModel
}

// shouldEscalate is the escalation rule: a pure predicate over the
// classification. Informational judgments never page staff, and neither do
// low-confidence ones.
func shouldEscalate(c types.ClassificationResult) bool {
	return c.IsHelpRequest && c.Confidence >= 0.5 && c.Severity != types.SeverityInformational
}

func (s *companionService) Greeting(room *types.Room) string {
	return s.prompts.Greeting(room.RoomID, room.ResidentName, room.Mode, time.Now())
}
