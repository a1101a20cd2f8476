package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/inference"
	"github.com/kidomigon/roomcompanion-backend/internal/repos"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

type fakeAlertRepo struct {
	created []*types.Alert
}

func (f *fakeAlertRepo) Create(_ context.Context, _ *gorm.DB, alert *types.Alert) (*types.Alert, error) {
	f.created = append(f.created, alert)
	return alert, nil
}
func (f *fakeAlertRepo) GetByID(context.Context, *gorm.DB, uuid.UUID) (*types.Alert, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAlertRepo) List(context.Context, *gorm.DB, repos.AlertFilter) ([]*types.Alert, error) {
	return f.created, nil
}
func (f *fakeAlertRepo) Acknowledge(context.Context, *gorm.DB, uuid.UUID, string, *string) error {
	return nil
}
func (f *fakeAlertRepo) Resolve(context.Context, *gorm.DB, uuid.UUID, string, *string) error {
	return nil
}
func (f *fakeAlertRepo) CountHelpSince(context.Context, *gorm.DB, string, time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeAlertRepo) CountActive(context.Context, *gorm.DB, string) (int64, error) {
	return 0, nil
}
func (f *fakeAlertRepo) LatestActiveSeverity(context.Context, *gorm.DB, string) (string, error) {
	return "", nil
}

type fakeQuestionRepo struct {
	created []*types.Question
}

func (f *fakeQuestionRepo) Create(_ context.Context, _ *gorm.DB, q *types.Question) (*types.Question, error) {
	f.created = append(f.created, q)
	return q, nil
}
func (f *fakeQuestionRepo) ListByRoom(context.Context, *gorm.DB, string, int) ([]*types.Question, error) {
	return f.created, nil
}
func (f *fakeQuestionRepo) CountOrientationSince(context.Context, *gorm.DB, string, time.Time) (int64, error) {
	return 0, nil
}

type fixedClassifier struct {
	result types.ClassificationResult
}

func (f fixedClassifier) Classify(context.Context, string) types.ClassificationResult {
	return f.result
}

func newTestCompanion(t *testing.T, gw CompletionClient, cls Classifier, alerts *fakeAlertRepo, questions *fakeQuestionRepo) (CompanionService, *ConversationStore) {
	t.Helper()
	conversations := NewConversationStore()
	svc := NewCompanionService(
		testLogger(t),
		gw,
		cls,
		conversations,
		NewPromptComposer(),
		NewCannedResponder(),
		alerts,
		questions,
	)
	return svc, conversations
}

func standardRoom() *types.Room {
	return &types.Room{RoomID: "101", ResidentName: "Margaret", Mode: types.ModeStandard}
}

func TestShouldEscalate(t *testing.T) {
	cases := []struct {
		name string
		in   types.ClassificationResult
		want bool
	}{
		{
			name: "urgent_at_threshold",
			in:   types.ClassificationResult{IsHelpRequest: true, Confidence: 0.5, Severity: types.SeverityUrgent},
			want: true,
		},
		{
			name: "urgent_below_threshold",
			in:   types.ClassificationResult{IsHelpRequest: true, Confidence: 0.49, Severity: types.SeverityUrgent},
			want: false,
		},
		{
			name: "informational_never_escalates",
			in:   types.ClassificationResult{IsHelpRequest: true, Confidence: 0.9, Severity: types.SeverityInformational},
			want: false,
		},
		{
			name: "not_help_request",
			in:   types.ClassificationResult{IsHelpRequest: false, Confidence: 0.9, Severity: types.SeverityEmergency},
			want: false,
		},
		{
			name: "emergency",
			in:   types.ClassificationResult{IsHelpRequest: true, Confidence: 0.8, Severity: types.SeverityEmergency},
			want: true,
		},
		{
			name: "routine",
			in:   types.ClassificationResult{IsHelpRequest: true, Confidence: 0.6, Severity: types.SeverityRoutine},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldEscalate(tc.in); got != tc.want {
				t.Fatalf("shouldEscalate(%+v)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestHandleTurnEmptyInput(t *testing.T) {
	gw := &fakeGateway{response: "should never be called"}
	alerts := &fakeAlertRepo{}
	questions := &fakeQuestionRepo{}
	svc, conversations := newTestCompanion(t, gw, fixedClassifier{}, alerts, questions)

	result, err := svc.HandleTurn(context.Background(), standardRoom(), "   \n  ")
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}
	if result.Reply != emptyInputReply {
		t.Fatalf("reply=%q", result.Reply)
	}
	if result.AlertCreated {
		t.Fatal("empty input must not create an alert")
	}
	if gw.calls != 0 {
		t.Fatalf("empty input must not invoke providers, calls=%d", gw.calls)
	}
	if len(questions.created) != 0 {
		t.Fatal("empty input must not be logged")
	}
	if len(conversations.History("101")) != 0 {
		t.Fatal("empty input must not enter the conversation log")
	}
}

func TestHandleTurnProvidersDownEmergency(t *testing.T) {
	// Both providers unavailable: the reply degrades to the canned distress
	// sentence and classification degrades to the keyword tier.
	gw := &fakeGateway{err: &inference.ExhaustedError{Attempts: []inference.AttemptFailure{
		{Provider: "groq", Reason: "no credential configured"},
		{Provider: "openrouter", Reason: "no credential configured"},
	}}}
	alerts := &fakeAlertRepo{}
	questions := &fakeQuestionRepo{}
	cls := NewClassifier(gw, NewPromptComposer(), testLogger(t))
	svc, conversations := newTestCompanion(t, gw, cls, alerts, questions)

	input := "I think I fell and my hip hurts"
	result, err := svc.HandleTurn(context.Background(), standardRoom(), input)
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}

	if !strings.Contains(result.Reply, "Help is on the way") {
		t.Fatalf("reply=%q", result.Reply)
	}
	if !result.AlertCreated || result.Severity != types.SeverityEmergency {
		t.Fatalf("result=%+v", result)
	}

	if len(alerts.created) != 1 {
		t.Fatalf("alerts created=%d", len(alerts.created))
	}
	alert := alerts.created[0]
	if alert.Severity != types.SeverityEmergency {
		t.Fatalf("alert severity=%q", alert.Severity)
	}
	if !strings.Contains(alert.Message, input) {
		t.Fatalf("alert message=%q must embed the user text", alert.Message)
	}
	if !strings.Contains(alert.Message, "[emergency]") {
		t.Fatalf("alert message=%q must embed the severity tag", alert.Message)
	}
	if alert.Status != types.AlertStatusNew {
		t.Fatalf("alert status=%q", alert.Status)
	}

	if len(questions.created) != 1 {
		t.Fatalf("questions logged=%d, want exactly 1", len(questions.created))
	}
	if questions.created[0].Question != input || questions.created[0].Response != result.Reply {
		t.Fatalf("question row: %+v", questions.created[0])
	}

	history := conversations.History("101")
	if len(history) != 2 {
		t.Fatalf("history len=%d", len(history))
	}
	if history[0].Role != types.TurnRoleUser || history[1].Role != types.TurnRoleAssistant {
		t.Fatalf("history roles: %+v", history)
	}
}

func TestHandleTurnProvidersDownInformational(t *testing.T) {
	gw := &fakeGateway{err: &inference.ExhaustedError{}}
	alerts := &fakeAlertRepo{}
	questions := &fakeQuestionRepo{}
	cls := NewClassifier(gw, NewPromptComposer(), testLogger(t))
	svc, _ := newTestCompanion(t, gw, cls, alerts, questions)

	result, err := svc.HandleTurn(context.Background(), standardRoom(), "What time is it?")
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}
	if result.AlertCreated {
		t.Fatal("informational turn must not create an alert")
	}
	if len(alerts.created) != 0 {
		t.Fatalf("alerts created=%d", len(alerts.created))
	}
	// Canned time reply contains a clock string like "3:04 PM".
	if !strings.Contains(result.Reply, "M right now") {
		t.Fatalf("reply=%q", result.Reply)
	}
	if len(questions.created) != 1 {
		t.Fatalf("questions logged=%d", len(questions.created))
	}
}

func TestHandleTurnModelReply(t *testing.T) {
	gw := &fakeGateway{response: "Lunch is at noon, Margaret."}
	alerts := &fakeAlertRepo{}
	questions := &fakeQuestionRepo{}
	cls := fixedClassifier{result: types.ClassificationResult{
		IsHelpRequest: false, Severity: types.SeverityInformational, Confidence: 0.9,
	}}
	svc, conversations := newTestCompanion(t, gw, cls, alerts, questions)

	result, err := svc.HandleTurn(context.Background(), standardRoom(), "when is lunch?")
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}
	if result.Reply != "Lunch is at noon, Margaret." {
		t.Fatalf("reply=%q", result.Reply)
	}
	if result.AlertCreated {
		t.Fatal("no alert expected")
	}

	// The chat request carries the system prompt followed by the history,
	// which already includes the resident's current message.
	if len(gw.lastMsgs) != 2 {
		t.Fatalf("messages sent=%d", len(gw.lastMsgs))
	}
	if gw.lastMsgs[0].Role != types.TurnRoleSystem {
		t.Fatalf("first message role=%q", gw.lastMsgs[0].Role)
	}
	if gw.lastMsgs[1].Role != types.TurnRoleUser || gw.lastMsgs[1].Content != "when is lunch?" {
		t.Fatalf("second message: %+v", gw.lastMsgs[1])
	}

	history := conversations.History("101")
	if len(history) != 2 || history[1].Content != "Lunch is at noon, Margaret." {
		t.Fatalf("history: %+v", history)
	}
}

func TestHandleTurnReplyNeverEmpty(t *testing.T) {
	inputs := []string{
		"",
		"hello",
		"I fell",
		"what's for breakfast",
		"asdfghjkl",
	}
	gw := &fakeGateway{err: &inference.ExhaustedError{}}
	cls := NewClassifier(gw, NewPromptComposer(), testLogger(t))
	svc, _ := newTestCompanion(t, gw, cls, &fakeAlertRepo{}, &fakeQuestionRepo{})

	for _, in := range inputs {
		result, err := svc.HandleTurn(context.Background(), standardRoom(), in)
		if err != nil {
			t.Fatalf("HandleTurn(%q): %v", in, err)
		}
		if strings.TrimSpace(result.Reply) == "" {
			t.Fatalf("HandleTurn(%q) returned empty reply", in)
		}
	}
}
