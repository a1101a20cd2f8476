package types

const (
	SeverityEmergency     = "emergency"
	SeverityUrgent        = "urgent"
	SeverityRoutine       = "routine"
	SeverityInformational = "informational"
)

func ValidSeverity(s string) bool {
	switch s {
	case SeverityEmergency, SeverityUrgent, SeverityRoutine, SeverityInformational:
		return true
	}
	return false
}

// ClassificationResult is the structured judgment of one resident utterance.
// Exactly one is produced per turn, by the model tier when it cooperates and
// by the keyword tier otherwise.
type ClassificationResult struct {
	IsHelpRequest bool    `json:"is_help_request"`
	Severity      string  `json:"severity"`
	Confidence    float64 `json:"confidence"`
	Explanation   string  `json:"explanation"`
}

const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"
	TurnRoleSystem    = "system"
)

// ConversationTurn is one utterance in a room's in-memory history.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
