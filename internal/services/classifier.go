package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kidomigon/roomcompanion-backend/internal/inference"
	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

// CompletionClient is the slice of the inference gateway the companion
// services need. *inference.Gateway satisfies it.
type CompletionClient interface {
	Complete(ctx context.Context, messages []inference.Message, temperature float64) (string, error)
}

// classifyTemperature is kept low to minimize variance in the structured
// output.
const classifyTemperature = 0.1

// Classifier turns a resident utterance into a structured help judgment.
// It is two-tiered: the model tier via the provider chain, and a keyword
// tier that cannot fail and serves as the safety floor.
type Classifier interface {
	Classify(ctx context.Context, userMessage string) types.ClassificationResult
}

type classifier struct {
	gateway CompletionClient
	prompts PromptComposer
	log     *logger.Logger
}

func NewClassifier(gateway CompletionClient, prompts PromptComposer, baseLog *logger.Logger) Classifier {
	return &classifier{
		gateway: gateway,
		prompts: prompts,
		log:     baseLog.With("service", "Classifier"),
	}
}

func (c *classifier) Classify(ctx context.Context, userMessage string) types.ClassificationResult {
	prompt := c.prompts.BuildClassifyPrompt(userMessage)
	raw, err := c.gateway.Complete(ctx, []inference.Message{
		{Role: types.TurnRoleUser, Content: prompt},
	}, classifyTemperature)
	if err != nil {
		c.log.Warn("classification inference failed, falling back to keyword detection", "error", err)
		return keywordClassify(userMessage)
	}

	result, err := parseClassification(raw)
	if err != nil {
		c.log.Warn("classification output unparseable, falling back to keyword detection", "error", err)
		return keywordClassify(userMessage)
	}
	return result
}

// parseClassification extracts the judgment from raw model output. Missing
// fields get safe defaults; fields of the wrong type, or a severity outside
// the four tiers, fail the whole parse so the keyword tier takes over.
func parseClassification(raw string) (types.ClassificationResult, error) {
	var zero types.ClassificationResult

	candidate := extractJSONObject(strings.TrimSpace(raw))
	if candidate == "" {
		candidate = strings.TrimSpace(raw)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return zero, fmt.Errorf("parse classification: %w", err)
	}

	result := types.ClassificationResult{
		IsHelpRequest: false,
		Severity:      types.SeverityInformational,
		Confidence:    0.5,
	}

	if v, ok := fields["is_help_request"]; ok {
		if err := json.Unmarshal(v, &result.IsHelpRequest); err != nil {
			return zero, fmt.Errorf("is_help_request: %w", err)
		}
	}
	if v, ok := fields["severity"]; ok {
		if err := json.Unmarshal(v, &result.Severity); err != nil {
			return zero, fmt.Errorf("severity: %w", err)
		}
		if !types.ValidSeverity(result.Severity) {
			return zero, fmt.Errorf("severity: unknown tier %q", result.Severity)
		}
	}
	if v, ok := fields["confidence"]; ok {
		if err := json.Unmarshal(v, &result.Confidence); err != nil {
			return zero, fmt.Errorf("confidence: %w", err)
		}
	}
	if v, ok := fields["explanation"]; ok {
		if err := json.Unmarshal(v, &result.Explanation); err != nil {
			return zero, fmt.Errorf("explanation: %w", err)
		}
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	return result, nil
}

// extractJSONObject returns the first syntactically balanced {...} span in s,
// or "" if none closes. It tracks string literals and escapes so braces
// inside strings do not count, and handles nested objects, unlike a
// non-nested pattern match.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// Keyword tables, checked in order: the first tier with a match wins, so a
// message containing both "fell" and "pain" classifies as emergency.
var (
	emergencyWords = []string{"fell", "fall", "can't breathe", "chest pain", "heart", "bleeding", "unconscious"}
	urgentWords    = []string{"pain", "hurt", "sick", "dizzy", "nauseous"}
	helpWords      = []string{"help", "nurse", "someone", "assistance", "bathroom"}
)

// keywordClassify is the deterministic tier. Pure substring matching over
// the lower-cased message; it must never fail.
func keywordClassify(text string) types.ClassificationResult {
	lower := strings.ToLower(text)

	for _, word := range emergencyWords {
		if strings.Contains(lower, word) {
			return types.ClassificationResult{
				IsHelpRequest: true,
				Severity:      types.SeverityEmergency,
				Confidence:    0.8,
				Explanation:   "Keyword match: " + word,
			}
		}
	}
	for _, word := range urgentWords {
		if strings.Contains(lower, word) {
			return types.ClassificationResult{
				IsHelpRequest: true,
				Severity:      types.SeverityUrgent,
				Confidence:    0.7,
				Explanation:   "Keyword match: " + word,
			}
		}
	}
	for _, word := range helpWords {
		if strings.Contains(lower, word) {
			return types.ClassificationResult{
				IsHelpRequest: true,
				Severity:      types.SeverityRoutine,
				Confidence:    0.6,
				Explanation:   "Keyword match: " + word,
			}
		}
	}
	return types.ClassificationResult{
		IsHelpRequest: false,
		Severity:      types.SeverityInformational,
		Confidence:    0.9,
		Explanation:   "No distress keywords detected",
	}
}
