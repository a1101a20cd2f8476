package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

const facilitySchedule = `Facility Schedule:
- Breakfast: 8:00 AM
- Morning activities: 9:30 AM
- Lunch: 12:00 PM
- Afternoon rest: 1:00 - 2:30 PM
- Afternoon activities: 3:00 PM
- Dinner: 5:30 PM
- Evening wind-down: 7:00 PM
- Lights optional by 9:00 PM`

const classifyPrompt = `You are a safety classifier for a nursing home AI system.
Analyze the resident's message and determine if it's a help/distress request.

Respond ONLY with valid JSON (no markdown, no explanation outside JSON):
{
  "is_help_request": true/false,
  "severity": "emergency" | "urgent" | "routine" | "informational",
  "confidence": 0.0-1.0,
  "explanation": "brief reason"
}

Severity guide:
- emergency: immediate danger — falls, chest pain, can't breathe, unresponsive
- urgent: needs prompt attention — significant pain, feeling very unwell, can't reach something dangerous
- routine: non-urgent help — need bathroom assistance, medication reminder, general help request
- informational: not a help request — questions about schedule, chat, orientation questions

Message to classify: `

// PromptComposer builds the layered persona prompts. Pure functions of their
// inputs, no state.
type PromptComposer struct{}

func NewPromptComposer() PromptComposer {
	return PromptComposer{}
}

// BuildChatPrompt composes the base identity block with a mode layer. Any
// mode other than memory_support gets the standard layer, so the function is
// total over arbitrary mode strings.
func (PromptComposer) BuildChatPrompt(roomID, residentName, mode string, now time.Time) string {
	currentTime := now.Format("3:04 PM on Monday, January 02")

	base := fmt.Sprintf(`You are the Room Companion, a friendly AI assistant in a nursing home facility.
You are located in Room %s, assisting %s.
The current time is %s.

Your role:
- Answer questions clearly and warmly in 2-3 sentences maximum.
- Help with orientation (time, date, schedule, location).
- If the resident seems distressed or asks for help, respond with calm reassurance and let them know staff are being notified.
- Never provide medical advice. For health concerns, say staff will be contacted.
- Be warm but not overly cheerful. Speak naturally, like a kind neighbor.

%s

Safety rules:
- Never argue with or correct a confused resident harshly.
- If someone mentions falling, pain, or an emergency, respond with immediate reassurance.
- Do not discuss other residents or share any private information.`, roomID, residentName, currentTime, facilitySchedule)

	var modeLayer string
	if mode == types.ModeMemorySupport {
		modeLayer = fmt.Sprintf(`

Mode: Memory Support
%s may experience confusion about time, place, or recent events.
- Always begin responses by gently orienting them: mention where they are, the time, or the day when relevant.
- Be patient with repeated questions — answer each time as if it's the first.
- Use simple, short sentences. Avoid complex explanations.
- Provide extra reassurance and comfort.`, residentName)
	} else {
		modeLayer = `

Mode: Standard
- Be direct and efficient in responses.
- The resident is generally oriented and independent.
- Keep answers helpful and concise.`
	}

	return base + modeLayer
}

// BuildClassifyPrompt embeds the user message, quoted, in the fixed
// strict-JSON classification instruction.
func (PromptComposer) BuildClassifyPrompt(userMessage string) string {
	return classifyPrompt + fmt.Sprintf("%q", userMessage)
}

// Greeting is the deterministic opener shown when a room screen wakes up.
// Memory-support rooms get a reorientation sentence with day and time.
func (PromptComposer) Greeting(roomID, residentName, mode string, now time.Time) string {
	var timeGreeting string
	switch hour := now.Hour(); {
	case hour < 12:
		timeGreeting = "Good morning"
	case hour < 17:
		timeGreeting = "Good afternoon"
	default:
		timeGreeting = "Good evening"
	}

	firstName := residentName
	if fields := strings.Fields(residentName); len(fields) > 0 {
		firstName = fields[0]
	}

	if mode == types.ModeMemorySupport {
		day := now.Format("Monday")
		timeStr := now.Format("3:04 PM")
		return fmt.Sprintf("%s, %s. You're in Room %s at your care home. It's %s, and the time is %s. I'm here if you need anything.",
			timeGreeting, firstName, roomID, day, timeStr)
	}
	return fmt.Sprintf("%s, %s. How can I help you today?", timeGreeting, firstName)
}
