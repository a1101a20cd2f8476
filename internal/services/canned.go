package services

import (
	"fmt"
	"strings"
	"time"
)

var distressWords = []string{"help", "fell", "fall", "pain", "hurt"}

// CannedResponder is the deterministic textual fallback used when the whole
// provider chain is down for the chat branch. Pure string matching over
// ordered phrase categories. Distress is checked before the informational
// categories so "what time will help arrive, I fell" reassures instead of
// telling the time.
type CannedResponder struct{}

func NewCannedResponder() CannedResponder {
	return CannedResponder{}
}

func (CannedResponder) Respond(text, roomID, residentName, mode string, now time.Time) string {
	lower := strings.ToLower(text)

	for _, w := range distressWords {
		if strings.Contains(lower, w) {
			return "I'm letting the staff know right away. Help is on the way — please stay where you are."
		}
	}
	if strings.Contains(lower, "where am i") || strings.Contains(lower, "what is this place") {
		return fmt.Sprintf("You're in Room %s at your care home, %s. You're safe here.", roomID, residentName)
	}
	if strings.Contains(lower, "time") {
		return fmt.Sprintf("It's %s right now.", now.Format("3:04 PM"))
	}
	if strings.Contains(lower, "day") || strings.Contains(lower, "date") {
		return fmt.Sprintf("Today is %s.", now.Format("Monday, January 02"))
	}
	if strings.Contains(lower, "breakfast") || strings.Contains(lower, "lunch") ||
		strings.Contains(lower, "dinner") || strings.Contains(lower, "meal") {
		return "Breakfast is at 8:00 AM, lunch at 12:00 PM, and dinner at 5:30 PM."
	}
	return "I'm having a little trouble right now, but the staff are always nearby if you need anything."
}
