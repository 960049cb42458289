package chat

import (
	"regexp"
	"strings"

	"github.com/avramelo/eventscout-go/internal/models"
)

// Content patterns the extractor searches assistant turns for.
var (
	tellAboutShape = regexp.MustCompile(`^tell me (more )?about (it|that|this)\b`)

	// 10am to 2pm, 10:30 AM - 2 PM, 9pm until midnight is not covered;
	// single clock times act as a fallback.
	timeRange  = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm)\s*(to|until|till|-|–)\s*\d{1,2}(:\d{2})?\s*(am|pm)\b`)
	singleTime = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm)\b`)

	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s()-]{8,}\d`)

	// Ordered location shapes; first match wins.
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)happening at\s+([^,.!?\n]+)`),
		regexp.MustCompile(`(?i)\bheld at\s+([^,.!?\n]+)`),
		regexp.MustCompile(`(?i)\bvenue(?:\s+is)?[:\s]\s*([^,.!?\n]+)`),
		regexp.MustCompile(`(?i)\blocation[:\s]\s*([^,.!?\n]+)`),
		regexp.MustCompile(`(?i)\bplace[:\s]\s*([^,.!?\n]+)`),
		regexp.MustCompile(`(?i)\btakes place at\s+([^,.!?\n]+)`),
		// requires a capitalized venue so "at least"/"at night" don't match
		regexp.MustCompile(`\bat\s+(the\s+)?([A-Z][^,.!?\n]*)`),
	}

	monthNames = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec`

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(` + monthNames + `)\.?\s+\d{1,2}(st|nd|rd|th)?\b(,?\s*\d{4})?`),
		regexp.MustCompile(`(?i)\b\d{1,2}(st|nd|rd|th)?\s+(of\s+)?(` + monthNames + `)\b(,?\s*\d{4})?`),
	}

	// "on Saturday", "on the 14th" - the capture is the date phrase.
	onPhrase = regexp.MustCompile(`\bon\s+(the\s+)?([A-Z0-9][^,.!?\n]*)`)
)

// Question-type predicates over the lowercased question.
func isTimeQuestion(q string) bool {
	return strings.Contains(q, "time") || strings.HasPrefix(q, "how long")
}

func isContactQuestion(q string) bool {
	for _, w := range []string{"contact", "phone", "email", "organizer", "reach"} {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func isLocationQuestion(q string) bool {
	for _, w := range []string{"where", "location", "venue", "place", "address", "held", "happening"} {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func isDateQuestion(q string) bool {
	for _, w := range []string{"date", "when", "day"} {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

// ExtractFromHistory answers a follow-up question directly from prior
// assistant turns when generation is unavailable. It scans assistant turns
// newest first and tries the extraction rules in priority order; the first
// hit wins. ok is false when nothing extractable was found, so the caller
// can choose a generic fallback message.
func ExtractFromHistory(question string, history []models.ChatTurn) (answer string, ok bool) {
	if len(history) < 2 {
		return "", false
	}

	q := strings.ToLower(strings.TrimSpace(question))

	for i := len(history) - 1; i >= 0; i-- {
		turn := history[i]
		if turn.Role != models.RoleAssistant || strings.TrimSpace(turn.Content) == "" {
			continue
		}

		// "Tell me about it": the whole prior answer is the detail asked for.
		if tellAboutShape.MatchString(q) {
			return turn.Content, true
		}

		if isTimeQuestion(q) {
			if m := timeRange.FindString(turn.Content); m != "" {
				return "The event is scheduled " + m + ".", true
			}
			if m := singleTime.FindString(turn.Content); m != "" {
				return "The event is scheduled at " + m + ".", true
			}
		}

		if isContactQuestion(q) {
			if m := emailPattern.FindString(turn.Content); m != "" {
				return "You can contact them at " + m + ".", true
			}
			if m := phonePattern.FindString(turn.Content); m != "" && digitCount(m) >= 10 {
				return "You can contact them at " + strings.TrimSpace(m) + ".", true
			}
		}

		if isLocationQuestion(q) {
			if loc := extractLocation(turn.Content); loc != "" {
				return "The event is happening at " + loc + ".", true
			}
		}

		if isDateQuestion(q) {
			for _, pattern := range datePatterns {
				if m := pattern.FindString(turn.Content); m != "" {
					return "The event is on " + cleanFragment(m) + ".", true
				}
			}
			if groups := onPhrase.FindStringSubmatch(turn.Content); groups != nil {
				if phrase := cleanFragment(groups[2]); len(phrase) > 2 {
					return "The event is on " + phrase + ".", true
				}
			}
		}
	}

	return "", false
}

// extractLocation tries the ordered location shapes against one turn,
// rejecting stop-word and too-short captures.
func extractLocation(content string) string {
	for _, pattern := range locationPatterns {
		groups := pattern.FindStringSubmatch(content)
		if groups == nil {
			continue
		}
		candidate := cleanFragment(groups[len(groups)-1])
		if len(candidate) <= 2 {
			continue
		}
		if _, stop := stopWords[strings.ToLower(candidate)]; stop {
			continue
		}
		return candidate
	}
	return ""
}

// cleanFragment trims whitespace and trailing punctuation from a captured
// phrase.
func cleanFragment(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".,!?;: ")
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
