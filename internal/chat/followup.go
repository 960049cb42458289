package chat

import (
	"regexp"
	"strings"

	"github.com/avramelo/eventscout-go/internal/models"
)

// historyWindow is how many trailing turns the classifier inspects.
const historyWindow = 4

// detailWords signal that a short question asks for a detail of something
// already discussed.
var detailWords = map[string]struct{}{
	"date": {}, "time": {}, "when": {}, "where": {},
	"location": {}, "venue": {}, "place": {}, "address": {},
	"contact": {}, "phone": {}, "email": {}, "organizer": {},
	"price": {}, "cost": {}, "fee": {}, "entry": {}, "website": {},
	"it": {}, "that": {}, "this": {}, "there": {},
}

// eventNouns mark a recent turn as being about a concrete event.
var eventNouns = []string{
	"event", "festival", "concert", "show", "exhibition",
	"conference", "venue", "meetup", "fair", "workshop",
}

// aboutShape matches "asking about X" question forms.
var aboutShape = regexp.MustCompile(`^(tell|give|show)\b.*\b(more|details|info|about)\b`)

// followUpPatterns are the fixed question shapes that always indicate a
// follow-up, matched against the lowercased trimmed question.
var followUpPatterns = []*regexp.Regexp{
	// leading interrogative + detail noun
	regexp.MustCompile(`^(what|which|when|where|who)('s|s| is| are| was| were)?\s+(the\s+)?(date|time|location|venue|place|price|cost|fee|contact|organizer|website)\b`),
	// leading "the <detail noun>"
	regexp.MustCompile(`^the\s+(date|time|location|venue|place|price|cost|fee|contact|organizer|website)\b`),
	// leading possessive pronoun
	regexp.MustCompile(`^(its|their|his|her)\s+\w+`),
	// bare leading detail noun
	regexp.MustCompile(`^(date|time|location|venue|place|price|cost|fee|contact|organizer|website)\b`),
	// quantity questions
	regexp.MustCompile(`^how\s+(much|long|many|far)\b`),
	// trailing contact request
	regexp.MustCompile(`(contact|phone)(\s+number)?\s*\??$`),
	// leading temporal interrogative
	regexp.MustCompile(`^(when|what\s+time|what\s+day|what\s+date)\b`),
	// tell/give/show ... more/details/about
	regexp.MustCompile(`\b(tell|give|show)\b.*\b(more|details|about)\b`),
}

// followUpCheck is one named classification rule. The classifier is the OR
// of all checks, evaluated in order.
type followUpCheck struct {
	name  string
	match func(question string, history []models.ChatTurn) bool
}

var followUpChecks = []followUpCheck{
	{name: "short_detail", match: shortDetailQuestion},
	{name: "event_reference", match: eventReferenceQuestion},
	{name: "fixed_pattern", match: fixedPatternQuestion},
}

// IsFollowUp decides whether a question continues the prior conversation
// (referencing an already-discussed event) rather than starting a fresh
// search. Follow-ups suppress retrieval for that turn.
func IsFollowUp(question string, history []models.ChatTurn) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return false
	}
	for _, check := range followUpChecks {
		if check.match(q, history) {
			return true
		}
	}
	return false
}

// shortDetailQuestion: at most 3 tokens, non-empty history, and at least one
// detail word ("which date?", "what time?", "its price?").
func shortDetailQuestion(q string, history []models.ChatTurn) bool {
	if len(history) == 0 {
		return false
	}
	tokens := strings.Fields(q)
	if len(tokens) > 3 {
		return false
	}
	for _, tok := range tokens {
		tok = strings.Trim(tok, "?!.,'\"")
		if _, ok := detailWords[tok]; ok {
			return true
		}
	}
	return false
}

// eventReferenceQuestion: recent turns mention an event noun and the
// question has an "asking about X" shape.
func eventReferenceQuestion(q string, history []models.ChatTurn) bool {
	if len(history) == 0 {
		return false
	}

	mentionsEvent := false
	for _, turn := range models.TailTurns(history, historyWindow) {
		content := strings.ToLower(turn.Content)
		for _, noun := range eventNouns {
			if strings.Contains(content, noun) {
				mentionsEvent = true
				break
			}
		}
		if mentionsEvent {
			break
		}
	}
	if !mentionsEvent {
		return false
	}

	return strings.Contains(q, "tell me more") ||
		strings.Contains(q, "about the") ||
		strings.Contains(q, "about this") ||
		strings.Contains(q, "about that") ||
		aboutShape.MatchString(q)
}

// fixedPatternQuestion: the question matches one of the fixed follow-up
// shapes regardless of history content.
func fixedPatternQuestion(q string, _ []models.ChatTurn) bool {
	for _, pattern := range followUpPatterns {
		if pattern.MatchString(q) {
			return true
		}
	}
	return false
}
