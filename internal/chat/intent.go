package chat

import (
	"regexp"
	"strings"
)

// Intent enumerates the fixed intents that bypass retrieval and generation.
type Intent int

const (
	IntentNone Intent = iota
	IntentGreeting
	IntentListEvents
	IntentListLatest
	IntentHelp
)

// String returns the intent name for logging.
func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return "greeting"
	case IntentListEvents:
		return "list_events"
	case IntentListLatest:
		return "list_latest"
	case IntentHelp:
		return "help"
	default:
		return "none"
	}
}

var (
	greetingShape = regexp.MustCompile(`^(hi|hello|hey|howdy|greetings|good (morning|afternoon|evening))[\s!.,]*$`)
	listShape     = regexp.MustCompile(`^(list|show)( me)?( all| the| your)? events[\s?!.]*$`)
	allShape      = regexp.MustCompile(`^all( the)? events[\s?!.]*$`)
	latestShape   = regexp.MustCompile(`\b(latest|recent|new(est)?)\b.*\bevents\b|\bevents\b.*\b(latest|recently)\b`)
	helpShape     = regexp.MustCompile(`^help[\s?!.]*$|what can you do|how do(es)? (you|this) work`)
)

// intentRule pairs an intent with its matcher; rules are evaluated in order
// and the first match wins.
type intentRule struct {
	intent Intent
	match  func(q string) bool
}

var intentRules = []intentRule{
	{IntentGreeting, func(q string) bool { return greetingShape.MatchString(q) }},
	{IntentHelp, func(q string) bool { return helpShape.MatchString(q) }},
	// latest before the generic list shapes so "show latest events" is
	// recognized as the recency variant
	{IntentListLatest, func(q string) bool {
		return latestShape.MatchString(q) || strings.Contains(q, "latest events")
	}},
	{IntentListEvents, func(q string) bool {
		return listShape.MatchString(q) || allShape.MatchString(q) || strings.Contains(q, "all events") || strings.Contains(q, "every event")
	}},
}

// DetectIntent matches the lowercased question against the fixed intent
// rules. Returns IntentNone when no canned path applies.
func DetectIntent(question string) Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return IntentNone
	}
	for _, rule := range intentRules {
		if rule.match(q) {
			return rule.intent
		}
	}
	return IntentNone
}
