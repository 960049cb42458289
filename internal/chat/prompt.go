package chat

import (
	"fmt"
	"strings"

	"github.com/avramelo/eventscout-go/internal/models"
)

const (
	// fullTextBudget caps how much of a record's extracted text is rendered
	// into the generation context.
	fullTextBudget = 400

	// promptHistoryWindow is how many trailing conversation turns are
	// appended to the generation context.
	promptHistoryWindow = 6
)

const systemPreamble = `You are EventScout, a friendly assistant that answers questions about local events.
Answer using ONLY the event records and conversation below. If they don't contain the answer, say so.
Be concise. Mention event names, dates, times and venues exactly as given.`

// BuildGenerationContext renders ranked event records, a bounded window of
// conversation history and an optional caller name into the system
// instruction block for the generation call.
func BuildGenerationContext(events []models.Event, history []models.ChatTurn, userName string) string {
	var b strings.Builder
	b.WriteString(systemPreamble)

	if len(events) > 0 {
		b.WriteString("\n\nEvent records:\n")
		for i, ev := range events {
			b.WriteString(renderEvent(i+1, ev))
		}
	}

	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, turn := range models.TailTurns(history, promptHistoryWindow) {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
	}

	if userName != "" {
		fmt.Fprintf(&b, "\nThe user's name is %s. Address them by name where natural.\n", userName)
	}

	return b.String()
}

// BuildHistoryContext is the follow-up variant: conversation history only,
// no event records.
func BuildHistoryContext(history []models.ChatTurn, userName string) string {
	return BuildGenerationContext(nil, history, userName)
}

// renderEvent formats one record as a numbered block of known fields plus a
// truncated text excerpt.
func renderEvent(n int, ev models.Event) string {
	var b strings.Builder
	name := ev.Name()
	if name == "" {
		name = "(unnamed event)"
	}
	fmt.Fprintf(&b, "%d. %s\n", n, name)

	appendField(&b, "Date", ev.Details.Date)
	appendField(&b, "Time", ev.Details.Time)
	appendField(&b, "Location", ev.Details.Location)
	appendField(&b, "Organizer", ev.Details.Organizer)
	appendField(&b, "Entry", ev.Details.EntryType)
	appendField(&b, "Website", ev.Details.Website)

	if text := strings.TrimSpace(ev.FullText); text != "" {
		if len(text) > fullTextBudget {
			text = text[:fullTextBudget] + "..."
		}
		fmt.Fprintf(&b, "   Text: %s\n", text)
	}
	return b.String()
}

func appendField(b *strings.Builder, label, value string) {
	if models.HasField(value) {
		fmt.Fprintf(b, "   %s: %s\n", label, strings.TrimSpace(value))
	}
}
