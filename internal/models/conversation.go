package models

// Chat roles as supplied by callers in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is a single turn of caller-supplied conversation history.
// History is never persisted; callers resend it on every request.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the result of a chat or standard-search operation.
type ChatResponse struct {
	Answer  string  `json:"answer"`
	Sources []Event `json:"sources"`
}

// TailTurns returns the most recent n turns of history.
func TailTurns(history []ChatTurn, n int) []ChatTurn {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
