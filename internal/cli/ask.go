package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avramelo/eventscout-go/internal/models"
)

var askName string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question and print the answer",
	Long: `Ask a single question about the event collection and get a synthesized
answer. No conversation state is kept; use 'chat' for follow-ups.

Examples:
  eventscout ask "when is the night market?"
  eventscout ask "what's happening this weekend?" --name Dana`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askName, "name", "cli", "caller name used in the answer")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	engine := getEngine(ctx)

	resp := engine.GetChatResponse(ctx, args[0], nil, askName)
	fmt.Println(resp.Answer)

	if verbose && len(resp.Sources) > 0 {
		fmt.Printf("\nSources:\n")
		for i, ev := range resp.Sources {
			fmt.Printf("%d. %s (%s)\n", i+1, ev.Name(), models.EventID(ev))
		}
	}
	return nil
}
