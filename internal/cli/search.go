package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search events without LLM synthesis",
	Long: `Search the event collection with a plain keyword phrase match.

Returns matching events without embedding or generation; works with no
LLM configured. Use 'ask' for synthesized answers.

Examples:
  eventscout search "jazz festival"
  eventscout search "town hall"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	engine := getEngine(ctx)

	resp, err := engine.PerformStandardSearch(ctx, args[0])
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	fmt.Println(resp.Answer)
	return nil
}
