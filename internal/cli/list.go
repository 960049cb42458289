package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avramelo/eventscout-go/internal/models"
)

var (
	listLimit  int
	listLatest bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored events",
	Long: `List events in the collection.

Examples:
  eventscout list
  eventscout list --latest -n 5`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "max results")
	listCmd.Flags().BoolVar(&listLatest, "latest", false, "most recently added first")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	events, err := dbClient.ListEvents(ctx, listLimit, listLatest)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No events stored yet. Use 'eventscout seed' to load some.")
		return nil
	}

	fmt.Printf("Found %d events:\n\n", len(events))
	for i, ev := range events {
		name := ev.Name()
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%d. %s\n", i+1, name)
		var details []string
		if models.HasField(ev.Details.Date) {
			details = append(details, ev.Details.Date)
		}
		if models.HasField(ev.Details.Time) {
			details = append(details, ev.Details.Time)
		}
		if models.HasField(ev.Details.Location) {
			details = append(details, ev.Details.Location)
		}
		if len(details) > 0 {
			fmt.Printf("   %s\n", strings.Join(details, " | "))
		}
		if verbose {
			fmt.Printf("   id=%s organizer=%q website=%q\n",
				models.EventID(ev), ev.Details.Organizer, ev.Details.Website)
		}
	}
	return nil
}
