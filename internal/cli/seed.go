package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avramelo/eventscout-go/internal/llm"
	"github.com/avramelo/eventscout-go/internal/models"
)

var seedWipe bool

// seedRecord is one event in a seed file. Missing detail fields default to
// the placeholder so quality scoring sees them as absent.
type seedRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Organizer string   `json:"organizer"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Location  string   `json:"location"`
	EntryType string   `json:"entryType"`
	Website   string   `json:"website"`
	FullText  string   `json:"fullText"`
	RawOCR    []string `json:"rawOcr"`
}

var seedCmd = &cobra.Command{
	Use:   "seed <file.json>",
	Short: "Load events from a JSON file",
	Long: `Load events from a JSON file into the collection.

The file holds an array of event objects. Each event is embedded (when an
embedder is configured) and upserted by ID, so reseeding the same file is
safe.

Examples:
  eventscout seed events.json
  eventscout seed events.json --wipe`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVar(&seedWipe, "wipe", false, "delete all stored events first")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var records []seedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("Seed file contains no events.")
		return nil
	}

	if seedWipe {
		if err := dbClient.WipeData(ctx); err != nil {
			return fmt.Errorf("wipe events: %w", err)
		}
	}

	// Best-effort embedder: without one the events are still stored and
	// remain reachable through keyword search.
	emb, err := llm.NewEmbedder(cfg)
	if err != nil {
		logger.Warn("embedder unavailable, seeding without embeddings", "error", err)
		emb = nil
	}

	stored, embedded := 0, 0
	for i, rec := range records {
		if rec.ID == "" {
			exitWithError("event %d has no id", i)
		}

		details := models.EventDetails{
			Name:      orPlaceholder(rec.Name),
			Organizer: orPlaceholder(rec.Organizer),
			Date:      orPlaceholder(rec.Date),
			Time:      orPlaceholder(rec.Time),
			Location:  orPlaceholder(rec.Location),
			EntryType: orPlaceholder(rec.EntryType),
			Website:   orPlaceholder(rec.Website),
		}

		var embedding []float32
		if emb != nil && rec.FullText != "" {
			embedding, err = emb.Embed(ctx, rec.FullText)
			if err != nil {
				logger.Warn("embedding failed, storing without vector", "id", rec.ID, "error", err)
				embedding = nil
			} else {
				embedded++
			}
		}

		if _, err := dbClient.QueryUpsertEvent(ctx, rec.ID, details, rec.FullText, rec.RawOCR, embedding); err != nil {
			return fmt.Errorf("store event %q: %w", rec.ID, err)
		}
		stored++
	}

	fmt.Printf("Stored %d events (%d with embeddings).\n", stored, embedded)
	return nil
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.Placeholder
	}
	return s
}
