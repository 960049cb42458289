// Package cli provides the command-line interface for eventscout.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/avramelo/eventscout-go/internal/chat"
	"github.com/avramelo/eventscout-go/internal/config"
	"github.com/avramelo/eventscout-go/internal/db"
	"github.com/avramelo/eventscout-go/internal/llm"
	"github.com/avramelo/eventscout-go/internal/metrics"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, logger and db client
	cfg       config.Config
	logger    *slog.Logger
	closeLogs func() error
	dbClient  *db.Client

	// Lazy-initialized LLM components
	embedder *llm.Embedder
	model    *llm.Model

	collector = metrics.NewCollector()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "eventscout",
	Short: "Conversational search over an event collection",
	Long: `EventScout answers natural-language questions about a collection of
event records - concerts, markets, meetups, whatever you feed it.

It combines semantic vector search with keyword retrieval, ranks candidates
by record quality, and holds a conversation: follow-up questions ("what
time?", "where is it?") resolve against what was already said.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip DB connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		logger, closeLogs = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		ctx := context.Background()
		dbClient, err = db.NewClient(ctx, db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		if err := dbClient.InitSchema(ctx, cfg.EmbedDimension); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
		if closeLogs != nil {
			_ = closeLogs()
		}
	},
}

// getEngine creates the chat engine. LLM components are initialized
// best-effort: if the embedder or model cannot be built, the engine is
// still returned and degrades to keyword-only, non-generative answers.
func getEngine(ctx context.Context) *chat.Engine {
	if embedder == nil {
		var err error
		embedder, err = llm.NewEmbedder(cfg)
		if err != nil {
			logger.Warn("embedder unavailable, running keyword-only", "error", err)
		}
	}
	if model == nil {
		var err error
		model, err = llm.NewModel(ctx, cfg)
		if err != nil {
			logger.Warn("generation model unavailable, running non-generative", "error", err)
		}
	}

	opts := chat.Options{
		Store:       dbClient,
		ResultLimit: cfg.ResultLimit,
		Logger:      logger,
		Metrics:     collector,
	}
	// Interface-typed fields must stay nil when the concrete value is nil.
	if embedder != nil {
		opts.Embedder = embedder
	}
	if model != nil {
		opts.Model = model
	}
	return chat.NewEngine(opts)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(serveCmd)
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
