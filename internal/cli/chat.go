package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avramelo/eventscout-go/internal/models"
)

var chatIdentity string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation about the event collection.

Ask anything in natural language; follow-up questions like "what time?" or
"where is it?" refer back to the event just discussed.

Examples:
  eventscout chat
  eventscout chat --name Dana`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatIdentity, "name", "", "skip the name question")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	engine := getEngine(ctx)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runChatPlain(ctx, engine)
	}

	p := tea.NewProgram(newChatModel(ctx, engine, chatIdentity))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat ui: %w", err)
	}
	return nil
}

// runChatPlain is the line-oriented fallback for piped input.
func runChatPlain(ctx context.Context, engine chatEngine) error {
	var history []models.ChatTurn
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "/quit" || question == "/exit" {
			break
		}

		resp := engine.GetChatResponse(ctx, question, history, chatIdentity)
		fmt.Println(resp.Answer)
		fmt.Println()

		history = append(history,
			models.ChatTurn{Role: models.RoleUser, Content: question},
			models.ChatTurn{Role: models.RoleAssistant, Content: resp.Answer},
		)
	}
	return scanner.Err()
}
