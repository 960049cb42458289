package cli

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/avramelo/eventscout-go/internal/models"
)

// chatEngine is the slice of the engine the UI needs.
type chatEngine interface {
	GetChatResponse(ctx context.Context, question string, history []models.ChatTurn, identity string) models.ChatResponse
}

// Theme holds the color scheme for the chat display.
type Theme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Hint      lipgloss.Color
	Error     lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	User:      lipgloss.Color("#5FAFD7"), // light blue
	Assistant: lipgloss.Color("#00D787"), // green
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
	Error:     lipgloss.Color("#FF005F"), // red
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// answerMsg carries the engine's reply back into the update loop.
type answerMsg struct {
	question string
	resp     models.ChatResponse
}

// chatModel is the bubbletea model for the interactive conversation.
type chatModel struct {
	ctx      context.Context
	engine   chatEngine
	identity string

	input      textinput.Model
	spin       spinner.Model
	theme      Theme
	history    []models.ChatTurn
	transcript []string
	waiting    bool
	quitting   bool
}

func newChatModel(ctx context.Context, engine chatEngine, identity string) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about an event..."
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return chatModel{
		ctx:      ctx,
		engine:   engine,
		identity: identity,
		input:    ti,
		spin:     sp,
		theme:    defaultTheme,
	}
}

// Init returns the initial command.
func (m chatModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.waiting {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.transcript = append(m.transcript, m.theme.userStyle().Render("you: ")+question)
			m.waiting = true
			return m, tea.Batch(m.ask(question), m.spin.Tick)
		}

	case answerMsg:
		m.waiting = false
		m.transcript = append(m.transcript, m.theme.assistantStyle().Render("eventscout: ")+msg.resp.Answer, "")
		m.history = append(m.history,
			models.ChatTurn{Role: models.RoleUser, Content: msg.question},
			models.ChatTurn{Role: models.RoleAssistant, Content: msg.resp.Answer},
		)
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask calls the engine off the update loop.
func (m chatModel) ask(question string) tea.Cmd {
	history := m.history
	return func() tea.Msg {
		resp := m.engine.GetChatResponse(m.ctx, question, history, m.identity)
		return answerMsg{question: question, resp: resp}
	}
}

// View renders the conversation.
func (m chatModel) View() tea.View {
	var b strings.Builder
	for _, line := range m.transcript {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.waiting {
		fmt.Fprintf(&b, "%s thinking...\n", m.spin.View())
	} else if !m.quitting {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.theme.hintStyle().Render("enter to send, esc to quit"))
		b.WriteString("\n")
	}
	return tea.NewView(b.String())
}
