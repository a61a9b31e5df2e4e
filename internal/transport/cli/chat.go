// Package cli is the interactive terminal chat front-end.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/pixbot/internal/core"
	"github.com/sandevgo/pixbot/internal/service/agent"
	"github.com/sandevgo/pixbot/internal/service/command"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type replyMsg struct {
	text      string
	sessionID string
	err       error
}

type chatModel struct {
	ctx       context.Context
	agent     *agent.Agent
	router    *command.Router
	input     textinput.Model
	lines     []string
	sessionID string
	waiting   bool
	quitting  bool
}

func newChatModel(ctx context.Context, a *agent.Agent, router *command.Router) chatModel {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 72
	ti.Placeholder = "describe the photos you're after, or /help"

	return chatModel{
		ctx:    ctx,
		agent:  a,
		router: router,
		input:  ti,
		lines: []string{
			botStyle.Render(fmt.Sprintf("%s %s", core.PixName, core.PixVersion)),
			dimStyle.Render("Type a request, /help for commands, ctrl+c to quit."),
		},
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.waiting {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.Reset()
			m.lines = append(m.lines, promptStyle.Render("you> ")+line)

			if line == "/new" {
				m.sessionID = m.agent.CreateSession("cli")
				m.lines = append(m.lines, botStyle.Render("pix> ")+"Started a fresh conversation.")
				return m, nil
			}
			if out, handled := m.router.Execute(m.ctx, m.sessionID, line); handled {
				m.lines = append(m.lines, botStyle.Render("pix> ")+strings.TrimRight(out, "\n"))
				return m, nil
			}

			m.waiting = true
			return m, m.chatTurn(line)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, errStyle.Render("error: "+msg.err.Error()))
		} else {
			m.sessionID = msg.sessionID
			m.lines = append(m.lines, botStyle.Render("pix> ")+msg.text)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	if m.quitting {
		return "bye\n"
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(m.lines, "\n"))
	sb.WriteString("\n\n")
	if m.waiting {
		sb.WriteString(dimStyle.Render("thinking..."))
	} else {
		sb.WriteString(m.input.View())
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m chatModel) chatTurn(query string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.agent.Chat(m.ctx, agent.ChatRequest{
			Query:     query,
			SessionID: m.sessionID,
			UserID:    "cli",
		})
		if err != nil {
			return replyMsg{err: err}
		}
		return replyMsg{text: renderResponse(resp), sessionID: resp.SessionID}
	}
}

// renderResponse turns one chat turn into terminal text: the answer, then
// matches, then suggestions.
func renderResponse(resp agent.ChatResponse) string {
	var sb strings.Builder
	sb.WriteString(resp.Answer)

	if images, ok := resp.Results["images"].([]core.Match); ok && len(images) > 0 {
		for i, match := range images {
			name := match.Filename
			if name == "" {
				name = match.ImageID
			}
			sb.WriteString(fmt.Sprintf("\n  %d. %s (%.2f)", i+1, name, match.Score))
			if match.Description != "" {
				sb.WriteString("  " + dimStyle.Render(match.Description))
			}
		}
	}

	for _, s := range resp.Suggestions {
		sb.WriteString("\n" + dimStyle.Render("  * "+s))
	}
	return sb.String()
}

// Run starts the chat loop and blocks until the user quits.
func Run(ctx context.Context, a *agent.Agent) error {
	router := command.New(command.NewDefaultCommands(a))
	p := tea.NewProgram(newChatModel(ctx, a, router))
	_, err := p.Run()
	return err
}
