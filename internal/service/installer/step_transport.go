package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// TransportStep toggles which front-ends get enabled.
type TransportStep struct {
	choices []string
	enabled []bool
	cursor  int
}

func NewTransportStep() Step {
	return &TransportStep{
		choices: []string{"HTTP API", "Telegram bot"},
		enabled: []bool{true, false},
	}
}

func (s *TransportStep) Init() tea.Cmd {
	return nil
}

func (s *TransportStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case " ":
			s.enabled[s.cursor] = !s.enabled[s.cursor]
		case "enter":
			state.App.EnableHTTP = s.enabled[0]
			state.App.EnableTelegram = s.enabled[1]
			return nil, nil
		}
	}
	return s, nil
}

func (s *TransportStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select the front-ends to enable (space to toggle, enter to confirm):\n\n")
	for i, choice := range s.choices {
		mark := "[ ]"
		if s.enabled[i] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, choice)
		if s.cursor == i {
			b.WriteString(selStyle.Render("❯ "+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
