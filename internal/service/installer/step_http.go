package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// HTTPAddrStep collects the HTTP listen address. Skipped when the HTTP
// front-end is disabled.
type HTTPAddrStep struct {
	input textinput.Model
}

func NewHTTPAddrStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40
	ti.Placeholder = ":8420"

	return &HTTPAddrStep{
		input: ti,
	}
}

func (s *HTTPAddrStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *HTTPAddrStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.App.EnableHTTP {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			state.HTTP.Addr = s.input.Value()
			return nil, nil
		}
	}
	return s, cmd
}

func (s *HTTPAddrStep) View(state *InstallState) string {
	return "HTTP listen address (empty keeps the default):\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}
