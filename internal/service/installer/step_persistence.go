package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/pixbot/internal/config"
	"github.com/sandevgo/pixbot/pkg/env"
)

type nextMsg struct{}

// SaveEnvStep renders the collected config structs to the runtime .env file.
type SaveEnvStep struct {
	err   error
	saved bool
	path  string
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	runtimePath := config.GetRuntimePath()
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		s.err = fmt.Errorf("failed to create runtime directory: %w", err)
		return s, nil
	}

	envPath := filepath.Join(runtimePath, ".env")
	if _, err := os.Stat(envPath); err == nil {
		s.err = fmt.Errorf(".env file already exists at %s", envPath)
		return s, nil
	}

	var content strings.Builder
	for _, cfg := range []any{state.App, state.HTTP, state.Telegram} {
		part, err := env.MarshalEnv(cfg)
		if err != nil {
			s.err = err
			return s, nil
		}
		content.WriteString(part)
	}

	if err := os.WriteFile(envPath, []byte(content.String()), 0600); err != nil {
		s.err = err
		return s, nil
	}

	s.path = envPath
	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return fmt.Sprintf("Configuration saved to %s\n", s.path)
	}
	return "Saving configuration...\n"
}
