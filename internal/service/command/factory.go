package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/pixbot/internal/service/agent"
)

// NewDefaultCommands builds the command set every interactive transport gets.
func NewDefaultCommands(a *agent.Agent) []Command {
	return []Command{
		&statusCommand{agent: a},
		&actionsCommand{agent: a},
		&historyCommand{agent: a},
	}
}

type statusCommand struct {
	agent *agent.Agent
}

func (c *statusCommand) Name() string        { return "status" }
func (c *statusCommand) Description() string { return "show backend readiness and counts" }

func (c *statusCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	status := c.agent.Status(ctx)

	var sb strings.Builder
	sb.WriteString("System status:\n")
	sb.WriteString(fmt.Sprintf("  search:   %s\n", readiness(status.SearchService)))
	sb.WriteString(fmt.Sprintf("  storage:  %s\n", readiness(status.StorageService)))
	sb.WriteString(fmt.Sprintf("  vectors:  %s\n", readiness(status.VectorService)))
	sb.WriteString(fmt.Sprintf("  embedder: %s\n", readiness(status.EmbeddingService)))
	sb.WriteString(fmt.Sprintf("  images: %d, vectors: %d\n", status.TotalImages, status.TotalVectors))
	return sb.String(), nil
}

type actionsCommand struct {
	agent *agent.Agent
}

func (c *actionsCommand) Name() string        { return "actions" }
func (c *actionsCommand) Description() string { return "list the available backend actions" }

func (c *actionsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	var sb strings.Builder
	sb.WriteString("Actions:\n")
	for _, def := range c.agent.Actions() {
		sb.WriteString(fmt.Sprintf("  %s - %s\n", def.Action, def.Description))
	}
	return sb.String(), nil
}

type historyCommand struct {
	agent *agent.Agent
}

func (c *historyCommand) Name() string        { return "history" }
func (c *historyCommand) Description() string { return "show the current session's event history" }

func (c *historyCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if sessionID == "" {
		return "No session yet, say something first.", nil
	}

	snap, err := c.agent.GetSession(sessionID)
	if err != nil {
		return "", err
	}
	if len(snap.History) == 0 {
		return "Session history is empty.", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session %s:\n", snap.ID))
	for _, ev := range snap.History {
		sb.WriteString(fmt.Sprintf("  %s %s", ev.Timestamp.Format("15:04:05"), ev.Type))
		if q, ok := ev.Fields["original"].(string); ok {
			sb.WriteString(fmt.Sprintf(" %q", q))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func readiness(ok bool) string {
	if ok {
		return "ready"
	}
	return "not ready"
}
