// Package command routes slash commands typed into interactive transports.
package command

import "context"

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
