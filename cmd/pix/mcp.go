package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/pixbot/internal/transport/mcp"
	"github.com/sandevgo/pixbot/pkg/srv"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the action catalog as MCP tools on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLoggerStderr(ctx)
		defer flushLog()

		c := newApp(ctx)
		defer func() {
			for _, s := range c.services {
				_ = s.Shutdown(ctx)
			}
		}()
		srv.StartServices(ctx, c.services)

		return mcp.NewServer(c.agent).Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
