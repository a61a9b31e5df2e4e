package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/pixbot/internal/transport/cli"
	"github.com/sandevgo/pixbot/pkg/srv"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the album from the terminal",
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

		return cli.Run(ctx, c.agent)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
