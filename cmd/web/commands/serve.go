package commands

import (
	"os"
	"os/signal"
	"syscall"

	"skyjobs/internal/app"
	"skyjobs/internal/logger"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Flush()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to start application", "error", err)
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				logger.Error("Failed to close application", "error", err)
			}
		}()

		return a.Run(ctx)
	},
}
