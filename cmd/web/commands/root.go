package commands

import (
	"fmt"

	"skyjobs/internal/config"
	"skyjobs/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "skyjobs",
	Short: "SkyJobs - backend for the drone jobs marketplace",
	Long: `SkyJobs serves the HTTP API for clients who post drone jobs and
pilots who upload imagery and certification documents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute запускает корневую команду
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo задает строку версии для --version
func SetVersionInfo(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: $CONFIG_PATH or config/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig читает .env (если есть), конфигурацию и инициализирует логгер
func loadConfig() (*config.Config, error) {
	// .env необязателен, переменные могут прийти из окружения
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.Server.Env, cfg.Sentry.DSN)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	return cfg, nil
}
