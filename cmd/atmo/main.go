package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atmohq/atmo-backend/internal/app"
	"github.com/atmohq/atmo-backend/internal/platform/envutil"
	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "atmo",
	Short:         "ATMO chat, entity extraction and document generation backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("ATMO_CONFIG"), "YAML config file (env ATMO_CONFIG)")
	rootCmd.AddCommand(serveCmd, migrateCmd, classifyCmd, renderCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadRuntime() (app.Config, *logger.Logger, error) {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return cfg, nil, err
	}
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
