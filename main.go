package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/camden-git/yearbookbackend/config"
	"github.com/camden-git/yearbookbackend/logging"
)

var rootCmd = &cobra.Command{
	Use:           "yearbookbackend",
	Short:         "Yearbook comment wall API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads .env and the environment config, then builds the logger.
func bootstrap() (config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return config.Config{}, nil, err
	}
	zap.ReplaceGlobals(log)

	if envErr != nil {
		log.Debug("no .env file loaded", zap.Error(envErr))
	}
	return cfg, log, nil
}
