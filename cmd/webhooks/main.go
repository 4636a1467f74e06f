package main

import (
	"fmt"
	"os"

	"restaurant-webhooks/internal/config"
	"restaurant-webhooks/internal/logging"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "webhooks",
		Short:         "Payment and telephony webhook service for restaurant ordering",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads .env when present, parses the environment and sets up logging.
func loadConfig(component string) (*config.Config, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Format:    cfg.Log.Format,
		Level:     cfg.Log.Level,
		Component: component,
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}
	return cfg, nil
}
