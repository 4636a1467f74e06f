package main

import (
	"fmt"

	"restaurant-webhooks/internal/client"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("migrate")
			if err != nil {
				return err
			}

			db, err := client.InitDatabase(cfg.Database)
			if err != nil {
				return err
			}
			if err := client.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			log.Info().Str("driver", cfg.Database.Driver).Msg("database schema up to date")
			return nil
		},
	}
}
