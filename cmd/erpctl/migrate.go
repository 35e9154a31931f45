package main

import (
	"fmt"

	"github.com/bluestar-trading/erp_backend/pkg/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down]",
	Short: "Apply or roll back database migrations",
	Example: `  # Apply all pending migrations
  erpctl migrate up

  # Roll back every migration
  erpctl migrate down --source file://migrations`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(database.Up), string(database.Down)},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().String("source", "", "Migration source URL (default: MIGRATIONS_PATH)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dir := database.Direction(args[0])
	if dir != database.Up && dir != database.Down {
		return fmt.Errorf("unknown direction %q, expected up or down", args[0])
	}

	cfg, err := loadDatabaseConfig()
	if err != nil {
		return err
	}
	source, _ := cmd.Flags().GetString("source")
	if source == "" {
		source = cfg.MigrationsPath
	}

	log.Info().Str("direction", string(dir)).Str("source", source).Msg("Running migrations")
	changed, err := database.RunMigrations(cfg.DatabaseURL, source, dir)
	if err != nil {
		return err
	}
	if !changed {
		log.Info().Msg("No migrations to apply")
		return nil
	}
	log.Info().Msg("Migrations applied")
	return nil
}
