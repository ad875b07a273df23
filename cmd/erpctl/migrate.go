package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/erp-core/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Aplica o revierte las migraciones embebidas",
	Example:   "  erpctl migrate up\n  erpctl migrate down",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadEnv()
		if err != nil {
			return err
		}
		if err := postgres.Migrate(cfg.DB.ConnectionString(), args[0]); err != nil {
			return err
		}
		log.Info().Str("direction", args[0]).Msg("migraciones aplicadas")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
