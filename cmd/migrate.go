package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Initialize tables and run database migrations",
	Long:  `This job applies the embedded goose migrations to the configured database.`,
	Run: func(cmd *cobra.Command, args []string) {
		commonSetUp()
		defer groupDB.Close()

		log.Info().Msgf("Running migrations...")
		if err := groupDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}

		log.Info().Msg("Migrations complete")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
