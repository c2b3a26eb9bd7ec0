package cmd

import (
	"fmt"

	"beatbox/db"
	"beatbox/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and media directories",
	Long:  `Connect to POSTGRES_DSN, create the beats, vocals and tracks tables if they do not exist yet and prepare music/beats, music/prods and music/vocals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		_, gdb, err := openCatalog(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
