package main

import (
	"fmt"
	"os"

	"calligraphy-cms/internal/infra/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "calligraphy",
	Short: "Calligraphy association CMS backend",
	Long: `calligraphy serves the association's REST API: artists, gallery,
events and exhibitions, documents, members and dues.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, calendarCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
