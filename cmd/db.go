package cmd

import (
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Share training samples through a PostgreSQL database",
	Long: `Commands for keeping a training corpus in a shared PostgreSQL database,
so several machines can push their samples and rebuild the same model.
Requires DATABASE_URL.`,
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
