package cmd

import (
	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect the trained model",
	Long:  `Commands for inspecting the trained model file.`,
}

func init() {
	rootCmd.AddCommand(modelCmd)
}
