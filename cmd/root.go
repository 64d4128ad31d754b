package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/config"
)

var modelFlag string

var rootCmd = &cobra.Command{
	Use:   "face-tagger",
	Short: "A CLI tool for tagging people in photos using facial recognition",
	Long: `Face Tagger trains a k-nearest-neighbor classifier over face embeddings
and uses it to recognize people in new photos. Training data is a directory
whose subdirectories are person names holding example images of them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Path to the model file (overrides MODEL_PATH)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// loadConfig loads the configuration and applies the persistent --model
// override on top of it.
func loadConfig() *config.Config {
	cfg := config.Load()
	if modelFlag != "" {
		cfg.Model.Path = modelFlag
	}
	return cfg
}
