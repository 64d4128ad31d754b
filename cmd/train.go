package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/encoder"
	"github.com/kozaktomas/face-tagger/internal/engine"
)

var trainCmd = &cobra.Command{
	Use:   "train [dir]",
	Short: "Train the recognition model from a directory of labeled images",
	Long: `Train builds the recognition model from a directory whose subdirectories
are named after people and hold example photos of them:

  training/
    alice/  img1.jpg img2.jpg
    bob/    photo.png

Only the first detected face of each image is used. The fitted model
replaces any previous model file.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	enc, err := encoder.New(cfg.Encoder)
	if err != nil {
		return fmt.Errorf("could not create encoder: %w", err)
	}
	defer enc.Close()

	eng := engine.New(enc, cfg.Model.Path)
	eng.Progress = true

	result, err := eng.Train(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if result.Samples > 0 {
		fmt.Printf("Model trained with %d people: %s\n", len(result.People), strings.Join(result.People, ", "))
		if result.Skipped > 0 {
			fmt.Printf("Skipped %d image(s) with no detectable face\n", result.Skipped)
		}
		if result.Failed > 0 {
			fmt.Printf("Failed to process %d image(s)\n", result.Failed)
		}
		fmt.Printf("Model saved to %s (took %s)\n", cfg.Model.Path, formatDuration(result.Duration))
	}
	fmt.Printf("Training complete! Processed %d face(s)\n", result.Samples)
	return nil
}
