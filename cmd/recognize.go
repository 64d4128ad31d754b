package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/constants"
	"github.com/kozaktomas/face-tagger/internal/encoder"
	"github.com/kozaktomas/face-tagger/internal/engine"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize [image]",
	Short: "Recognize people in a photo",
	Long: `Recognize prints a JSON array with the names of every recognized person
in the photo. A face counts as recognized when its embedding sits within
the tolerance of a trained sample; unknown faces are left out.

Without a trained model the result is an empty array and a notice on
stderr, not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().Float64("tolerance", constants.DefaultTolerance, "Maximum embedding distance for a match (lower is stricter)")
	recognizeCmd.Flags().String("annotate", "", "Write a copy of the image with matched faces boxed to this path")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	tolerance := resolveTolerance(cmd, cfg)

	enc, err := encoder.New(cfg.Encoder)
	if err != nil {
		return fmt.Errorf("could not create encoder: %w", err)
	}
	defer enc.Close()

	eng := engine.New(enc, cfg.Model.Path)

	matches, err := eng.RecognizeFile(cmd.Context(), args[0], tolerance)
	if err != nil {
		// A broken input still reports an empty result; the cause goes
		// to stderr and the batch contract stays intact.
		fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", args[0], err)
		matches = []engine.Match{}
	} else if out := mustGetString(cmd, "annotate"); out != "" {
		if err := writeAnnotated(eng, args[0], matches, out); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing annotated image: %v\n", err)
		}
	}

	return outputJSON(engine.Names(matches))
}

// writeAnnotated writes a copy of the image with the matched face boxes drawn in.
func writeAnnotated(eng *engine.Engine, imagePath string, matches []engine.Match, outPath string) error {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return err
	}
	annotated, err := eng.AnnotateMatches(data, matches)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, annotated, 0o644)
}
