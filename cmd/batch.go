package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/constants"
	"github.com/kozaktomas/face-tagger/internal/encoder"
	"github.com/kozaktomas/face-tagger/internal/engine"
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Recognize people in every photo of a directory",
	Long: `Batch runs recognition over every image file directly inside the
directory (not recursing) and prints a table of the people found per file.
A failure on one file is reported in its row and never stops the rest.

With --json the output is a {"filename": ["names"]} mapping where failed
files carry an {"error": "..."} object instead of a name list.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Float64("tolerance", constants.DefaultTolerance, "Maximum embedding distance for a match (lower is stricter)")
	batchCmd.Flags().Bool("json", false, "Output a filename to names mapping as JSON")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	tolerance := resolveTolerance(cmd, cfg)

	enc, err := encoder.New(cfg.Encoder)
	if err != nil {
		return fmt.Errorf("could not create encoder: %w", err)
	}
	defer enc.Close()

	eng := engine.New(enc, cfg.Model.Path)

	results, err := eng.ProcessDirectory(cmd.Context(), args[0], tolerance)
	if err != nil {
		return err
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(batchMapping(results))
	}

	if len(results) == 0 {
		fmt.Println("No image files found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tPEOPLE")
	fmt.Fprintln(w, "----\t------")
	for _, result := range results {
		switch {
		case result.Err != nil:
			fmt.Fprintf(w, "%s\terror: %v\n", result.Name, result.Err)
		case len(result.Labels) == 0:
			fmt.Fprintf(w, "%s\t-\n", result.Name)
		default:
			fmt.Fprintf(w, "%s\t%s\n", result.Name, strings.Join(result.Labels, ", "))
		}
	}
	w.Flush()

	fmt.Printf("\nTotal: %d file(s)\n", len(results))
	return nil
}

// batchMapping converts batch results into the filename to names mapping.
// Failed files become {"error": message} entries so they stay visible.
func batchMapping(results []engine.FileResult) map[string]any {
	mapping := make(map[string]any, len(results))
	for _, result := range results {
		if result.Err != nil {
			mapping[result.Name] = map[string]string{"error": result.Err.Error()}
			continue
		}
		mapping[result.Name] = result.Labels
	}
	return mapping
}
