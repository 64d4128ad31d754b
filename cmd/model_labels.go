package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/classifier"
	"github.com/kozaktomas/face-tagger/internal/names"
)

var modelLabelsCmd = &cobra.Command{
	Use:   "labels [name]",
	Short: "List the people in the trained model",
	Long: `List every person in the trained model with their sample counts.
An optional name argument narrows the list; matching ignores case,
diacritics and dashes, so "jiri-novak" finds "Jiří Novák".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModelLabels,
}

func init() {
	modelCmd.AddCommand(modelLabelsCmd)
}

func runModelLabels(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	clf, err := classifier.Load(cfg.Model.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		clf = nil
	}
	if clf == nil {
		fmt.Println("No trained model found.")
		return nil
	}

	labels := clf.Labels()
	if len(args) == 1 {
		var filtered []string
		for _, label := range labels {
			if names.Match(label, args[0]) {
				filtered = append(filtered, label)
			}
		}
		labels = filtered
	}

	if len(labels) == 0 {
		fmt.Println("No matching people found.")
		return nil
	}

	counts := clf.LabelCounts()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSAMPLES")
	fmt.Fprintln(w, "----\t-------")
	for _, label := range labels {
		fmt.Fprintf(w, "%s\t%d\n", label, counts[label])
	}
	w.Flush()

	fmt.Printf("\nTotal: %d people\n", len(labels))
	return nil
}
