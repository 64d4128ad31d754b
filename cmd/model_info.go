package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/classifier"
	"github.com/kozaktomas/face-tagger/internal/config"
	"github.com/kozaktomas/face-tagger/internal/engine"
)

var modelInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show metadata of the trained model",
	Long:  `Displays the sample count, people, embedding dimension and fit time of the trained model.`,
	RunE:  runModelInfo,
}

func init() {
	modelCmd.AddCommand(modelInfoCmd)

	modelInfoCmd.Flags().Bool("json", false, "Output as JSON")
}

func runModelInfo(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	info := loadModelInfo(cfg)

	if mustGetBool(cmd, "json") {
		return outputJSON(info)
	}

	if !info.Trained {
		fmt.Println("No trained model found.")
		fmt.Printf("Model path: %s\n", info.Path)
		return nil
	}

	fmt.Printf("Model: %s\n", info.Path)
	fmt.Printf("  Encoder:  %s\n", info.Encoder)
	fmt.Printf("  Samples:  %d\n", info.Samples)
	fmt.Printf("  People:   %d\n", len(info.People))
	fmt.Printf("  Dim:      %d\n", info.Dim)
	fmt.Printf("  K:        %d\n", info.K)
	if info.CreatedAt != nil {
		fmt.Printf("  Created:  %s\n", info.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

// loadModelInfo builds the model info snapshot straight from the model file,
// so inspection works without a usable encoder backend.
func loadModelInfo(cfg *config.Config) engine.Info {
	info := engine.Info{
		Path:    cfg.Model.Path,
		Encoder: cfg.Encoder.Backend,
	}

	clf, err := classifier.Load(cfg.Model.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		return info
	}
	if clf == nil {
		return info
	}

	created := clf.CreatedAt()
	info.Trained = true
	info.Samples = clf.Len()
	info.Dim = clf.Dim()
	info.K = clf.K()
	info.People = clf.Labels()
	info.Counts = clf.LabelCounts()
	info.CreatedAt = &created
	return info
}

func outputJSON(data any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
