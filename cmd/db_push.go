package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/classifier"
	"github.com/kozaktomas/face-tagger/internal/database"
	"github.com/kozaktomas/face-tagger/internal/database/postgres"
)

var dbPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the local training samples to the shared database",
	Long: `Push replaces the shared sample set with the samples of the local model,
so other machines can rebuild the same model with db pull.`,
	RunE: runDbPush,
}

func init() {
	dbCmd.AddCommand(dbPushCmd)

	dbPushCmd.Flags().String("source", "", "Source tag stored with the samples (defaults to the hostname)")
	dbPushCmd.Flags().Bool("json", false, "Output the push summary as JSON")
}

// pushSummary is the db push report.
type pushSummary struct {
	RunID    string `json:"run_id"`
	Samples  int    `json:"samples"`
	People   int    `json:"people"`
	Source   string `json:"source"`
	Duration string `json:"duration"`
}

func runDbPush(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg := loadConfig()

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	clf, err := classifier.Load(cfg.Model.Path)
	if err != nil {
		return fmt.Errorf("could not load model: %w", err)
	}
	if clf == nil {
		return errors.New("no trained model found, train one first")
	}

	source := mustGetString(cmd, "source")
	if source == "" {
		source, _ = os.Hostname()
	}

	embeddings, labels := clf.Dataset()
	samples := make([]database.FaceSample, len(embeddings))
	for i, embedding := range embeddings {
		samples[i] = database.FaceSample{Label: labels[i], Embedding: embedding}
	}

	fmt.Println("Connecting to PostgreSQL database...")
	pool, err := postgres.Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewSampleRepository(pool)
	runID, err := repo.ReplaceAll(cmd.Context(), samples, source)
	if err != nil {
		return fmt.Errorf("could not push samples: %w", err)
	}

	duration := time.Since(start)
	if mustGetBool(cmd, "json") {
		return outputJSON(pushSummary{
			RunID:    runID,
			Samples:  len(samples),
			People:   len(clf.Labels()),
			Source:   source,
			Duration: formatDuration(duration),
		})
	}

	fmt.Printf("Pushed %d sample(s) of %d people\n", len(samples), len(clf.Labels()))
	fmt.Printf("Run %s from %s (took %s)\n", runID, source, formatDuration(duration))
	return nil
}

// formatDuration formats a duration as a human-readable string
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
