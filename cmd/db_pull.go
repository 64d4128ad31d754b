package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/classifier"
	"github.com/kozaktomas/face-tagger/internal/database"
	"github.com/kozaktomas/face-tagger/internal/database/postgres"
)

var dbPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Rebuild the local model from the shared database",
	Long: `Pull fetches the shared sample set, fits a fresh classifier from it and
saves it to the model path, replacing the local model. With --person only
that person's samples are pulled; name matching ignores case, diacritics
and dashes.`,
	RunE: runDbPull,
}

func init() {
	dbCmd.AddCommand(dbPullCmd)

	dbPullCmd.Flags().String("person", "", "Pull only the samples of one person")
	dbPullCmd.Flags().Bool("json", false, "Output the pull summary as JSON")
}

// pullSummary is the db pull report.
type pullSummary struct {
	Samples  int    `json:"samples"`
	People   int    `json:"people"`
	Model    string `json:"model"`
	Duration string `json:"duration"`
}

func runDbPull(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg := loadConfig()

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	fmt.Println("Connecting to PostgreSQL database...")
	pool, err := postgres.Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewSampleRepository(pool)

	var rows []database.FaceSample
	if person := mustGetString(cmd, "person"); person != "" {
		rows, err = repo.GetByPerson(cmd.Context(), person)
	} else {
		rows, err = repo.GetAll(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("could not fetch samples: %w", err)
	}

	if len(rows) == 0 {
		fmt.Println("No samples found in the database, local model untouched.")
		return nil
	}

	samples := make([][]float32, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		samples[i] = row.Embedding
		labels[i] = row.Label
	}

	clf, err := classifier.Fit(samples, labels)
	if err != nil {
		return fmt.Errorf("could not fit classifier: %w", err)
	}
	if err := clf.Save(cfg.Model.Path); err != nil {
		return err
	}

	duration := time.Since(start)
	if mustGetBool(cmd, "json") {
		return outputJSON(pullSummary{
			Samples:  clf.Len(),
			People:   len(clf.Labels()),
			Model:    cfg.Model.Path,
			Duration: formatDuration(duration),
		})
	}

	fmt.Printf("Pulled %d sample(s) of %d people\n", clf.Len(), len(clf.Labels()))
	fmt.Printf("Model saved to %s (took %s)\n", cfg.Model.Path, formatDuration(duration))
	return nil
}
