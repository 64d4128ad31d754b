package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/face-tagger/internal/database"
	"github.com/kozaktomas/face-tagger/internal/names"
)

// SampleRepository provides PostgreSQL-backed storage for labeled face samples
type SampleRepository struct {
	pool *Pool
}

// NewSampleRepository creates a new PostgreSQL sample repository
func NewSampleRepository(pool *Pool) *SampleRepository {
	return &SampleRepository{pool: pool}
}

// newID generates a new unique identifier for a push run.
func newID() string {
	return uuid.New().String()
}

// ReplaceAll replaces the stored sample set with the given samples in one
// transaction and returns the run id of the push. The database mirrors the
// local model file, which is also overwritten wholesale on retraining.
func (r *SampleRepository) ReplaceAll(ctx context.Context, samples []database.FaceSample, source string) (string, error) {
	runID := newID()

	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM face_samples"); err != nil {
		return "", fmt.Errorf("clear face samples: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO face_samples (run_id, label, label_norm, embedding, dim, source)
		VALUES ($1, $2, $3, $4::vector, $5, $6)
	`)
	if err != nil {
		return "", fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, sample := range samples {
		vec := pgvector.NewVector(sample.Embedding)
		labelNorm := names.Normalize(sample.Label)
		if _, err := stmt.ExecContext(ctx, runID, sample.Label, labelNorm, vec, len(sample.Embedding), source); err != nil {
			return "", fmt.Errorf("insert sample %d (%s): %w", i, sample.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return runID, nil
}

// GetAll retrieves every stored sample in insertion order.
func (r *SampleRepository) GetAll(ctx context.Context) ([]database.FaceSample, error) {
	query := `
		SELECT id, run_id, label, label_norm, embedding, dim, source, created_at
		FROM face_samples
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query face samples: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetByPerson retrieves the samples whose label matches the given person
// name. Matching is diacritics and case insensitive.
func (r *SampleRepository) GetByPerson(ctx context.Context, person string) ([]database.FaceSample, error) {
	query := `
		SELECT id, run_id, label, label_norm, embedding, dim, source, created_at
		FROM face_samples
		WHERE label_norm = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, names.Normalize(person))
	if err != nil {
		return nil, fmt.Errorf("query face samples by person: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// Count returns the number of stored samples.
func (r *SampleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM face_samples").Scan(&count); err != nil {
		return 0, fmt.Errorf("count face samples: %w", err)
	}
	return count, nil
}

// Labels returns per-label sample counts, alphabetically.
func (r *SampleRepository) Labels(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, "SELECT label, COUNT(*) FROM face_samples GROUP BY label ORDER BY label")
	if err != nil {
		return nil, fmt.Errorf("query label counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("scan label count: %w", err)
		}
		counts[label] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate label counts: %w", err)
	}
	return counts, nil
}

func scanSamples(rows *sql.Rows) ([]database.FaceSample, error) {
	var samples []database.FaceSample

	for rows.Next() {
		var sample database.FaceSample
		var vec pgvector.Vector

		if err := rows.Scan(
			&sample.ID,
			&sample.RunID,
			&sample.Label,
			&sample.LabelNorm,
			&vec,
			&sample.Dim,
			&sample.Source,
			&sample.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan face sample: %w", err)
		}

		sample.Embedding = vec.Slice()
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate face samples: %w", err)
	}

	return samples, nil
}
