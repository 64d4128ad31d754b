package classifier

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"
)

// schemaVersion guards the on-disk model format. Bump when modelFile changes.
const schemaVersion = 1

// modelFile is the gob envelope written to disk. The search graph is not
// persisted; it is rebuilt from the dataset on load.
type modelFile struct {
	SchemaVersion int
	CreatedAt     time.Time
	Dim           int
	K             int
	Labels        []string
	Samples       [][]float32
}

// Save writes the classifier to path, replacing any existing file.
func (c *Classifier) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create model file: %w", err)
	}
	defer f.Close()

	env := modelFile{
		SchemaVersion: schemaVersion,
		CreatedAt:     c.createdAt,
		Dim:           c.dim,
		K:             c.k,
		Labels:        c.labels,
		Samples:       c.samples,
	}
	if err := gob.NewEncoder(f).Encode(env); err != nil {
		return fmt.Errorf("could not encode model file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not write model file: %w", err)
	}
	return nil
}

// Load reads a classifier from path. A missing file is not an error; it
// returns (nil, nil) so callers can start untrained. A file that exists but
// cannot be decoded returns an error.
func Load(path string) (*Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not open model file: %w", err)
	}
	defer f.Close()

	var env modelFile
	if err := gob.NewDecoder(f).Decode(&env); err != nil {
		return nil, fmt.Errorf("could not decode model file: %w", err)
	}
	if env.SchemaVersion != schemaVersion {
		return nil, fmt.Errorf("unsupported model version %d, expected %d", env.SchemaVersion, schemaVersion)
	}

	c, err := build(env.Samples, env.Labels, env.K, env.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt model file: %w", err)
	}
	if c.dim != env.Dim {
		return nil, fmt.Errorf("corrupt model file: dimension %d does not match header %d", c.dim, env.Dim)
	}
	return c, nil
}
