package database

import (
	"time"
)

// FaceSample represents one labeled training embedding stored in the database
type FaceSample struct {
	ID        int64
	RunID     string // push run that wrote this sample
	Label     string // person label exactly as trained
	LabelNorm string // normalized label for lookups (lowercase, no diacritics)
	Embedding []float32
	Dim       int
	Source    string // origin of the push, typically the pushing hostname
	CreatedAt time.Time
}
