// Package engine ties the encoder and the classifier together into the
// facial recognition pipelines: training, single image recognition and
// batch directory processing.
package engine

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kozaktomas/face-tagger/internal/classifier"
	"github.com/kozaktomas/face-tagger/internal/constants"
	"github.com/kozaktomas/face-tagger/internal/encoder"
	"github.com/kozaktomas/face-tagger/internal/imaging"
)

// Engine is a stateful handle owning the loaded classifier. The classifier
// pointer is guarded so the HTTP server can retrain while recognitions are
// in flight; the CLI paths never contend.
type Engine struct {
	enc       encoder.Encoder
	modelPath string

	// Progress enables a terminal progress bar during training.
	Progress bool

	mu  sync.RWMutex
	clf *classifier.Classifier
}

// Match is a recognized face: the predicted label, the exact distance to
// the nearest training sample and the face box in prepared image
// coordinates as [x1, y1, x2, y2].
type Match struct {
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
	Box      [4]int  `json:"box"`
}

// FileResult is the outcome of recognizing one file during batch
// processing. Exactly one of Labels or Err is meaningful.
type FileResult struct {
	Name   string
	Labels []string
	Err    error
}

// New creates an engine using enc for detection and modelPath for the
// persisted classifier. A missing model file leaves the engine untrained;
// an unreadable one is reported on stderr and also leaves it untrained.
func New(enc encoder.Encoder, modelPath string) *Engine {
	clf, err := classifier.Load(modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
	}
	return &Engine{
		enc:       enc,
		modelPath: modelPath,
		clf:       clf,
	}
}

// Trained reports whether a classifier is loaded.
func (e *Engine) Trained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.clf != nil
}

// Reload re-reads the classifier from disk. On failure the currently
// loaded classifier is kept.
func (e *Engine) Reload() error {
	clf, err := classifier.Load(e.modelPath)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.clf = clf
	e.mu.Unlock()
	return nil
}

// RecognizeFile recognizes faces in the image at path.
func (e *Engine) RecognizeFile(ctx context.Context, path string, tolerance float64) ([]Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read image: %w", err)
	}
	return e.Recognize(ctx, data, tolerance)
}

// Recognize detects faces in the image data and matches them against the
// classifier. A face matches when the distance to its nearest training
// sample is at most tolerance; farther faces are dropped as unknown.
// Without a trained model it prints a notice to stderr and returns an
// empty result, which is not an error.
func (e *Engine) Recognize(ctx context.Context, imageData []byte, tolerance float64) ([]Match, error) {
	e.mu.RLock()
	clf := e.clf
	e.mu.RUnlock()

	if clf == nil {
		fmt.Fprintln(os.Stderr, "No trained model found! Please train the model first.")
		return []Match{}, nil
	}

	prepared, err := imaging.PrepareJPEG(imageData, constants.MaxImageDim)
	if err != nil {
		return nil, err
	}

	detections, err := e.enc.Detect(ctx, prepared)
	if err != nil {
		return nil, err
	}

	matches := []Match{}
	for _, det := range detections {
		if len(det.Embedding) != clf.Dim() {
			return nil, fmt.Errorf("embedding dimension %d does not match model dimension %d", len(det.Embedding), clf.Dim())
		}
		distance := clf.NearestDistance(det.Embedding)
		if distance > tolerance {
			continue
		}
		matches = append(matches, Match{
			Label:    clf.Predict(det.Embedding),
			Distance: distance,
			Box:      [4]int{det.Box.Min.X, det.Box.Min.Y, det.Box.Max.X, det.Box.Max.Y},
		})
	}
	return matches, nil
}

// ProcessDirectory recognizes faces in every image file directly inside
// dir. Results keep the alphabetical directory order; a failure on one
// file becomes its result entry and never aborts the rest of the batch.
func (e *Engine) ProcessDirectory(ctx context.Context, dir string, tolerance float64) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read directory: %w", err)
	}

	results := []FileResult{}
	for _, entry := range entries {
		if entry.IsDir() || !imaging.IsImageFile(entry.Name()) {
			continue
		}

		matches, err := e.RecognizeFile(ctx, filepath.Join(dir, entry.Name()), tolerance)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", filepath.Join(dir, entry.Name()), err)
			results = append(results, FileResult{Name: entry.Name(), Err: err})
			continue
		}
		results = append(results, FileResult{Name: entry.Name(), Labels: Names(matches)})
	}
	return results, nil
}

// AnnotateMatches draws the matched face boxes into the image and returns
// the annotated JPEG.
func (e *Engine) AnnotateMatches(imageData []byte, matches []Match) ([]byte, error) {
	prepared, err := imaging.PrepareJPEG(imageData, constants.MaxImageDim)
	if err != nil {
		return nil, err
	}
	boxes := make([]image.Rectangle, 0, len(matches))
	for _, m := range matches {
		boxes = append(boxes, image.Rect(m.Box[0], m.Box[1], m.Box[2], m.Box[3]))
	}
	return imaging.Annotate(prepared, boxes)
}

// Names returns the distinct labels of the matches in first match order.
func Names(matches []Match) []string {
	names := []string{}
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if !seen[m.Label] {
			seen[m.Label] = true
			names = append(names, m.Label)
		}
	}
	return names
}

// Info describes the loaded model for status output.
type Info struct {
	Trained   bool           `json:"trained"`
	Path      string         `json:"path"`
	Encoder   string         `json:"encoder"`
	Samples   int            `json:"samples,omitempty"`
	Dim       int            `json:"dim,omitempty"`
	K         int            `json:"k,omitempty"`
	People    []string       `json:"people,omitempty"`
	Counts    map[string]int `json:"counts,omitempty"`
	CreatedAt *time.Time     `json:"created_at,omitempty"`
}

// Info returns a snapshot of the current model state.
func (e *Engine) Info() Info {
	e.mu.RLock()
	clf := e.clf
	e.mu.RUnlock()

	info := Info{
		Trained: clf != nil,
		Path:    e.modelPath,
		Encoder: e.enc.Name(),
	}
	if clf == nil {
		return info
	}

	created := clf.CreatedAt()
	info.Samples = clf.Len()
	info.Dim = clf.Dim()
	info.K = clf.K()
	info.People = clf.Labels()
	info.Counts = clf.LabelCounts()
	info.CreatedAt = &created
	return info
}

// Close releases the encoder.
func (e *Engine) Close() error {
	return e.enc.Close()
}
