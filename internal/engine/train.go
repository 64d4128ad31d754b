package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/kozaktomas/face-tagger/internal/classifier"
	"github.com/kozaktomas/face-tagger/internal/imaging"
)

// TrainResult summarizes a training run.
type TrainResult struct {
	Samples  int           // embeddings collected and fitted
	Images   int           // image files examined
	Skipped  int           // images with no detectable face
	Failed   int           // images that could not be processed
	People   []string      // labels in the fitted model, empty when Samples is 0
	Duration time.Duration
}

// trainItem is one candidate training image.
type trainItem struct {
	path  string
	label string
}

// Train builds a classifier from a directory whose immediate
// subdirectories are person labels holding example images. Only the first
// detected face of each image is used. With zero collected samples the
// run reports failure through the result and leaves any existing model
// untouched.
func (e *Engine) Train(ctx context.Context, dir string) (*TrainResult, error) {
	start := time.Now()

	items, err := collectTrainingItems(dir)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if e.Progress && len(items) > 0 {
		bar = progressbar.NewOptions(len(items),
			progressbar.OptionSetDescription("Training"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	result := &TrainResult{Images: len(items)}
	var samples [][]float32
	var labels []string

	for _, item := range items {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		embedding, err := e.firstFace(ctx, item.path)
		switch {
		case err != nil:
			result.Failed++
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", item.path, err)
		case embedding == nil:
			result.Skipped++
			fmt.Fprintf(os.Stderr, "Warning: No face found in %s\n", item.path)
		default:
			samples = append(samples, embedding)
			labels = append(labels, item.label)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}

	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "No face encodings found! Training failed.")
		result.Duration = time.Since(start)
		return result, nil
	}

	clf, err := classifier.Fit(samples, labels)
	if err != nil {
		return nil, fmt.Errorf("could not fit classifier: %w", err)
	}
	if err := clf.Save(e.modelPath); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.clf = clf
	e.mu.Unlock()

	result.Samples = clf.Len()
	result.People = clf.Labels()
	result.Duration = time.Since(start)
	return result, nil
}

// firstFace reads the image and returns the embedding of its first
// detected face. Multiple faces in a training image lose all but the
// first; no face at all returns nil without an error.
func (e *Engine) firstFace(ctx context.Context, path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	detections, err := e.enc.Detect(ctx, data)
	if err != nil {
		return nil, err
	}
	if len(detections) == 0 {
		return nil, nil
	}
	return detections[0].Embedding, nil
}

// collectTrainingItems lists the image files of every immediate
// subdirectory of dir, labeled with the subdirectory name. The listing is
// alphabetical and one level deep.
func collectTrainingItems(dir string) ([]trainItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read training directory: %w", err)
	}

	var items []trainItem
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		label := entry.Name()

		files, err := os.ReadDir(filepath.Join(dir, label))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", filepath.Join(dir, label), err)
			continue
		}
		for _, file := range files {
			if file.IsDir() || !imaging.IsImageFile(file.Name()) {
				continue
			}
			items = append(items, trainItem{
				path:  filepath.Join(dir, label, file.Name()),
				label: label,
			})
		}
	}
	return items, nil
}
