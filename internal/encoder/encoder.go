// Package encoder turns image bytes into face detections with embeddings.
// Two backends are available: local dlib models and a remote embedding
// server speaking the multipart /embed/face protocol.
package encoder

import (
	"context"
	"fmt"
	"image"

	"github.com/kozaktomas/face-tagger/internal/config"
)

// Supported backend names for EncoderConfig.Backend.
const (
	BackendDlib   = "dlib"
	BackendRemote = "remote"
)

// Detection is a single face found in an image.
type Detection struct {
	Box       image.Rectangle // bounding box in the coordinates of the image the backend processed
	Embedding []float32
	Score     float64 // detector confidence, 0 when the backend does not report one
}

// Encoder detects faces in an image and computes their embeddings.
type Encoder interface {
	// Detect returns all faces found in the image, in detector order.
	// An image without faces yields an empty slice and no error.
	Detect(ctx context.Context, imageData []byte) ([]Detection, error)

	// Name identifies the backend for status output.
	Name() string

	// Close releases backend resources.
	Close() error
}

// New creates the encoder selected by the configuration.
func New(cfg config.EncoderConfig) (Encoder, error) {
	switch cfg.Backend {
	case BackendDlib:
		return NewDlib(cfg.DlibModelsDir)
	case BackendRemote:
		return NewRemote(cfg.EmbeddingURL), nil
	default:
		return nil, fmt.Errorf("unknown encoder backend %q", cfg.Backend)
	}
}
