// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Recognition constants
const (
	// DefaultTolerance is the default maximum nearest-neighbor distance for a
	// face to count as a recognized match. Lower values = stricter matching.
	DefaultTolerance = 0.6

	// MaxNeighbors caps the neighbor count used when fitting the classifier;
	// the effective k is min(MaxNeighbors, sample count).
	MaxNeighbors = 5
)

// Model constants
const (
	// DefaultModelFile is the classifier path used when none is configured.
	DefaultModelFile = "face_model.gob"
)

// Image constants
const (
	// MaxImageDim is the maximum dimension (width or height) of an image
	// handed to an encoder backend; larger images are downscaled first.
	MaxImageDim = 1920

	// JPEGQuality is the encode quality for normalized and annotated images.
	JPEGQuality = 85

	// BoxLineWidth is the line width for annotated face bounding boxes.
	BoxLineWidth = 3
)

// Serve constants
const (
	// DefaultPort is the HTTP API listen port for the serve command.
	DefaultPort = 8080
)
