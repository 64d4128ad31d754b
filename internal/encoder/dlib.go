package encoder

import (
	"context"
	"fmt"

	"github.com/Kagami/go-face"

	"github.com/kozaktomas/face-tagger/internal/constants"
	"github.com/kozaktomas/face-tagger/internal/imaging"
)

// Dlib runs face detection and embedding locally through the dlib models.
// The models directory must contain shape_predictor_5_face_landmarks.dat,
// dlib_face_recognition_resnet_model_v1.dat and mmod_human_face_detector.dat.
type Dlib struct {
	rec *face.Recognizer
}

// NewDlib loads the dlib model files from modelsDir.
func NewDlib(modelsDir string) (*Dlib, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("could not load dlib models from %s: %w", modelsDir, err)
	}
	return &Dlib{rec: rec}, nil
}

// Detect finds faces in the image. The input is converted to JPEG first
// because dlib only accepts JPEG data; the conversion is a no-op when the
// caller already normalized the image.
func (d *Dlib) Detect(ctx context.Context, imageData []byte) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jpegData, err := imaging.PrepareJPEG(imageData, constants.MaxImageDim)
	if err != nil {
		return nil, err
	}

	faces, err := d.rec.Recognize(jpegData)
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}

	detections := make([]Detection, 0, len(faces))
	for _, f := range faces {
		embedding := make([]float32, len(f.Descriptor))
		copy(embedding, f.Descriptor[:])
		detections = append(detections, Detection{
			Box:       f.Rectangle,
			Embedding: embedding,
		})
	}
	return detections, nil
}

func (d *Dlib) Name() string { return BackendDlib }

// Close releases the dlib recognizer.
func (d *Dlib) Close() error {
	d.rec.Close()
	return nil
}
