package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-tagger/internal/encoder"
	"github.com/kozaktomas/face-tagger/internal/engine"
)

// stubEncoder reports one face per image with an embedding derived from the
// image dimensions, so tests steer distances through image sizes alone.
type stubEncoder struct{}

func (s *stubEncoder) Detect(ctx context.Context, imageData []byte) ([]encoder.Detection, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}
	return []encoder.Detection{
		{
			Box:       image.Rect(0, 0, cfg.Width, cfg.Height),
			Embedding: []float32{float32(cfg.Width), float32(cfg.Height)},
			Score:     1.0,
		},
	}, nil
}

func (s *stubEncoder) Name() string { return "stub" }

func (s *stubEncoder) Close() error { return nil }

// newTestEngine creates an untrained engine backed by the stub encoder.
func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(&stubEncoder{}, filepath.Join(t.TempDir(), "model.gob"))
}

// newTrainedEngine creates an engine trained on synthetic images of two
// people. Alice's faces cluster around 10x10 images, Bob's around 100x100.
func newTrainedEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := newTestEngine(t)

	dir := writeTrainingDir(t, map[string][][2]int{
		"alice": {{10, 10}, {11, 10}, {10, 11}},
		"bob":   {{100, 100}, {101, 100}, {100, 101}},
	})
	if _, err := eng.Train(context.Background(), dir); err != nil {
		t.Fatalf("failed to train engine: %v", err)
	}
	return eng
}

// writeTrainingDir creates a training directory with one subdirectory per
// person, each holding synthetic JPEGs of the given sizes.
func writeTrainingDir(t *testing.T, people map[string][][2]int) string {
	t.Helper()
	dir := t.TempDir()
	for label, sizes := range people {
		if err := os.MkdirAll(filepath.Join(dir, label), 0o755); err != nil {
			t.Fatalf("failed to create label dir: %v", err)
		}
		for i, wh := range sizes {
			path := filepath.Join(dir, label, fmt.Sprintf("img%d.jpg", i))
			if err := os.WriteFile(path, testJPEG(t, wh[0], wh[1]), 0o644); err != nil {
				t.Fatalf("failed to write image: %v", err)
			}
		}
	}
	return dir
}

// testJPEG encodes a gradient JPEG of the given dimensions.
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 5), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode JPEG: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest builds a multipart/form-data request with one file part
// and optional extra form fields.
func multipartRequest(t *testing.T, path string, fileData []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if fileData != nil {
		part, err := writer.CreateFormFile("file", "upload.jpg")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
