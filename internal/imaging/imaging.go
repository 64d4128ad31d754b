// Package imaging prepares image files for the encoder backends: extension
// filtering for directory walks, JPEG normalization and downscaling, and
// bounding-box annotation of recognized faces.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/kozaktomas/face-tagger/internal/constants"
)

// imageExtensions lists the extensions treated as candidate images during
// directory walks, matched case-insensitively.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// IsImageFile reports whether the file name carries a recognized image
// extension (.png, .jpg, .jpeg, case-insensitive).
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// PrepareJPEG returns JPEG bytes fit for an encoder backend. JPEG input
// within maxDim passes through untouched; anything else is decoded, scaled
// down to fit maxDim while keeping aspect ratio, and re-encoded as JPEG.
func PrepareJPEG(data []byte, maxDim int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	fits := maxDim <= 0 || (width <= maxDim && height <= maxDim)
	if fits && format == "jpeg" {
		return data, nil
	}

	if !fits {
		var newWidth, newHeight int
		if width > height {
			newWidth = maxDim
			newHeight = int(float64(height) * float64(maxDim) / float64(width))
		} else {
			newHeight = maxDim
			newWidth = int(float64(width) * float64(maxDim) / float64(height))
		}

		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.BiLinear.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: constants.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Annotate draws red bounding boxes around the given face rectangles and
// returns the result as JPEG bytes.
func Annotate(data []byte, boxes []image.Rectangle) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	for _, box := range boxes {
		drawBox(dst, box, constants.BoxLineWidth)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: constants.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBox(dst *image.RGBA, box image.Rectangle, lineWidth int) {
	red := color.RGBA{255, 0, 0, 255}
	x1, y1 := box.Min.X, box.Min.Y
	x2, y2 := box.Max.X, box.Max.Y

	for w := 0; w < lineWidth; w++ {
		drawHLine(dst, x1, x2, y1+w, red)
		drawHLine(dst, x1, x2, y2-w, red)
		drawVLine(dst, y1, y2, x1+w, red)
		drawVLine(dst, y1, y2, x2-w, red)
	}
}

func drawHLine(dst *image.RGBA, x1, x2, y int, c color.RGBA) {
	bounds := dst.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for x := x1; x <= x2; x++ {
		if x >= bounds.Min.X && x < bounds.Max.X {
			dst.Set(x, y, c)
		}
	}
}

func drawVLine(dst *image.RGBA, y1, y2, x int, c color.RGBA) {
	bounds := dst.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X {
		return
	}
	for y := y1; y <= y2; y++ {
		if y >= bounds.Min.Y && y < bounds.Max.Y {
			dst.Set(x, y, c)
		}
	}
}
